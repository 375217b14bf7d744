package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) addBranchCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "branch",
		Short: "List, create and switch branches",
		Long: `Work with local branches.

Examples:
  gitmate branch list
  gitmate branch create feature/login-form
  gitmate branch switch main`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List local branches",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.newSession(cmd)
			if err != nil {
				return err
			}
			return s.runBranchList(cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a branch and switch to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession(cmd)
			if err != nil {
				return err
			}
			return s.report(s.seq.CreateBranch(cmd.Context(), args[0]))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "switch <name>",
		Aliases: []string{"checkout"},
		Short:   "Switch to an existing branch",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession(cmd)
			if err != nil {
				return err
			}
			return s.report(s.seq.SwitchBranch(cmd.Context(), args[0]))
		},
	})

	root.AddCommand(cmd)
}

func (s *session) runBranchList(cmd *cobra.Command) error {
	list, err := s.seq.Branches(cmd.Context())
	if err != nil {
		return s.fail(err)
	}
	if s.format == OutputJSON {
		return s.out.JSON(list)
	}

	lines := make([]string, 0, len(list.Branches))
	for _, b := range list.Branches {
		marker := "  "
		if b.Name == list.Current {
			marker = "* "
		}
		lines = append(lines, marker+b.Name)
	}
	return s.out.Lines("Branches", lines)
}
