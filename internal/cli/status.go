package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) addStatusCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current branch and changed files",
		Long: `Show the current branch, its upstream and every changed file with the kind
of change (untracked, staged, unstaged, added, deleted, renamed, copied).

Examples:
  gitmate status
  gitmate status -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.newSession(cmd)
			if err != nil {
				return err
			}
			return s.runStatus(cmd)
		},
	})
}

func (s *session) runStatus(cmd *cobra.Command) error {
	st, err := s.seq.State(cmd.Context())
	if err != nil {
		return s.fail(err)
	}
	return s.out.State(st)
}
