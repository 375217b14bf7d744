package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/gitmate/internal/repository"
)

func (a *app) addAddCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "add [paths...]",
		Short: "Stage changes for the next commit",
		Long: `Stage the given paths, or every change when no path is given.

Each path is staged with its own git invocation; the command fails if any of
them fails and lists the paths that did.

Examples:
  gitmate add
  gitmate add index.html css/site.css`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession(cmd)
			if err != nil {
				return err
			}
			req := repository.StageRequest{All: len(args) == 0, Paths: args}
			return s.report(s.seq.Stage(cmd.Context(), req))
		},
	})
}

func (a *app) addCommitCommand(root *cobra.Command) {
	var message string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit staged changes",
		Long: `Commit what is staged. The message gets a timestamp suffix,
e.g. "Fix header [2025-01-31 14:05]".

Examples:
  gitmate commit -m "Add contact form validation"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.newSession(cmd)
			if err != nil {
				return err
			}
			return s.report(s.seq.CommitStaged(cmd.Context(), repository.CommitRequest{Message: message}))
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	_ = cmd.MarkFlagRequired("message")
	root.AddCommand(cmd)
}
