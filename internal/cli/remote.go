package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/gitmate/internal/repository"
	"github.com/mrz1836/gitmate/internal/tui"
)

func (a *app) addRemoteCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Configure the remote repository",
	}

	var push bool
	set := &cobra.Command{
		Use:   "set <url>",
		Short: "Point the remote at url, replacing any existing one",
		Long: `Configure the remote (git.remote, "origin" by default). An existing remote
with that name is removed first, so running this twice leaves only the second URL.

With --push the current branch is pushed with upstream tracking.

Examples:
  gitmate remote set https://github.com/ada/site.git
  gitmate remote set git@github.com:ada/site.git --push`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession(cmd)
			if err != nil {
				return err
			}
			var sp tui.Spinner = tui.NoopSpinner{}
			if push {
				sp = s.spin(cmd.Context(), "publishing...")
			}
			out := s.seq.Publish(cmd.Context(), repository.PublishRequest{URL: args[0], Push: push})
			sp.Stop()
			return s.report(out)
		},
	}
	set.Flags().BoolVar(&push, "push", false, "push the current branch with upstream tracking")
	cmd.AddCommand(set)

	root.AddCommand(cmd)
}

func (a *app) addPushCommand(root *cobra.Command) {
	var first bool

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push commits to the remote",
		Long: `Push the current branch. --first sets upstream tracking, which a brand-new
remote branch needs.

Examples:
  gitmate push
  gitmate push --first`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.newSession(cmd)
			if err != nil {
				return err
			}
			sp := s.spin(cmd.Context(), "pushing...")
			out := s.seq.Push(cmd.Context(), repository.PushRequest{First: first})
			sp.Stop()
			return s.report(out)
		},
	}

	cmd.Flags().BoolVar(&first, "first", false, "first push: set upstream tracking")
	root.AddCommand(cmd)
}

func (a *app) addPullCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "pull",
		Short: "Fetch and merge changes from the remote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.newSession(cmd)
			if err != nil {
				return err
			}
			sp := s.spin(cmd.Context(), "pulling...")
			out := s.seq.Pull(cmd.Context())
			sp.Stop()
			return s.report(out)
		},
	})
}
