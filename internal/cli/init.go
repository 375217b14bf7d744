package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/gitmate/internal/repository"
)

func (a *app) addInitCommand(root *cobra.Command) {
	var name, email string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a repository with a default .gitignore",
		Long: `Initialize a git repository in the working directory, optionally set the
local user.name and user.email, and write the default .gitignore.

Running init in an existing repository changes nothing.

Identity defaults come from identity.name and identity.email in the config.

Examples:
  gitmate init
  gitmate init --name "Ada Lovelace" --email ada@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.newSession(cmd)
			if err != nil {
				return err
			}
			req := repository.InitRequest{Name: s.cfg.Identity.Name, Email: s.cfg.Identity.Email}
			if name != "" {
				req.Name = name
			}
			if email != "" {
				req.Email = email
			}
			return s.report(s.seq.Initialize(cmd.Context(), req))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "user.name to set for this repository")
	cmd.Flags().StringVar(&email, "email", "", "user.email to set for this repository")
	root.AddCommand(cmd)
}
