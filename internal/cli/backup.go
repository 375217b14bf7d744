package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) addBackupCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "backup",
		Short: "Stage everything, commit, and push if a remote exists",
		Long: `Quick backup in one step:

  1. nothing changed: report the last commit and stop
  2. stage every change
  3. commit as "Backup automat - <date time>"
  4. push when a remote is configured

A failed push keeps the commit; the backup is then reported as local only.

Examples:
  gitmate backup
  gitmate backup -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.newSession(cmd)
			if err != nil {
				return err
			}
			sp := s.spin(cmd.Context(), "backing up...")
			out := s.seq.QuickBackup(cmd.Context())
			sp.Stop()
			return s.report(out)
		},
	})
}
