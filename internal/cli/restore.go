package cli

import (
	stderrors "errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/tui"
)

// diffResult is the JSON shape of `gitmate restore diff`.
type diffResult struct {
	Path string `json:"path"`
	Diff string `json:"diff"`
}

func (a *app) addRestoreCommand(root *cobra.Command) {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Discard uncommitted changes (emergency restore)",
		Long: `Throw away uncommitted work. These commands cannot be undone, so they ask
for confirmation; use --yes in scripts.

Examples:
  gitmate restore diff index.html
  gitmate restore file index.html
  gitmate restore all --yes`,
	}
	cmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	cmd.AddCommand(&cobra.Command{
		Use:   "file <path>",
		Short: "Restore one modified file to its last committed version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession(cmd)
			if err != nil {
				return err
			}
			if ok, err := s.confirm(yes, "Discard your changes to "+args[0]+"?"); !ok || err != nil {
				return err
			}
			return s.report(s.seq.RestoreFile(cmd.Context(), args[0]))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Reset every tracked file to the last commit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.newSession(cmd)
			if err != nil {
				return err
			}
			if ok, err := s.confirm(yes, "Discard ALL uncommitted changes?"); !ok || err != nil {
				return err
			}
			return s.report(s.seq.RestoreAll(cmd.Context()))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "diff <path>",
		Short: "Show the unstaged changes of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession(cmd)
			if err != nil {
				return err
			}
			return s.runDiff(cmd, args[0])
		},
	})

	root.AddCommand(cmd)
}

// confirm asks before a destructive operation. It returns false with a nil
// error when the user declines. Without a terminal --yes is required.
func (s *session) confirm(yes bool, prompt string) (bool, error) {
	if yes {
		return true, nil
	}
	if s.format == OutputJSON || !tui.IsInteractive() {
		return false, errors.NewExitCode2Error(errors.ErrNonInteractiveMode)
	}

	ok, err := s.yesNo(prompt, false)
	if err != nil && !stderrors.Is(err, tui.ErrMenuCanceled) {
		return false, err
	}
	if !ok || err != nil {
		s.out.Info("nothing changed")
		return false, nil
	}
	return true, nil
}

func (s *session) runDiff(cmd *cobra.Command, path string) error {
	diff, err := s.seq.DiffFile(cmd.Context(), path)
	if err != nil {
		return s.fail(err)
	}
	if s.format == OutputJSON {
		return s.out.JSON(diffResult{Path: path, Diff: diff})
	}
	if strings.TrimSpace(diff) == "" {
		s.out.Info(path + " has no unstaged changes")
		return nil
	}
	return s.out.Lines("Changes in "+path, strings.Split(strings.TrimRight(diff, "\n"), "\n"))
}
