package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/gitmate/internal/constants"
	"github.com/mrz1836/gitmate/internal/errors"
)

// historyResult is the JSON shape of `gitmate log`.
type historyResult struct {
	Commits  []string `json:"commits"`
	Limit    int      `json:"limit"`
	Detailed bool     `json:"detailed"`
}

func (a *app) addLogCommand(root *cobra.Command) {
	var (
		limit    int
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show commit history",
		Long: `Show recent commits as a graph, newest first.

--limit 0 shows every commit. The default comes from history.limit.

Examples:
  gitmate log
  gitmate log --limit 5 --detailed
  gitmate log --limit 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.newSession(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = s.cfg.History.Limit
			}
			return s.runLog(cmd, limit, detailed)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", constants.DefaultHistoryLimit, "number of commits (0 = all)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show author and relative date")
	root.AddCommand(cmd)
}

func (s *session) runLog(cmd *cobra.Command, limit int, detailed bool) error {
	if limit < 0 || limit > constants.MaxHistoryLimit {
		return errors.NewExitCode2Error(fmt.Errorf("--limit %d outside 0..%d: %w", limit, constants.MaxHistoryLimit, errors.ErrInvalidArgument))
	}

	lines, err := s.seq.History(cmd.Context(), limit, detailed)
	if err != nil {
		return s.fail(err)
	}

	if s.format == OutputJSON {
		return s.out.JSON(historyResult{Commits: lines, Limit: limit, Detailed: detailed})
	}
	title := "Last commits"
	if limit == 0 {
		title = "All commits"
	}
	return s.out.Lines(title, lines)
}
