// Package main provides the entry point for the gitmate CLI.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gitmate/internal/cli"
	"github.com/mrz1836/gitmate/internal/signal"
)

// Set via ldflags at build time.
//
//nolint:gochecknoglobals // build metadata
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	h := signal.NewHandler(context.Background())

	err := cli.Execute(h.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})
	if h.WasInterrupted() {
		logInterrupted(cli.GetLogger())
	}
	h.Stop()
	cli.CloseLogFile()

	os.Exit(cli.ExitCodeForError(err))
}

// logInterrupted records that a signal stopped the command.
func logInterrupted(logger zerolog.Logger) {
	logger.Warn().Msg("interrupted")
}
