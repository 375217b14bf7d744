// Package cli provides the command-line interface for gitmate.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/gitmate/internal/config"
	"github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/git"
	"github.com/mrz1836/gitmate/internal/repository"
	"github.com/mrz1836/gitmate/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// This is set during PersistentPreRunE and should be accessed via GetLogger.
// Access is protected by globalLoggerMu.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger for use by subcommands.
//
// It MUST only be called after the root command's PersistentPreRunE has
// executed. Before that it returns a zero-value logger that discards output.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// app carries what commands share: the parsed global flags and the seams tests
// use to replace git, the filesystem, and the log destination.
type app struct {
	flags *GlobalFlags

	// executor runs git; nil means the real binary.
	executor git.Executor
	// fs backs the repository metadata check and the ignore file; nil means the OS.
	fs afero.Fs
	// lockOptions are passed to the repository lock manager.
	lockOptions []repository.LockOption
	// tools runs the doctor probes; nil means os/exec.
	tools config.CommandExecutor
	// initLogger builds the logger from the verbosity flags.
	initLogger func(verbose, quiet bool) zerolog.Logger
}

// newRootCmd creates and returns the root command for the gitmate CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	return newRootCmdWithApp(&app{flags: flags, initLogger: InitLogger}, info)
}

func newRootCmdWithApp(a *app, info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "gitmate",
		Short: "gitmate - a friendly front end for everyday git",
		Long: `gitmate wraps the git binary with a small set of safe, everyday operations:
status, staging, commits, branches, remotes and one-step backups.

Features:
  • Structured status with one icon per kind of change
  • Quick backup: stage, commit and push in one step
  • Interactive menu for people new to git
  • A small JSON API for editors and web front ends`,
		Version: formatVersion(info),
		// Run displays help when the root command is invoked without subcommands.
		// This ensures PersistentPreRunE is called for flag validation.
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			if !IsValidOutputFormat(a.flags.Output) {
				return errors.NewExitCode2Error(fmt.Errorf("%w: %q must be one of %v",
					errors.ErrInvalidOutputFormat, a.flags.Output, ValidOutputFormats()))
			}

			globalLoggerMu.Lock()
			globalLogger = a.initLogger(a.flags.Verbose, a.flags.Quiet)
			globalLoggerMu.Unlock()

			return nil
		},
		// Errors are rendered by Execute so the suggested action is shown.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	AddGlobalFlags(cmd, a.flags)

	a.addStatusCommand(cmd)
	a.addInitCommand(cmd)
	a.addAddCommand(cmd)
	a.addCommitCommand(cmd)
	a.addLogCommand(cmd)
	a.addBranchCommand(cmd)
	a.addRemoteCommand(cmd)
	a.addPushCommand(cmd)
	a.addPullCommand(cmd)
	a.addBackupCommand(cmd)
	a.addRestoreCommand(cmd)
	a.addServeCommand(cmd)
	a.addMenuCommand(cmd)
	a.addDoctorCommand(cmd)
	a.addConfigCommand(cmd)
	AddGuideCommand(cmd)
	AddVersionCommand(cmd, info)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
// Errors that a command has not already rendered are printed to stderr.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	err := cmd.ExecuteContext(ctx)
	reportError(cmd.ErrOrStderr(), err)
	return err
}

// reportError prints err unless it is nil or was already written as output.
func reportError(w io.Writer, err error) {
	if err == nil || stderrors.Is(err, errors.ErrJSONErrorOutput) || stderrors.Is(err, errors.ErrOutputReported) {
		return
	}
	tui.NewTTYOutput(w).Error(err)
}
