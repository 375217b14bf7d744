package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mrz1836/gitmate/internal/config"
	"github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/git"
	"github.com/mrz1836/gitmate/internal/repository"
	"github.com/mrz1836/gitmate/internal/tui"
)

// session is the per-invocation state of a repository command: the effective
// configuration, a sequencer bound to the repository, and the output writer.
type session struct {
	cfg    *config.Config
	seq    *repository.Sequencer
	out    tui.Output
	logger zerolog.Logger
	format string
	stdout io.Writer
	stderr io.Writer

	menuOpts []tui.MenuConfigOption
}

// loadConfig resolves the effective configuration for this invocation.
// --config replaces the project file; --repo overrides repository.path.
func (a *app) loadConfig(ctx context.Context) (*config.Config, error) {
	overrides := &config.Config{Repository: config.RepositoryConfig{Path: a.flags.Repo}}

	if a.flags.Config == "" {
		repoPath := a.flags.Repo
		if repoPath == "" {
			repoPath = "."
		}
		return config.LoadWithOverrides(ctx, repoPath, overrides)
	}

	global, err := config.GlobalConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFromPaths(ctx, a.flags.Config, global)
	if err != nil {
		return nil, err
	}
	if a.flags.Repo != "" {
		cfg.Repository.Path = a.flags.Repo
	}
	return cfg, nil
}

// newSession loads configuration and wires the git runner and sequencer.
func (a *app) newSession(cmd *cobra.Command) (*session, error) {
	logger := GetLogger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, errors.NewExitCode2Error(err)
	}

	root, err := filepath.Abs(cfg.Repository.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve repository path %q", cfg.Repository.Path)
	}

	executor := a.executor
	if executor == nil {
		executor = git.NewExecutor(git.WithExecutorLogger(logger))
	}
	runner := git.NewRunner(executor, root,
		git.WithBinary(cfg.Git.Binary),
		git.WithCommandTimeout(cfg.Git.CommandTimeout),
		git.WithNetworkTimeout(cfg.Git.NetworkTimeout),
	)

	lockOpts := append([]repository.LockOption{repository.WithLockLogger(logger)}, a.lockOptions...)
	opts := []repository.Option{
		repository.WithLogger(logger),
		repository.WithRemoteName(cfg.Git.Remote),
		repository.WithLockManager(repository.NewLockManager(cfg.Repository.LockTimeout, lockOpts...)),
	}
	if a.fs != nil {
		opts = append(opts, repository.WithFs(a.fs))
	}

	format := a.flags.Output
	return &session{
		cfg:    cfg,
		seq:    repository.New(runner, opts...),
		out:    tui.NewOutput(cmd.OutOrStdout(), format, tui.WithStepDetail(a.flags.Verbose)),
		logger: logger,
		format: format,
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
	}, nil
}

// report renders o and converts a failed outcome into an error that keeps the
// exit code non-zero without printing the failure a second time.
func (s *session) report(o *repository.Outcome) error {
	if err := s.out.Outcome(o); err != nil {
		return err
	}
	if o.Succeeded() {
		return nil
	}
	return s.reported(o.Err)
}

// fail renders err through the output and marks it as reported.
func (s *session) fail(err error) error {
	s.out.Error(err)
	return s.reported(err)
}

func (s *session) reported(err error) error {
	marker := errors.ErrOutputReported
	if s.format == OutputJSON {
		marker = errors.ErrJSONErrorOutput
	}
	if err == nil {
		return marker
	}
	return fmt.Errorf("%w: %w", marker, err)
}

// spin starts a progress spinner for network-bound work when text output is
// going to a terminal.
func (s *session) spin(ctx context.Context, msg string) tui.Spinner {
	if s.format != OutputText {
		return tui.NoopSpinner{}
	}
	f, ok := s.stderr.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return tui.NoopSpinner{}
	}
	return tui.StartSpinner(ctx, s.stderr, msg)
}
