// Package repository sequences multi-step git workflows for gitmate.
//
// Every operation is built from single git invocations (see internal/git) plus
// branching on their results. Operations run one at a time per repository:
// each acquires the repository lock before its first invocation. A failed step
// stops its flow and completed steps are never rolled back, matching git's own
// semantics: a commit that succeeded stays committed even if the push after it
// fails.
package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/mrz1836/gitmate/internal/clock"
	"github.com/mrz1836/gitmate/internal/constants"
	"github.com/mrz1836/gitmate/internal/ctxutil"
	gmerrors "github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/git"
)

// Sequencer runs repository operations against one working directory.
type Sequencer struct {
	runner git.Runner
	fs     afero.Fs
	clock  clock.Clock
	locks  *LockManager
	logger zerolog.Logger
	remote string
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithFs sets the filesystem used for the metadata check and the ignore file.
func WithFs(fs afero.Fs) Option {
	return func(s *Sequencer) {
		s.fs = fs
	}
}

// WithClock sets the clock used for commit and backup timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Sequencer) {
		s.clock = c
	}
}

// WithLockManager shares a lock manager between sequencers.
func WithLockManager(m *LockManager) Option {
	return func(s *Sequencer) {
		s.locks = m
	}
}

// WithLogger sets the logger for operation messages.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Sequencer) {
		s.logger = logger
	}
}

// WithRemoteName sets the remote that publish replaces and pushes prefer.
func WithRemoteName(name string) Option {
	return func(s *Sequencer) {
		if name != "" {
			s.remote = name
		}
	}
}

// New creates a Sequencer driving runner.
func New(runner git.Runner, opts ...Option) *Sequencer {
	s := &Sequencer{
		runner: runner,
		fs:     afero.NewOsFs(),
		clock:  clock.RealClock{},
		logger: zerolog.Nop(),
		remote: constants.DefaultRemote,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.locks == nil {
		s.locks = NewLockManager(constants.DefaultLockTimeout, WithLockLogger(s.logger))
	}
	return s
}

// Root returns the repository working directory.
func (s *Sequencer) Root() string {
	return s.runner.WorkDir()
}

// IsInitialized reports whether the working directory holds repository metadata.
// A .git file (worktrees, submodules) counts as well as a directory.
func (s *Sequencer) IsInitialized() (bool, error) {
	ok, err := afero.Exists(s.fs, filepath.Join(s.Root(), constants.GitMetadataDir))
	if err != nil {
		return false, fmt.Errorf("failed to check repository metadata: %w", err)
	}
	return ok, nil
}

// begin performs the shared entry checks and takes the repository lock.
// On failure it returns a failed outcome and a nil release function.
func (s *Sequencer) begin(ctx context.Context, out *Outcome, requireRepo bool) (func(), *Outcome) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, out.fail(err, "operation canceled")
	}

	release, err := s.locks.Acquire(ctx, s.Root())
	if err != nil {
		return nil, out.fail(err, "repository is busy with another operation")
	}

	if requireRepo {
		ok, err := s.IsInitialized()
		if err != nil {
			release()
			return nil, out.fail(err, "could not inspect repository")
		}
		if !ok {
			release()
			return nil, out.fail(fmt.Errorf("%s: %w", s.Root(), gmerrors.ErrNotGitRepo), "not a git repository")
		}
	}

	return release, nil
}

// lockRead takes the lock for read-only queries that return data instead of an Outcome.
func (s *Sequencer) lockRead(ctx context.Context) (func(), error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	release, err := s.locks.Acquire(ctx, s.Root())
	if err != nil {
		return nil, err
	}

	ok, err := s.IsInitialized()
	if err != nil {
		release()
		return nil, err
	}
	if !ok {
		release()
		return nil, fmt.Errorf("%s: %w", s.Root(), gmerrors.ErrNotGitRepo)
	}
	return release, nil
}

// logOutcome writes a one-line summary of a finished operation.
func (s *Sequencer) logOutcome(out *Outcome) {
	event := s.logger.Info()
	if out.Status == StatusFailed {
		event = s.logger.Warn().Err(out.Err)
	}
	if out.Warning != nil {
		event = event.AnErr("warning", out.Warning)
	}
	event.
		Str("operation", out.Operation).
		Str("status", string(out.Status)).
		Int("steps", len(out.Steps)).
		Msg(out.Message)
}

// remotes lists configured remotes, recording the query as a step.
func (s *Sequencer) remotes(ctx context.Context, out *Outcome) ([]string, *git.CommandResult) {
	res := out.record("list remotes", s.runner.Remotes(ctx))
	if !res.Succeeded {
		return nil, res
	}
	var names []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names, res
}

// pickRemote prefers the configured remote name, falling back to the first listed.
func (s *Sequencer) pickRemote(names []string) string {
	for _, n := range names {
		if n == s.remote {
			return n
		}
	}
	if len(names) > 0 {
		return names[0]
	}
	return ""
}

// currentBranch reads the checked-out branch, recording the query as a step.
func (s *Sequencer) currentBranch(ctx context.Context, out *Outcome) (string, *git.CommandResult) {
	res := out.record("current branch", s.runner.CurrentBranch(ctx))
	if !res.Succeeded {
		return "", res
	}
	return res.Output(), res
}
