// Package git provides Git operations for gitmate.
// This file implements the CLIRunner which wraps git CLI commands.
package git

import (
	"context"
	"strconv"
	"time"

	"github.com/mrz1836/gitmate/internal/constants"
)

// Compile-time interface check.
var _ Runner = (*CLIRunner)(nil)

// CLIRunner implements Runner using the git CLI through an Executor.
type CLIRunner struct {
	executor       Executor
	binary         string
	workDir        string
	commandTimeout time.Duration
	networkTimeout time.Duration
}

// RunnerOption configures a CLIRunner.
type RunnerOption func(*CLIRunner)

// WithBinary sets the git executable name or path.
func WithBinary(binary string) RunnerOption {
	return func(r *CLIRunner) {
		if binary != "" {
			r.binary = binary
		}
	}
}

// WithCommandTimeout bounds local commands. Zero disables the bound.
func WithCommandTimeout(d time.Duration) RunnerOption {
	return func(r *CLIRunner) {
		r.commandTimeout = d
	}
}

// WithNetworkTimeout bounds push and pull. Zero disables the bound.
func WithNetworkTimeout(d time.Duration) RunnerOption {
	return func(r *CLIRunner) {
		r.networkTimeout = d
	}
}

// NewRunner creates a CLIRunner for workDir. Unlike a repository handle it does not
// require workDir to be a repository yet, since Init and Version run before one exists.
func NewRunner(executor Executor, workDir string, opts ...RunnerOption) *CLIRunner {
	r := &CLIRunner{
		executor:       executor,
		binary:         constants.DefaultGitBinary,
		workDir:        workDir,
		commandTimeout: constants.DefaultCommandTimeout,
		networkTimeout: constants.DefaultNetworkTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WorkDir returns the directory commands run in.
func (r *CLIRunner) WorkDir() string {
	return r.workDir
}

// Version runs `git --version`.
func (r *CLIRunner) Version(ctx context.Context) *CommandResult {
	return r.run(ctx, "--version")
}

// Init creates a new repository.
func (r *CLIRunner) Init(ctx context.Context) *CommandResult {
	return r.run(ctx, "init")
}

// GetConfig reads a config value.
func (r *CLIRunner) GetConfig(ctx context.Context, key string, global bool) *CommandResult {
	if global {
		return r.run(ctx, "config", "--global", "--get", key)
	}
	return r.run(ctx, "config", "--get", key)
}

// SetConfig writes a repository-local config value.
func (r *CLIRunner) SetConfig(ctx context.Context, key, value string) *CommandResult {
	return r.run(ctx, "config", key, value)
}

// Status runs porcelain status with the branch header.
func (r *CLIRunner) Status(ctx context.Context) *CommandResult {
	return r.run(ctx, "status", "--porcelain", "--branch")
}

// AddAll stages every change.
func (r *CLIRunner) AddAll(ctx context.Context) *CommandResult {
	return r.run(ctx, "add", "-A")
}

// Add stages a single path.
func (r *CLIRunner) Add(ctx context.Context, path string) *CommandResult {
	return r.run(ctx, "add", "--", path)
}

// DiffCachedQuiet reports through its exit status whether anything is staged.
func (r *CLIRunner) DiffCachedQuiet(ctx context.Context) *CommandResult {
	return r.run(ctx, "diff", "--cached", "--quiet")
}

// Commit records staged changes.
func (r *CLIRunner) Commit(ctx context.Context, message string) *CommandResult {
	return r.run(ctx, "commit", "-m", message)
}

// ShortHead returns the abbreviated hash of HEAD.
func (r *CLIRunner) ShortHead(ctx context.Context) *CommandResult {
	return r.run(ctx, "rev-parse", "--short", "HEAD")
}

// LastCommit returns the latest commit in oneline form.
func (r *CLIRunner) LastCommit(ctx context.Context) *CommandResult {
	return r.run(ctx, "log", "-1", "--oneline")
}

// Log returns commit history as a graph.
func (r *CLIRunner) Log(ctx context.Context, limit int, detailed bool) *CommandResult {
	args := []string{"log", "--graph"}
	if detailed {
		args = append(args, "--pretty=format:%h - %an, %ar : %s")
	} else {
		args = append(args, "--oneline", "--decorate")
	}
	if limit > 0 {
		args = append(args, "-"+strconv.Itoa(limit))
	}
	return r.run(ctx, args...)
}

// Remotes lists remote names.
func (r *CLIRunner) Remotes(ctx context.Context) *CommandResult {
	return r.run(ctx, "remote")
}

// AddRemote configures a remote.
func (r *CLIRunner) AddRemote(ctx context.Context, name, url string) *CommandResult {
	return r.run(ctx, "remote", "add", name, url)
}

// RemoveRemote deletes a remote.
func (r *CLIRunner) RemoveRemote(ctx context.Context, name string) *CommandResult {
	return r.run(ctx, "remote", "remove", name)
}

// Push sends commits to the remote.
func (r *CLIRunner) Push(ctx context.Context, remote, branch string, setUpstream bool) *CommandResult {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u")
	}
	if remote != "" {
		args = append(args, remote)
		if branch != "" {
			args = append(args, branch)
		}
	}
	return r.runNetwork(ctx, args...)
}

// Pull fetches and merges from upstream.
func (r *CLIRunner) Pull(ctx context.Context) *CommandResult {
	return r.runNetwork(ctx, "pull")
}

// CurrentBranch prints the checked-out branch name.
func (r *CLIRunner) CurrentBranch(ctx context.Context) *CommandResult {
	return r.run(ctx, "branch", "--show-current")
}

// Branches lists local branches.
func (r *CLIRunner) Branches(ctx context.Context) *CommandResult {
	return r.run(ctx, "branch", "--list")
}

// CreateBranch creates and checks out a branch.
func (r *CLIRunner) CreateBranch(ctx context.Context, name string) *CommandResult {
	return r.run(ctx, "checkout", "-b", name)
}

// Checkout switches to an existing branch.
func (r *CLIRunner) Checkout(ctx context.Context, name string) *CommandResult {
	return r.run(ctx, "checkout", name)
}

// RestoreFile discards unstaged changes to path.
func (r *CLIRunner) RestoreFile(ctx context.Context, path string) *CommandResult {
	return r.run(ctx, "checkout", "--", path)
}

// ResetHard discards all uncommitted changes.
func (r *CLIRunner) ResetHard(ctx context.Context) *CommandResult {
	return r.run(ctx, "reset", "--hard", "HEAD")
}

// DiffFile returns the unstaged diff for path.
func (r *CLIRunner) DiffFile(ctx context.Context, path string) *CommandResult {
	return r.run(ctx, "diff", "--", path)
}

// run executes a local git command bounded by the command timeout.
func (r *CLIRunner) run(ctx context.Context, args ...string) *CommandResult {
	return r.execute(ctx, r.commandTimeout, args)
}

// runNetwork executes a git command that talks to a remote.
func (r *CLIRunner) runNetwork(ctx context.Context, args ...string) *CommandResult {
	return r.execute(ctx, r.networkTimeout, args)
}

func (r *CLIRunner) execute(ctx context.Context, timeout time.Duration, args []string) *CommandResult {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tokens := make([]string, 0, len(args)+1)
	tokens = append(tokens, r.binary)
	tokens = append(tokens, args...)

	return r.executor.Execute(ctx, r.workDir, tokens)
}
