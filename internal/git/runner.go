// Package git provides Git operations for gitmate.
// This file defines the Runner interface for git CLI operations.
package git

import "context"

// Runner defines single-invocation git operations against one working directory.
// Every method performs exactly one external invocation and returns its result
// unchanged; callers decide what success means. Results are never nil.
type Runner interface {
	// WorkDir returns the directory commands run in.
	WorkDir() string

	// Version runs `git --version`.
	Version(ctx context.Context) *CommandResult

	// Init creates a new repository in the working directory.
	Init(ctx context.Context) *CommandResult

	// GetConfig reads a config value. Exit status 1 means the key is unset.
	GetConfig(ctx context.Context, key string, global bool) *CommandResult

	// SetConfig writes a repository-local config value.
	SetConfig(ctx context.Context, key, value string) *CommandResult

	// Status runs `git status --porcelain --branch`; parse stdout with ParseStatus.
	Status(ctx context.Context) *CommandResult

	// AddAll stages every change in the working tree, including deletions.
	AddAll(ctx context.Context) *CommandResult

	// Add stages a single path.
	Add(ctx context.Context, path string) *CommandResult

	// DiffCachedQuiet exits 0 when nothing is staged and 1 when something is.
	DiffCachedQuiet(ctx context.Context) *CommandResult

	// Commit records the staged changes with the message as given.
	Commit(ctx context.Context, message string) *CommandResult

	// ShortHead returns the abbreviated hash of HEAD.
	ShortHead(ctx context.Context) *CommandResult

	// LastCommit returns the most recent commit as one oneline entry.
	LastCommit(ctx context.Context) *CommandResult

	// Log returns commit history. limit <= 0 means no limit.
	Log(ctx context.Context, limit int, detailed bool) *CommandResult

	// Remotes lists configured remote names, one per line.
	Remotes(ctx context.Context) *CommandResult

	// AddRemote configures a remote.
	AddRemote(ctx context.Context, name, url string) *CommandResult

	// RemoveRemote deletes a remote.
	RemoveRemote(ctx context.Context, name string) *CommandResult

	// Push sends commits. With setUpstream, binds branch to remote/branch.
	// An empty remote performs a plain `git push`.
	Push(ctx context.Context, remote, branch string, setUpstream bool) *CommandResult

	// Pull fetches and merges from the tracked upstream.
	Pull(ctx context.Context) *CommandResult

	// CurrentBranch prints the checked-out branch name (empty when detached).
	CurrentBranch(ctx context.Context) *CommandResult

	// Branches lists local branches; parse stdout with ParseBranchList.
	Branches(ctx context.Context) *CommandResult

	// CreateBranch creates a branch and checks it out in one invocation.
	CreateBranch(ctx context.Context, name string) *CommandResult

	// Checkout switches to an existing branch.
	Checkout(ctx context.Context, name string) *CommandResult

	// RestoreFile discards unstaged changes to one path.
	RestoreFile(ctx context.Context, path string) *CommandResult

	// ResetHard discards all uncommitted changes.
	ResetHard(ctx context.Context) *CommandResult

	// DiffFile returns the unstaged diff for one path.
	DiffFile(ctx context.Context, path string) *CommandResult
}
