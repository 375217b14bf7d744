// Package constants provides centralized constant values used throughout gitmate.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by gitmate.
const (
	// GitmateHome is the hidden directory name where gitmate stores its data.
	// This directory is created in the user's home directory.
	GitmateHome = ".gitmate"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// GitMetadataDir is git's private metadata directory inside a working tree.
	// Its presence is how gitmate decides a directory is already a repository.
	GitMetadataDir = ".git"

	// IgnoreFileName is the ignore-rules file written at initialization.
	IgnoreFileName = ".gitignore"

	// LockFilePrefix prefixes the per-repository lock files in the temp directory.
	LockFilePrefix = "gitmate-"
)

// Git defaults.
const (
	// DefaultGitBinary is the executable invoked for every command.
	DefaultGitBinary = "git"

	// DefaultRemote is the remote name gitmate configures and pushes to.
	DefaultRemote = "origin"

	// DefaultHistoryLimit is the number of commits shown by history queries.
	DefaultHistoryLimit = 10

	// MaxHistoryLimit bounds user-supplied history limits.
	MaxHistoryLimit = 1000
)

// Timeout configurations for various operations.
const (
	// DefaultCommandTimeout bounds local git commands (status, add, commit, ...).
	DefaultCommandTimeout = 30 * time.Second

	// DefaultNetworkTimeout bounds git commands that talk to a remote (push, pull).
	DefaultNetworkTimeout = 2 * time.Minute

	// DefaultLockTimeout is how long an operation waits for the repository lock.
	DefaultLockTimeout = 10 * time.Second

	// LockPollInterval is the delay between cross-process lock attempts.
	LockPollInterval = 50 * time.Millisecond
)

// HTTP server defaults.
const (
	// DefaultServerAddr is the listen address for 'gitmate serve'.
	DefaultServerAddr = ":5000"

	// DefaultServerReadTimeout bounds reading a request.
	DefaultServerReadTimeout = 15 * time.Second

	// DefaultServerWriteTimeout must exceed DefaultNetworkTimeout so push/pull
	// responses are not cut off.
	DefaultServerWriteTimeout = 3 * time.Minute

	// MaxRequestBodyBytes caps JSON request bodies.
	MaxRequestBodyBytes = 1 << 20
)

// Message formats.
const (
	// CommitTimestampLayout is appended to every user commit message as "<msg> [<ts>]".
	CommitTimestampLayout = "2006-01-02 15:04"

	// BackupTimestampLayout is used in generated quick-backup messages.
	BackupTimestampLayout = "2006-01-02 15:04:05"

	// BackupMessagePrefix starts every quick-backup commit message.
	BackupMessagePrefix = "Backup automat - "
)
