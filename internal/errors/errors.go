// Package errors provides centralized error handling for gitmate.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrGitOperation indicates that a git command exited with a nonzero status.
	ErrGitOperation = errors.New("git operation failed")

	// ErrGitNotFound indicates the git executable could not be located on PATH.
	ErrGitNotFound = errors.New("version-control tool not found")

	// ErrCommandTimeout indicates a command exceeded its timeout duration.
	ErrCommandTimeout = errors.New("command timeout exceeded")

	// ErrEmptyCommand indicates an executor was called without any tokens.
	ErrEmptyCommand = errors.New("command cannot be empty")

	// ErrNotGitRepo indicates the path is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrNothingToCommit indicates a commit was requested with nothing staged.
	ErrNothingToCommit = errors.New("nothing to commit")

	// ErrIdentityNotConfigured indicates user.name or user.email is not set.
	ErrIdentityNotConfigured = errors.New("git identity not configured")

	// ErrBranchExists indicates the branch already exists.
	ErrBranchExists = errors.New("branch already exists")

	// ErrBranchNotFound indicates the specified branch does not exist locally.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrNoRemote indicates no remote repository is configured.
	ErrNoRemote = errors.New("no remote configured")

	// ErrPushRejected indicates the remote rejected a push (non-fast-forward).
	ErrPushRejected = errors.New("push rejected by remote")

	// ErrPushAuthFailed indicates that git push or pull failed due to authentication.
	ErrPushAuthFailed = errors.New("remote authentication failed")

	// ErrPushNetworkFailed indicates that git push or pull failed due to network issues.
	ErrPushNetworkFailed = errors.New("remote network failed")

	// ErrMergeConflict indicates a pull produced conflicts that need manual resolution.
	ErrMergeConflict = errors.New("merge conflict")

	// ErrFileNotModified indicates a restore was requested for a file without unstaged changes.
	ErrFileNotModified = errors.New("file has no unstaged modifications")

	// ErrLockTimeout indicates the repository lock could not be acquired within the timeout period.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidGit indicates an invalid Git configuration value.
	ErrConfigInvalidGit = errors.New("invalid Git configuration")

	// ErrConfigInvalidRepository indicates an invalid repository configuration value.
	ErrConfigInvalidRepository = errors.New("invalid repository configuration")

	// ErrConfigInvalidServer indicates an invalid server configuration value.
	ErrConfigInvalidServer = errors.New("invalid server configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvalidArgument indicates that an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMenuCanceled indicates that the user canceled a menu operation.
	ErrMenuCanceled = errors.New("menu canceled by user")

	// ErrNoMenuOptions indicates that no options were provided to a menu.
	ErrNoMenuOptions = errors.New("no menu options provided")

	// ErrNonInteractiveMode indicates that an operation requiring confirmation
	// was attempted in non-interactive mode without the yes flag.
	ErrNonInteractiveMode = errors.New("use --yes in non-interactive mode")

	// ErrJSONErrorOutput indicates that an error has already been output as JSON.
	// This ensures a non-zero exit code while preventing duplicate error messages.
	ErrJSONErrorOutput = errors.New("error output as JSON")

	// ErrOutputReported indicates a failed outcome was already rendered as text.
	// Like ErrJSONErrorOutput it keeps the exit code non-zero without printing twice.
	ErrOutputReported = errors.New("failure already reported")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
