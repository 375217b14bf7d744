package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

type errorEntry struct {
	err     error
	message string
	action  string
}

// userErrors maps sentinels to what the CLI and the HTTP API show. It is a
// slice because wrapped errors are matched in order with errors.Is; the first
// sentinel found in the chain wins, so specific entries precede ErrGitOperation.
//
//nolint:gochecknoglobals // immutable lookup table
var userErrors = []errorEntry{
	// environment
	{ErrGitNotFound, "Git is not installed or not on your PATH.", "Install git from https://git-scm.com/downloads and reopen your terminal."},
	{ErrNotGitRepo, "This directory is not a git repository.", "Run 'gitmate init' to create one, or pass --repo with the correct path."},
	{ErrLockTimeout, "Another gitmate operation is running on this repository.", "Wait for it to finish and try again."},
	{ErrCommandTimeout, "The git command took too long and was stopped.", "Check your network connection or raise git.network_timeout in the config."},

	// preconditions
	{ErrEmptyValue, "A required value was empty.", "Provide a non-empty value and retry."},
	{ErrNothingToCommit, "There is nothing staged to commit.", "Stage changes first with 'gitmate add'."},
	{ErrIdentityNotConfigured, "Git does not know who you are.", `Run 'git config --global user.name "Your Name"' and 'git config --global user.email you@example.com'.`},
	{ErrBranchExists, "A branch with this name already exists.", "Choose a different branch name or switch to the existing branch."},
	{ErrBranchNotFound, "The specified branch does not exist.", "List branches with 'gitmate branch list' or create it first."},
	{ErrNoRemote, "No remote repository is configured.", "Run 'gitmate remote set <url>' to connect a remote."},
	{ErrFileNotModified, "The file has no unstaged modifications to restore.", "Check 'gitmate status' for the list of modified files."},

	// remote
	{ErrPushRejected, "The remote rejected the push because it has commits you do not have.", "Run 'gitmate pull' first, then push again."},
	{ErrPushAuthFailed, "Authentication with the remote failed.", "Check your credentials or SSH key configuration in git."},
	{ErrPushNetworkFailed, "Could not reach the remote repository.", "Check your network connection and the remote URL."},
	{ErrMergeConflict, "The pull produced merge conflicts.", "Resolve the conflicted files, stage them and commit."},
	{ErrGitOperation, "Git operation failed. Check your repository state.", "Review the git error details above."},

	// configuration and CLI
	{ErrConfigNil, "Configuration is missing.", ""},
	{ErrConfigInvalidGit, "The git section of the configuration is invalid.", "Fix the git.* values in your config file or environment."},
	{ErrConfigInvalidRepository, "The repository section of the configuration is invalid.", "Fix the repository.* values in your config file or environment."},
	{ErrConfigInvalidServer, "The server section of the configuration is invalid.", "Fix the server.* values in your config file or environment."},
	{ErrInvalidOutputFormat, "Invalid output format.", "Use --output text or --output json."},
	{ErrInvalidArgument, "Invalid argument.", "Run the command with --help for usage."},
	{ErrNonInteractiveMode, "This operation needs confirmation.", "Pass --yes to confirm in non-interactive mode."},
	{ErrMenuCanceled, "Menu closed.", ""},
}

// lookup returns the entry for err, or the error text itself when no
// sentinel in its chain is known.
func lookup(err error) ErrorInfo {
	for _, e := range userErrors {
		if errors.Is(err, e.err) {
			return ErrorInfo{Message: e.message, Action: e.action}
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
//
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return lookup(err).Message
}

// Actionable returns the user-facing message and a suggested action. The
// action is empty when there is nothing the user can do.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := lookup(err)
	return info.Message, info.Action
}
