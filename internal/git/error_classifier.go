// Package git provides Git operations for gitmate.
// This file contains best-effort classification of git error text.
//
// Classification is a heuristic layered on top of structured checks: callers
// first rely on exit status and pre-check queries (diff --cached --quiet,
// git config lookups, the branch list) and only fall back to matching the
// tool's message text. Matching assumes the executor forces LC_ALL=C.
package git

import (
	"fmt"
	"strings"

	gmerrors "github.com/mrz1836/gitmate/internal/errors"
)

// ErrorType represents the classification of a git error.
type ErrorType int

const (
	// ErrorTypeUnknown indicates the error could not be classified.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeIdentity indicates user.name or user.email is missing.
	ErrorTypeIdentity
	// ErrorTypeNothingToCommit indicates a commit with an empty index.
	ErrorTypeNothingToCommit
	// ErrorTypeMergeConflict indicates a merge or pull left conflicts.
	ErrorTypeMergeConflict
	// ErrorTypeNotRepository indicates the directory is not a repository.
	ErrorTypeNotRepository
	// ErrorTypeAuth indicates an authentication error.
	ErrorTypeAuth
	// ErrorTypeNetwork indicates a network connectivity error.
	ErrorTypeNetwork
	// ErrorTypeNonFastForward indicates a non-fast-forward push rejection.
	ErrorTypeNonFastForward
	// ErrorTypeBranchExists indicates a branch with the same name already exists.
	ErrorTypeBranchExists
)

// String returns a human-readable name for the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeUnknown:
		return "unknown"
	case ErrorTypeIdentity:
		return "identity"
	case ErrorTypeNothingToCommit:
		return "nothing_to_commit"
	case ErrorTypeMergeConflict:
		return "merge_conflict"
	case ErrorTypeNotRepository:
		return "not_repository"
	case ErrorTypeAuth:
		return "authentication"
	case ErrorTypeNetwork:
		return "network"
	case ErrorTypeNonFastForward:
		return "non_fast_forward"
	case ErrorTypeBranchExists:
		return "branch_exists"
	default:
		return "unknown"
	}
}

// Sentinel returns the gitmate sentinel error for the type, or ErrGitOperation.
func (e ErrorType) Sentinel() error {
	switch e {
	case ErrorTypeIdentity:
		return gmerrors.ErrIdentityNotConfigured
	case ErrorTypeNothingToCommit:
		return gmerrors.ErrNothingToCommit
	case ErrorTypeMergeConflict:
		return gmerrors.ErrMergeConflict
	case ErrorTypeNotRepository:
		return gmerrors.ErrNotGitRepo
	case ErrorTypeAuth:
		return gmerrors.ErrPushAuthFailed
	case ErrorTypeNetwork:
		return gmerrors.ErrPushNetworkFailed
	case ErrorTypeNonFastForward:
		return gmerrors.ErrPushRejected
	case ErrorTypeBranchExists:
		return gmerrors.ErrBranchExists
	case ErrorTypeUnknown:
		return gmerrors.ErrGitOperation
	default:
		return gmerrors.ErrGitOperation
	}
}

// PatternMatcher checks if a string contains any of a list of patterns.
// It performs case-insensitive matching on the lowercased input.
type PatternMatcher struct {
	patterns []string
}

// NewPatternMatcher creates a new PatternMatcher with the given patterns.
// All patterns should be lowercase for consistent matching.
func NewPatternMatcher(patterns ...string) *PatternMatcher {
	return &PatternMatcher{patterns: patterns}
}

// Matches returns true if the input string contains any of the patterns.
func (m *PatternMatcher) Matches(s string) bool {
	return m.MatchesLower(strings.ToLower(s))
}

// MatchesLower checks if an already-lowercased string matches any pattern.
func (m *PatternMatcher) MatchesLower(lower string) bool {
	for _, pattern := range m.patterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

//nolint:gochecknoglobals // Package-level immutable pattern matchers
var (
	identityPatterns = NewPatternMatcher(
		"please tell me who you are",
		"author identity unknown",
		"committer identity unknown",
		"unable to auto-detect email address",
		"empty ident name",
	)

	nothingToCommitPatterns = NewPatternMatcher(
		"nothing to commit",
		"nothing added to commit",
		"no changes added to commit",
	)

	mergeConflictPatterns = NewPatternMatcher(
		"automatic merge failed",
		"merge conflict",
		"fix conflicts",
		"you have unmerged paths",
		"conflict (",
	)

	notRepositoryPatterns = NewPatternMatcher(
		"not a git repository",
	)

	authPatterns = NewPatternMatcher(
		"authentication failed",
		"could not read username",
		"could not read password",
		"permission denied",
		"invalid username or password",
		"access denied",
		"authentication required",
		"the requested url returned error: 403",
		"the requested url returned error: 401",
	)

	networkPatterns = NewPatternMatcher(
		"could not resolve host",
		"connection refused",
		"network is unreachable",
		"connection timed out",
		"operation timed out",
		"unable to access",
		"no route to host",
		"failed to connect",
		"could not read from remote repository",
	)

	nonFastForwardPatterns = NewPatternMatcher(
		"non-fast-forward",
		"[rejected]",
		"failed to push some refs",
		"updates were rejected",
		"fetch first",
		"tip of your current branch is behind",
	)

	branchExistsPatterns = NewPatternMatcher(
		"a branch named",
	)
)

// ErrorClassifier groups the pattern matchers used to classify git error text.
type ErrorClassifier struct {
	identity        *PatternMatcher
	nothingToCommit *PatternMatcher
	mergeConflict   *PatternMatcher
	notRepository   *PatternMatcher
	auth            *PatternMatcher
	network         *PatternMatcher
	nonFastForward  *PatternMatcher
	branchExists    *PatternMatcher
}

//nolint:gochecknoglobals // Singleton classifier for package use
var defaultClassifier = &ErrorClassifier{
	identity:        identityPatterns,
	nothingToCommit: nothingToCommitPatterns,
	mergeConflict:   mergeConflictPatterns,
	notRepository:   notRepositoryPatterns,
	auth:            authPatterns,
	network:         networkPatterns,
	nonFastForward:  nonFastForwardPatterns,
	branchExists:    branchExistsPatterns,
}

// ClassifyError determines the error type from git's message text.
//
// Classification priority (first match wins):
//  1. Identity, nothing to commit, merge conflict, not a repository (local, precise phrases)
//  2. Authentication (checked before network: a 403 also says "unable to access")
//  3. Network
//  4. Non-fast-forward
//  5. Branch exists
func ClassifyError(errStr string) ErrorType {
	return defaultClassifier.Classify(errStr)
}

// Classify determines the error type from an error string.
// See ClassifyError for classification priority.
func (c *ErrorClassifier) Classify(errStr string) ErrorType {
	lower := strings.ToLower(errStr)

	switch {
	case c.identity.MatchesLower(lower):
		return ErrorTypeIdentity
	case c.nothingToCommit.MatchesLower(lower):
		return ErrorTypeNothingToCommit
	case c.mergeConflict.MatchesLower(lower):
		return ErrorTypeMergeConflict
	case c.notRepository.MatchesLower(lower):
		return ErrorTypeNotRepository
	case c.auth.MatchesLower(lower):
		return ErrorTypeAuth
	case c.network.MatchesLower(lower):
		return ErrorTypeNetwork
	case c.nonFastForward.MatchesLower(lower):
		return ErrorTypeNonFastForward
	case c.branchExists.MatchesLower(lower):
		return ErrorTypeBranchExists
	default:
		return ErrorTypeUnknown
	}
}

// ClassifyResult converts a failed result into an error wrapping the most specific
// sentinel. The raw git text is kept verbatim in the error message. Results that
// never reached an exit status (timeouts, cancellation, missing binary) use
// CommandResult.Err directly. It returns nil for successful results.
func ClassifyResult(r *CommandResult) error {
	if r == nil || r.Succeeded {
		return nil
	}
	if r.Failure != FailureExitStatus {
		return r.Err()
	}

	// git commit reports "nothing to commit" on stdout, so inspect both streams
	text := strings.TrimSpace(r.Stderr + "\n" + r.Stdout)
	errType := ClassifyError(text)
	if errType == ErrorTypeUnknown {
		return r.Err()
	}

	return fmt.Errorf("git %s failed: %s: %w", r.Subcommand(), r.Message(), errType.Sentinel())
}
