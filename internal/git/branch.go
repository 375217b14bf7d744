// Package git provides Git operations for gitmate.
// This file provides branch list parsing and name validation.
package git

import (
	"fmt"
	"strings"

	gmerrors "github.com/mrz1836/gitmate/internal/errors"
)

// Branch is one local branch.
type Branch struct {
	Name    string `json:"name"`
	Current bool   `json:"current"`
}

// ParseBranchList parses `git branch --list` output. The current branch is marked
// with "* "; branches checked out in other worktrees with "+ ". A detached HEAD
// entry ("* (HEAD detached at ...)") is skipped.
func ParseBranchList(output string) []Branch {
	branches := []Branch{}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}

		current := strings.HasPrefix(line, "* ")
		name := strings.TrimSpace(strings.TrimLeft(line, "*+ "))
		if name == "" || strings.HasPrefix(name, "(") {
			continue
		}

		branches = append(branches, Branch{Name: name, Current: current})
	}

	return branches
}

// invalidBranchSequences are rejected anywhere in a branch name.
//
//nolint:gochecknoglobals // Immutable lookup table
var invalidBranchSequences = []string{"..", "~", "^", ":", "?", "*", "[", "\\", "@{", "//"}

// ValidateBranchName performs the local subset of git's ref-name rules so bad
// names are rejected with a clear message before git is invoked. A leading dash
// is refused so the name can never be read as an option.
func ValidateBranchName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("branch name: %w", gmerrors.ErrEmptyValue)
	}
	if trimmed != name || strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("branch name %q contains whitespace: %w", name, gmerrors.ErrInvalidArgument)
	}
	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") ||
		strings.HasSuffix(name, ".") || strings.HasSuffix(name, ".lock") || name == "@" {
		return fmt.Errorf("branch name %q is not allowed: %w", name, gmerrors.ErrInvalidArgument)
	}
	for _, seq := range invalidBranchSequences {
		if strings.Contains(name, seq) {
			return fmt.Errorf("branch name %q contains %q: %w", name, seq, gmerrors.ErrInvalidArgument)
		}
	}
	return nil
}
