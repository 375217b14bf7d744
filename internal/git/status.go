// Package git provides Git operations for gitmate.
// This file contains the porcelain status parser.
package git

import (
	"strconv"
	"strings"
)

// ChangeKind classifies one line of porcelain status output.
type ChangeKind string

// Change kinds, derived from the two-character status code.
const (
	ChangeUntracked        ChangeKind = "untracked"
	ChangeModifiedStaged   ChangeKind = "modified_staged"
	ChangeModifiedUnstaged ChangeKind = "modified_unstaged"
	ChangeAdded            ChangeKind = "added"
	ChangeDeleted          ChangeKind = "deleted"
	ChangeRenamed          ChangeKind = "renamed"
	ChangeCopied           ChangeKind = "copied"
	ChangeUnknown          ChangeKind = "unknown"
)

// FileChange is one line of repository status.
type FileChange struct {
	// Path is the repository-relative path (the destination for renames and copies).
	Path string `json:"path"`
	// Kind is the classified change.
	Kind ChangeKind `json:"kind"`
	// Code is the raw two-character status code, e.g. " M" or "??".
	Code string `json:"code"`
	// OldPath is the source path for renames and copies.
	OldPath string `json:"old_path,omitempty"`
}

// BranchInfo is parsed from the "## " header of `status --porcelain --branch`.
type BranchInfo struct {
	// Name is the local branch name. Empty when HEAD is detached.
	Name string `json:"name,omitempty"`
	// Upstream is the tracked remote branch, if any.
	Upstream string `json:"upstream,omitempty"`
	// Ahead is the number of commits not yet pushed.
	Ahead int `json:"ahead"`
	// Behind is the number of upstream commits not yet merged.
	Behind int `json:"behind"`
	// Detached is true when HEAD does not point at a branch.
	Detached bool `json:"detached,omitempty"`
}

// porcelainCodeWidth is the length of the XY status code.
const porcelainCodeWidth = 2

// minPorcelainLine is the shortest line that can carry a status code.
const minPorcelainLine = 3

// ClassifyCode maps a two-character porcelain code to a ChangeKind.
//
// The checks are evaluated in a fixed first-match order over conditions that are not
// mutually exclusive, so "MM" (staged, then modified again) reports modified_staged.
// Renames and copies are checked after the original five rules and before falling
// back to unknown.
func ClassifyCode(code string) ChangeKind {
	if len(code) < porcelainCodeWidth {
		return ChangeUnknown
	}
	x, y := code[0], code[1]

	switch {
	case code[:porcelainCodeWidth] == "??":
		return ChangeUntracked
	case x == 'M':
		return ChangeModifiedStaged
	case y == 'M':
		return ChangeModifiedUnstaged
	case x == 'A':
		return ChangeAdded
	case x == 'D':
		return ChangeDeleted
	case x == 'R':
		return ChangeRenamed
	case x == 'C':
		return ChangeCopied
	default:
		return ChangeUnknown
	}
}

// ParseStatus turns `git status --porcelain` output into an ordered list of changes.
// Empty output yields an empty, non-nil slice. Lines too short to carry a code and
// "## " branch headers are skipped; parsing never fails.
//
// The input must not be trimmed: a leading space is part of the status code.
func ParseStatus(output string) []FileChange {
	changes := []FileChange{}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) < minPorcelainLine || strings.HasPrefix(line, "## ") {
			continue
		}

		code := line[:porcelainCodeWidth]
		path := strings.TrimSpace(line[porcelainCodeWidth:])
		if path == "" {
			continue
		}

		change := FileChange{Kind: ClassifyCode(code), Code: code}

		// XY ORIG -> DEST for renames and copies
		if orig, dest, ok := strings.Cut(path, " -> "); ok && (code[0] == 'R' || code[0] == 'C') {
			change.OldPath = unquotePath(orig)
			path = dest
		}
		change.Path = unquotePath(path)

		changes = append(changes, change)
	}

	return changes
}

// ParseBranchHeader parses the "## " header line from `status --porcelain --branch`.
// It returns false when output carries no header.
//
// Formats handled:
//
//	## main
//	## main...origin/main [ahead 1, behind 2]
//	## No commits yet on main
//	## HEAD (no branch)
func ParseBranchHeader(output string) (BranchInfo, bool) {
	var header string
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "## ") {
			header = strings.TrimSpace(strings.TrimPrefix(line, "## "))
			break
		}
	}
	if header == "" {
		return BranchInfo{}, false
	}

	info := BranchInfo{}

	if strings.HasPrefix(header, "HEAD (no branch)") {
		info.Detached = true
		return info, true
	}
	for _, prefix := range []string{"No commits yet on ", "Initial commit on "} {
		if strings.HasPrefix(header, prefix) {
			info.Name = strings.TrimPrefix(header, prefix)
			return info, true
		}
	}

	local, remote, hasRemote := strings.Cut(header, "...")
	if !hasRemote {
		// "## main [gone]" style headers carry no upstream separator
		local, _, _ = strings.Cut(local, " [")
		info.Name = local
		return info, true
	}
	info.Name = local

	upstream, counts, hasCounts := strings.Cut(remote, " [")
	info.Upstream = upstream
	if hasCounts {
		counts = strings.TrimSuffix(counts, "]")
		info.Ahead = parseAheadBehind(counts, "ahead ")
		info.Behind = parseAheadBehind(counts, "behind ")
	}

	return info, true
}

// parseAheadBehind extracts the count from "ahead N" or "behind N" in the info string.
func parseAheadBehind(info, prefix string) int {
	idx := strings.Index(info, prefix)
	if idx == -1 {
		return 0
	}

	numStr := info[idx+len(prefix):]
	if commaIdx := strings.Index(numStr, ","); commaIdx != -1 {
		numStr = numStr[:commaIdx]
	}

	n, err := strconv.Atoi(strings.TrimSpace(numStr))
	if err != nil {
		return 0
	}
	return n
}

// unquotePath removes git's C-style quoting from paths with special characters.
// Paths that fail to unquote are returned as-is.
func unquotePath(p string) string {
	if len(p) < 2 || p[0] != '"' || p[len(p)-1] != '"' {
		return p
	}
	if s, err := strconv.Unquote(p); err == nil {
		return s
	}
	return p
}
