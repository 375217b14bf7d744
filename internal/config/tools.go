// Package config provides configuration management for gitmate.
// This file implements detection of the git executable and the global identity.
package config

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/gitmate/internal/constants"
)

//nolint:gochecknoglobals // compiled once
var gitVersionRe = regexp.MustCompile(`git version (\d+\.\d+(?:\.\d+)?)`)

// MinGitVersion is the oldest git release whose porcelain output gitmate parses.
// `branch --show-current` arrived in 2.22.
const MinGitVersion = "2.22.0"

// maxVersionSegments is the number of segments in a semantic version (major.minor.patch).
const maxVersionSegments = 3

// ToolStatus represents the installation status of the git executable.
type ToolStatus string

const (
	// ToolStatusMissing indicates git could not be found.
	ToolStatusMissing ToolStatus = "missing"

	// ToolStatusInstalled indicates git is installed and recent enough.
	ToolStatusInstalled ToolStatus = "installed"

	// ToolStatusOutdated indicates git is installed but below MinGitVersion.
	ToolStatusOutdated ToolStatus = "outdated"
)

// ToolReport is the outcome of DetectTools.
type ToolReport struct {
	Name           string     `json:"name" yaml:"name"`
	Binary         string     `json:"binary" yaml:"binary"`
	Path           string     `json:"path,omitempty" yaml:"path,omitempty"`
	Status         ToolStatus `json:"status" yaml:"status"`
	Version        string     `json:"version,omitempty" yaml:"version,omitempty"`
	MinVersion     string     `json:"min_version" yaml:"min_version"`
	UserName       string     `json:"user_name,omitempty" yaml:"user_name,omitempty"`
	UserEmail      string     `json:"user_email,omitempty" yaml:"user_email,omitempty"`
	InstallHint    string     `json:"install_hint,omitempty" yaml:"install_hint,omitempty"`
	IdentityIssues []string   `json:"identity_issues,omitempty" yaml:"identity_issues,omitempty"`
}

// Usable reports whether git can run gitmate operations.
func (r *ToolReport) Usable() bool {
	return r.Status == ToolStatusInstalled
}

// IdentityConfigured reports whether both global identity keys are set.
func (r *ToolReport) IdentityConfigured() bool {
	return r.UserName != "" && r.UserEmail != ""
}

// CommandExecutor abstracts command execution for testability.
type CommandExecutor interface {
	// LookPath searches for an executable named file in the PATH.
	LookPath(file string) (string, error)

	// Run executes a command and returns its combined output.
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// DefaultCommandExecutor implements CommandExecutor using os/exec.
type DefaultCommandExecutor struct{}

// LookPath searches for an executable in the PATH.
func (e *DefaultCommandExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and returns its output.
func (e *DefaultCommandExecutor) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- binary comes from configuration
	cmd.Env = append(cmd.Environ(), "LC_ALL=C", "GIT_TERMINAL_PROMPT=0")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// DetectTools reports on binary using the default executor.
func DetectTools(ctx context.Context, binary string) (*ToolReport, error) {
	return DetectToolsWithExecutor(ctx, binary, &DefaultCommandExecutor{})
}

// DetectToolsWithExecutor runs `--version` and reads the global user.name and
// user.email concurrently. A missing binary is reported through the Status
// field, not as an error; only cancellation returns an error.
func DetectToolsWithExecutor(ctx context.Context, binary string, executor CommandExecutor) (*ToolReport, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if binary == "" {
		binary = constants.DefaultGitBinary
	}
	report := &ToolReport{
		Name:        constants.ToolGit,
		Binary:      binary,
		Status:      ToolStatusMissing,
		MinVersion:  MinGitVersion,
		InstallHint: "Install Git from https://git-scm.com/downloads (version " + MinGitVersion + "+)",
	}

	path, err := executor.LookPath(binary)
	if err != nil {
		return report, nil //nolint:nilerr // not found is a report state
	}
	report.Path = path

	detectCtx, cancel := context.WithTimeout(ctx, constants.ToolDetectionTimeout)
	defer cancel()

	// each goroutine writes a distinct field
	g, gCtx := errgroup.WithContext(detectCtx)
	g.Go(func() error {
		output, runErr := executor.Run(gCtx, binary, "--version")
		if runErr != nil {
			report.Version = "unknown"
			return nil
		}
		report.Version = parseGitVersion(output)
		return nil
	})
	g.Go(func() error {
		report.UserName = readGlobalConfig(gCtx, executor, binary, constants.GitConfigUserName)
		return nil
	})
	g.Go(func() error {
		report.UserEmail = readGlobalConfig(gCtx, executor, binary, constants.GitConfigUserEmail)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to detect git: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case report.Version == "" || report.Version == "unknown":
		report.Version = "unknown"
		report.Status = ToolStatusInstalled
	case CompareVersions(report.Version, MinGitVersion) < 0:
		report.Status = ToolStatusOutdated
	default:
		report.Status = ToolStatusInstalled
	}

	if report.UserName == "" {
		report.IdentityIssues = append(report.IdentityIssues, constants.GitConfigUserName+" is not set globally")
	}
	if report.UserEmail == "" {
		report.IdentityIssues = append(report.IdentityIssues, constants.GitConfigUserEmail+" is not set globally")
	}

	return report, nil
}

// readGlobalConfig returns the trimmed value of key, or "" when unset.
func readGlobalConfig(ctx context.Context, executor CommandExecutor, binary, key string) string {
	output, err := executor.Run(ctx, binary, "config", "--global", "--get", key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(output)
}

// parseGitVersion parses "git version 2.39.0" → "2.39.0"
func parseGitVersion(output string) string {
	if matches := gitVersionRe.FindStringSubmatch(output); len(matches) >= 2 {
		return matches[1]
	}
	return ""
}

// CompareVersions compares two semantic versions.
// Returns:
//
//	-1 if current < required
//	 0 if current == required
//	 1 if current > required
func CompareVersions(current, required string) int {
	current = strings.TrimPrefix(current, "v")
	required = strings.TrimPrefix(required, "v")

	currentParts := parseVersionParts(current)
	requiredParts := parseVersionParts(required)

	for i := 0; i < maxVersionSegments; i++ {
		if currentParts[i] < requiredParts[i] {
			return -1
		}
		if currentParts[i] > requiredParts[i] {
			return 1
		}
	}
	return 0
}

// parseVersionParts parses a version string into [major, minor, patch].
func parseVersionParts(version string) [maxVersionSegments]int {
	var parts [maxVersionSegments]int
	segments := strings.Split(version, ".")

	for i := 0; i < len(segments) && i < maxVersionSegments; i++ {
		// keep only the numeric prefix ("0.5.x", "2.39.windows")
		numStr := segments[i]
		for j, c := range numStr {
			if c < '0' || c > '9' {
				numStr = numStr[:j]
				break
			}
		}
		if numStr != "" {
			parts[i], _ = strconv.Atoi(numStr)
		}
	}
	return parts
}

// FormatToolReport renders a short human-readable summary for `gitmate doctor`.
func FormatToolReport(r *ToolReport) string {
	var sb strings.Builder
	switch r.Status {
	case ToolStatusMissing:
		fmt.Fprintf(&sb, "  • %s: missing\n    Install: %s\n", r.Name, r.InstallHint)
	case ToolStatusOutdated:
		fmt.Fprintf(&sb, "  • %s: outdated (have %s, need %s)\n    Install: %s\n", r.Name, r.Version, r.MinVersion, r.InstallHint)
	default:
		fmt.Fprintf(&sb, "  • %s %s (%s)\n", r.Name, r.Version, r.Path)
	}
	for _, issue := range r.IdentityIssues {
		fmt.Fprintf(&sb, "  • %s\n", issue)
	}
	return sb.String()
}
