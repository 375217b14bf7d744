// Package tui provides terminal user interface components for gitmate.
//
// This package centralizes Lip Gloss styling so every command renders
// statuses the same way. Colors are AdaptiveColor values for light and dark
// terminals.
//
// # Semantic Colors
//
//   - ColorPrimary (Blue): active states and prompts
//   - ColorSuccess (Green): success and clean trees
//   - ColorWarning (Yellow): local-only results and unstaged work
//   - ColorError (Red): failures and deletions
//   - ColorMuted (Gray): secondary text
//
// # NO_COLOR Support
//
// Call CheckNoColor() before writing styled text. Colors are disabled when
// NO_COLOR is present (any value) or TERM=dumb.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mrz1836/gitmate/internal/git"
	"github.com/mrz1836/gitmate/internal/repository"
)

//nolint:gochecknoglobals // package-level style API
var (
	// ColorPrimary is blue, used for active states and prompts.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for success states.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for warnings and local-only results.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for failures.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleBold applies bold formatting.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleDim applies faint formatting.
	StyleDim = lipgloss.NewStyle().Faint(true)
)

// OutputStyles holds common output styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
	Header  lipgloss.Style
}

// NewOutputStyles creates common output styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Info:    lipgloss.NewStyle().Foreground(ColorPrimary),
		Dim:     lipgloss.NewStyle().Foreground(ColorMuted),
		Header:  lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
	}
}

// CheckNoColor switches lipgloss to plain ASCII when colors are unwanted.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns false if NO_COLOR is set (any value, including
// empty) or TERM=dumb. See https://no-color.org/
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// ChangeKindIcon returns the single-character marker shown next to a path.
func ChangeKindIcon(kind git.ChangeKind) string {
	switch kind {
	case git.ChangeUntracked:
		return "?"
	case git.ChangeModifiedStaged:
		return "●"
	case git.ChangeModifiedUnstaged:
		return "○"
	case git.ChangeAdded:
		return "+"
	case git.ChangeDeleted:
		return "-"
	case git.ChangeRenamed:
		return "→"
	case git.ChangeCopied:
		return "⧉"
	default:
		return "·"
	}
}

// ChangeKindColor returns the semantic color for a change kind.
func ChangeKindColor(kind git.ChangeKind) lipgloss.AdaptiveColor {
	switch kind {
	case git.ChangeModifiedStaged, git.ChangeAdded, git.ChangeRenamed, git.ChangeCopied:
		return ColorSuccess
	case git.ChangeModifiedUnstaged:
		return ColorWarning
	case git.ChangeDeleted:
		return ColorError
	default:
		return ColorMuted
	}
}

// StatusIcon returns the icon for a final operation status. Icon, color, and
// text are always shown together.
func StatusIcon(status repository.FinalStatus) string {
	switch status {
	case repository.StatusSuccess:
		return "✓"
	case repository.StatusSuccessLocalOnly:
		return "⚠"
	case repository.StatusFailed:
		return "✗"
	case repository.StatusNoChanges, repository.StatusAlreadyInitialized, repository.StatusNoOp:
		return "ℹ"
	default:
		return "?"
	}
}

// StatusStyle returns the style used for an outcome line of the given status.
func (s *OutputStyles) StatusStyle(status repository.FinalStatus) lipgloss.Style {
	switch status {
	case repository.StatusSuccess:
		return s.Success
	case repository.StatusSuccessLocalOnly:
		return s.Warning
	case repository.StatusFailed:
		return s.Error
	default:
		return s.Info
	}
}
