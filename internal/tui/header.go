package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderHeader renders the banner shown above the interactive menu, with the
// repository path and branch underneath.
func RenderHeader(repoPath, branch string) string {
	CheckNoColor()

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted).
		Padding(0, 2).
		Render("gitmate")

	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(StyleDim.Render(repoPath))
	if branch != "" {
		sb.WriteString(StyleDim.Render("  ⎇ " + branch))
	}
	return sb.String()
}
