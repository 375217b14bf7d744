package cli

import (
	_ "embed"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/mrz1836/gitmate/internal/tui"
)

//go:embed guide.md
var guideMarkdown string

var (
	glamourRenderer     *glamour.TermRenderer //nolint:gochecknoglobals // cached renderer
	glamourRendererOnce sync.Once             //nolint:gochecknoglobals // sync.Once for renderer initialization
)

// getGlamourRenderer returns a cached glamour renderer, or nil if one could
// not be created.
func getGlamourRenderer() *glamour.TermRenderer {
	glamourRendererOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err == nil {
			glamourRenderer = r
		}
	})
	return glamourRenderer
}

// AddGuideCommand adds the guide command to the root command.
func AddGuideCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "guide",
		Short: "A short introduction to git and gitmate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderGuide(cmd.OutOrStdout(), cmd.Flag("output").Value.String())
		},
	})
}

// renderGuide writes the guide as styled markdown, falling back to the raw
// text when rendering fails or color is disabled.
func renderGuide(w io.Writer, format string) error {
	if format == OutputJSON {
		return tui.NewOutput(w, format).JSON(map[string]string{"guide": guideMarkdown})
	}

	if tui.HasColorSupport() {
		if renderer := getGlamourRenderer(); renderer != nil {
			if rendered, err := renderer.Render(guideMarkdown); err == nil {
				_, err = fmt.Fprint(w, rendered)
				return err
			}
		}
	}
	_, err := fmt.Fprint(w, guideMarkdown)
	return err
}
