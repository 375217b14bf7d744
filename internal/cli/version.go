package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mrz1836/gitmate/internal/tui"
)

// versionResult is the JSON shape of `gitmate version`.
type versionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// AddVersionCommand adds the version command to the root command.
func AddVersionCommand(root *cobra.Command, info BuildInfo) {
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flag("output").Value.String() == OutputJSON {
				return tui.NewOutput(cmd.OutOrStdout(), OutputJSON).JSON(versionResult{
					Version:   orDefault(info.Version, "dev"),
					Commit:    orDefault(info.Commit, "none"),
					Date:      orDefault(info.Date, "unknown"),
					GoVersion: runtime.Version(),
					Platform:  runtime.GOOS + "/" + runtime.GOARCH,
				})
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "gitmate %s\n", formatVersion(info))
			return err
		},
	})
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
