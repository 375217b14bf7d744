package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/gitmate/internal/config"
	"github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/tui"
)

func (a *app) addConfigCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect gitmate configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long: `Display the configuration after merging every source, highest first:

  flags      --repo, --config
  env        GITMATE_* (e.g. GITMATE_GIT_NETWORK_TIMEOUT=5m)
  project    <repo>/.gitmate.yaml
  global     ~/.gitmate/config.yaml
  defaults

Examples:
  gitmate config show
  gitmate config show -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(GetLogger().WithContext(cmd.Context()))
			if err != nil {
				return errors.NewExitCode2Error(err)
			}
			return renderConfig(cmd.OutOrStdout(), a.flags.Output, cfg)
		},
	})

	root.AddCommand(cmd)
}

// renderConfig writes cfg as YAML, or JSON with -o json. Durations are
// printed in Go notation ("30s") so the output can be pasted back into a file.
func renderConfig(w io.Writer, format string, cfg *config.Config) error {
	view := configView(cfg)
	if format == OutputJSON {
		return tui.NewOutput(w, format).JSON(view)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}

func configView(cfg *config.Config) map[string]any {
	return map[string]any{
		"git": map[string]any{
			"binary":          cfg.Git.Binary,
			"remote":          cfg.Git.Remote,
			"command_timeout": cfg.Git.CommandTimeout.String(),
			"network_timeout": cfg.Git.NetworkTimeout.String(),
		},
		"repository": map[string]any{
			"path":         cfg.Repository.Path,
			"lock_timeout": cfg.Repository.LockTimeout.String(),
		},
		"identity": map[string]any{
			"name":  cfg.Identity.Name,
			"email": cfg.Identity.Email,
		},
		"server": map[string]any{
			"addr":          cfg.Server.Addr,
			"read_timeout":  cfg.Server.ReadTimeout.String(),
			"write_timeout": cfg.Server.WriteTimeout.String(),
		},
		"history": map[string]any{
			"limit": cfg.History.Limit,
		},
	}
}
