package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/gitmate/internal/config"
	"github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/tui"
)

func (a *app) addDoctorCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check the git installation and identity",
		Long: `Check that git is installed, recent enough, and that user.name and
user.email are configured globally. Prints install instructions when git is missing.

Examples:
  gitmate doctor
  gitmate doctor -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(GetLogger().WithContext(cmd.Context()))
			if err != nil {
				return errors.NewExitCode2Error(err)
			}

			tools := a.tools
			if tools == nil {
				tools = &config.DefaultCommandExecutor{}
			}
			report, err := config.DetectToolsWithExecutor(cmd.Context(), cfg.Git.Binary, tools)
			if err != nil {
				return err
			}
			return renderDoctor(cmd.OutOrStdout(), a.flags.Output, report)
		},
	})
}

// renderDoctor prints the report. A missing or outdated git is a failure.
func renderDoctor(w io.Writer, format string, report *config.ToolReport) error {
	out := tui.NewOutput(w, format)
	var failure error
	if !report.Usable() {
		failure = fmt.Errorf("%s %s: %w", report.Binary, report.Status, errors.ErrGitNotFound)
	}

	if format == OutputJSON {
		if err := out.JSON(report); err != nil {
			return err
		}
		if failure != nil {
			return fmt.Errorf("%w: %w", errors.ErrJSONErrorOutput, failure)
		}
		return nil
	}

	_, _ = fmt.Fprint(w, config.FormatToolReport(report))
	switch {
	case failure != nil:
		out.Error(failure)
		printInstallGuide(w)
		return fmt.Errorf("%w: %w", errors.ErrOutputReported, failure)
	case !report.IdentityConfigured():
		out.Warning("set your identity before committing: gitmate init --name ... --email ...")
	default:
		out.Success("git is ready")
	}
	return nil
}

// printInstallGuide lists install commands per platform.
func printInstallGuide(w io.Writer) {
	_, _ = fmt.Fprint(w, `
  Windows:        download https://git-scm.com/download/win and run the installer
  Debian/Ubuntu:  sudo apt update && sudo apt install git
  Fedora/RHEL:    sudo dnf install git
  macOS:          brew install git   (or: xcode-select --install)

  Afterwards restart your terminal and check with: git --version
`)
}
