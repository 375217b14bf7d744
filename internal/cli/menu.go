package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/gitmate/internal/config"
	"github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/git"
	"github.com/mrz1836/gitmate/internal/repository"
	"github.com/mrz1836/gitmate/internal/tui"
)

// Menu actions.
const (
	menuStatus   = "status"
	menuInit     = "init"
	menuAdd      = "add"
	menuCommit   = "commit"
	menuHistory  = "history"
	menuCreate   = "create-branch"
	menuSwitch   = "switch-branch"
	menuRemote   = "remote"
	menuPush     = "push"
	menuPull     = "pull"
	menuBackup   = "backup"
	menuRestore  = "restore"
	menuDoctor   = "doctor"
	menuGuide    = "guide"
	menuQuit     = "quit"
	menuAllFiles = "."
)

func (a *app) addMenuCommand(root *cobra.Command) {
	var accessible bool
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Interactive menu for every gitmate operation",
		Long: `Open an interactive menu. It shows only init, guide and doctor until the
directory is a repository.

Pass --accessible (or set ACCESSIBLE=1) for screen-reader friendly prompts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.flags.Output == OutputJSON || !tui.IsInteractive() {
				return errors.NewExitCode2Error(fmt.Errorf("the menu needs a terminal: %w", errors.ErrNonInteractiveMode))
			}
			s, err := a.newSession(cmd)
			if err != nil {
				return err
			}
			if accessible {
				s.menuOpts = append(s.menuOpts, tui.WithMenuAccessible(true))
			}
			return s.runMenu(cmd)
		},
	}
	cmd.Flags().BoolVar(&accessible, "accessible", false, "use plain prompts that work with screen readers")
	root.AddCommand(cmd)
}

// menuOptions returns the actions available for the repository state.
func menuOptions(initialized bool) []tui.Option {
	if !initialized {
		return []tui.Option{
			{Label: "Initialize repository", Value: menuInit},
			{Label: "Check git installation", Value: menuDoctor},
			{Label: "Git guide", Value: menuGuide},
			{Label: "Quit", Value: menuQuit},
		}
	}
	return []tui.Option{
		{Label: "Status", Value: menuStatus},
		{Label: "Stage files", Value: menuAdd},
		{Label: "Commit", Value: menuCommit},
		{Label: "History", Value: menuHistory},
		{Label: "Create branch", Value: menuCreate},
		{Label: "Switch branch", Value: menuSwitch},
		{Label: "Set remote", Value: menuRemote},
		{Label: "Push", Value: menuPush},
		{Label: "Pull", Value: menuPull},
		{Label: "Quick backup", Description: "stage, commit and push", Value: menuBackup},
		{Label: "Emergency restore", Value: menuRestore},
		{Label: "Check git installation", Value: menuDoctor},
		{Label: "Git guide", Value: menuGuide},
		{Label: "Quit", Value: menuQuit},
	}
}

func (s *session) choose(title string, options []tui.Option) (string, error) {
	return tui.Select(title, options, s.menuOpts...)
}

// ask prompts for text; validate may be nil.
func (s *session) ask(prompt, defaultValue string, validate func(string) error) (string, error) {
	if validate == nil {
		return tui.Input(prompt, defaultValue, s.menuOpts...)
	}
	return tui.InputWithValidation(prompt, defaultValue, validate, s.menuOpts...)
}

func (s *session) yesNo(prompt string, defaultValue bool) (bool, error) {
	return tui.Confirm(prompt, defaultValue, s.menuOpts...)
}

// runMenu loops until the user quits or cancels the top-level menu. Failures
// of a single action are shown and the loop continues.
func (s *session) runMenu(cmd *cobra.Command) error {
	ctx := cmd.Context()
	for ctx.Err() == nil {
		st, err := s.seq.State(ctx)
		if err != nil {
			return s.fail(err)
		}
		_, _ = fmt.Fprintln(s.stdout, tui.RenderHeader(s.seq.Root(), st.Branch))

		choice, err := s.choose("What would you like to do?", menuOptions(st.Initialized))
		if stderrors.Is(err, tui.ErrMenuCanceled) || choice == menuQuit {
			s.out.Info("bye")
			return nil
		}
		if err != nil {
			return err
		}

		err = s.runMenuAction(cmd, choice, st)
		switch {
		case err == nil,
			stderrors.Is(err, tui.ErrMenuCanceled),
			stderrors.Is(err, errors.ErrOutputReported):
		default:
			s.out.Error(err)
		}
		_, _ = fmt.Fprintln(s.stdout)
	}
	return nil
}

func (s *session) runMenuAction(cmd *cobra.Command, choice string, st *repository.State) error {
	ctx := cmd.Context()
	switch choice {
	case menuStatus:
		return s.out.State(st)
	case menuInit:
		return s.menuInit(ctx)
	case menuAdd:
		return s.menuStage(ctx, st)
	case menuCommit:
		return s.menuCommit(ctx)
	case menuHistory:
		return s.menuHistory(cmd)
	case menuCreate:
		name, err := s.ask("New branch name (e.g. feature/login-form)", "", git.ValidateBranchName)
		if err != nil {
			return err
		}
		return s.report(s.seq.CreateBranch(ctx, name))
	case menuSwitch:
		return s.menuSwitch(ctx)
	case menuRemote:
		return s.menuRemote(ctx)
	case menuPush:
		sp := s.spin(ctx, "pushing...")
		out := s.seq.Push(ctx, repository.PushRequest{First: st.Upstream == ""})
		sp.Stop()
		return s.report(out)
	case menuPull:
		sp := s.spin(ctx, "pulling...")
		out := s.seq.Pull(ctx)
		sp.Stop()
		return s.report(out)
	case menuBackup:
		return s.menuBackup(ctx, st)
	case menuRestore:
		return s.menuRestore(cmd, st)
	case menuDoctor:
		report, err := config.DetectTools(ctx, s.cfg.Git.Binary)
		if err != nil {
			return err
		}
		return renderDoctor(s.stdout, OutputText, report)
	case menuGuide:
		return renderGuide(s.stdout, OutputText)
	default:
		return fmt.Errorf("unknown menu action %q: %w", choice, errors.ErrInvalidArgument)
	}
}

func (s *session) menuInit(ctx context.Context) error {
	req := repository.InitRequest{Name: s.cfg.Identity.Name, Email: s.cfg.Identity.Email}

	inst, err := s.seq.CheckInstallation(ctx)
	if err != nil {
		return err
	}
	if !inst.IdentityConfigured() && !s.cfg.Identity.Complete() {
		if req.Name, err = s.ask("Your name (for commits)", req.Name, nil); err != nil {
			return err
		}
		if req.Email, err = s.ask("Your email (for commits)", req.Email, nil); err != nil {
			return err
		}
	}
	return s.report(s.seq.Initialize(ctx, req))
}

func (s *session) menuStage(ctx context.Context, st *repository.State) error {
	if st.Clean() {
		s.out.Success("working tree clean, nothing to stage")
		return nil
	}

	options := []tui.Option{{Label: "All changes", Value: menuAllFiles}}
	for _, c := range st.Changes {
		options = append(options, tui.Option{
			Label:       tui.ChangeKindIcon(c.Kind) + " " + c.Path,
			Description: string(c.Kind),
			Value:       c.Path,
		})
	}
	choice, err := s.choose("Stage which files?", options)
	if err != nil {
		return err
	}

	req := repository.StageRequest{All: choice == menuAllFiles}
	if !req.All {
		req.Paths = []string{choice}
	}
	return s.report(s.seq.Stage(ctx, req))
}

func (s *session) menuCommit(ctx context.Context) error {
	message, err := s.ask("Commit message (e.g. \"Add contact form validation\")", "", func(v string) error {
		if strings.TrimSpace(v) == "" {
			return errors.ErrEmptyValue
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.report(s.seq.CommitStaged(ctx, repository.CommitRequest{Message: message}))
}

func (s *session) menuHistory(cmd *cobra.Command) error {
	choice, err := s.choose("Which history?", []tui.Option{
		{Label: "Recent commits", Description: "compact", Value: "compact"},
		{Label: "Recent commits", Description: "with author and date", Value: "detailed"},
		{Label: "All commits", Value: "all"},
	})
	if err != nil {
		return err
	}

	switch choice {
	case "detailed":
		return s.runLog(cmd, s.cfg.History.Limit, true)
	case "all":
		return s.runLog(cmd, 0, false)
	default:
		return s.runLog(cmd, s.cfg.History.Limit, false)
	}
}

func (s *session) menuSwitch(ctx context.Context) error {
	list, err := s.seq.Branches(ctx)
	if err != nil {
		return err
	}

	var options []tui.Option
	for _, b := range list.Branches {
		if b.Name != list.Current {
			options = append(options, tui.Option{Label: b.Name, Value: b.Name})
		}
	}
	if len(options) == 0 {
		s.out.Info("there is only one branch; create one first")
		return nil
	}

	target, err := s.choose("Switch to", options)
	if err != nil {
		return err
	}
	return s.report(s.seq.SwitchBranch(ctx, target))
}

func (s *session) menuRemote(ctx context.Context) error {
	url, err := s.ask("Remote URL (https://github.com/you/repo.git or git@github.com:you/repo.git)", "",
		func(v string) error {
			if strings.TrimSpace(v) == "" {
				return errors.ErrEmptyValue
			}
			return nil
		})
	if err != nil {
		return err
	}
	push, err := s.yesNo("Push the current branch now?", true)
	if err != nil {
		return err
	}

	var sp tui.Spinner = tui.NoopSpinner{}
	if push {
		sp = s.spin(ctx, "publishing...")
	}
	out := s.seq.Publish(ctx, repository.PublishRequest{URL: strings.TrimSpace(url), Push: push})
	sp.Stop()
	return s.report(out)
}

func (s *session) menuBackup(ctx context.Context, st *repository.State) error {
	if !st.Clean() {
		if err := s.out.State(st); err != nil {
			return err
		}
		ok, err := s.yesNo(fmt.Sprintf("Back up these %d changes?", len(st.Changes)), true)
		if err != nil {
			return err
		}
		if !ok {
			s.out.Info("backup canceled")
			return nil
		}
	}

	sp := s.spin(ctx, "backing up...")
	out := s.seq.QuickBackup(ctx)
	sp.Stop()
	return s.report(out)
}

func (s *session) menuRestore(cmd *cobra.Command, st *repository.State) error {
	ctx := cmd.Context()
	s.out.Warning("these operations discard unsaved work")

	choice, err := s.choose("Emergency restore", []tui.Option{
		{Label: "Restore one file", Description: "to its last committed version", Value: "file"},
		{Label: "Restore everything", Description: "reset to the last commit", Value: "all"},
		{Label: "Show changes of a file", Value: "diff"},
		{Label: "Back", Value: menuQuit},
	})
	if err != nil || choice == menuQuit {
		return err
	}

	if choice == "all" {
		if ok, err := s.confirm(false, "Discard ALL uncommitted changes?"); !ok || err != nil {
			return err
		}
		return s.report(s.seq.RestoreAll(ctx))
	}

	var options []tui.Option
	for _, c := range st.Changes {
		if c.Kind == git.ChangeModifiedUnstaged || (choice == "diff" && c.Kind == git.ChangeModifiedStaged) {
			options = append(options, tui.Option{Label: c.Path, Value: c.Path})
		}
	}
	if len(options) == 0 {
		s.out.Success("no modified files")
		return nil
	}
	path, err := s.choose("Which file?", options)
	if err != nil {
		return err
	}

	if choice == "diff" {
		return s.runDiff(cmd, path)
	}
	if ok, err := s.confirm(false, "Discard your changes to "+path+"?"); !ok || err != nil {
		return err
	}
	return s.report(s.seq.RestoreFile(ctx, path))
}
