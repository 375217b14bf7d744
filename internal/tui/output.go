package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrz1836/gitmate/internal/constants"
	gmerrors "github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/repository"
)

// Output formats accepted by NewOutput.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Output writes command results in the selected format.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error with its suggested action, if any.
	Error(err error)
	// Warning prints a warning message.
	Warning(msg string)
	// Info prints an informational message.
	Info(msg string)
	// JSON writes v as JSON regardless of the format.
	JSON(v any) error
	// Outcome renders a sequencer outcome.
	Outcome(o *repository.Outcome) error
	// State renders a repository snapshot.
	State(st *repository.State) error
	// Lines renders a titled list such as commit history.
	Lines(title string, lines []string) error
}

// OutputOption configures an Output.
type OutputOption func(*outputConfig)

type outputConfig struct {
	steps bool
}

// WithStepDetail makes text output list every executed command of an outcome.
func WithStepDetail(enabled bool) OutputOption {
	return func(c *outputConfig) {
		c.steps = enabled
	}
}

// NewOutput creates the Output for format. Anything but "json" is text.
func NewOutput(w io.Writer, format string, opts ...OutputOption) Output {
	cfg := &outputConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if format == FormatJSON {
		return NewJSONOutput(w)
	}
	out := NewTTYOutput(w)
	out.steps = cfg.steps
	return out
}

// ValidateFormat returns ErrInvalidOutputFormat for anything but text or json.
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, "":
		return nil
	default:
		return fmt.Errorf("%q: %w", format, gmerrors.ErrInvalidOutputFormat)
	}
}

// OutcomeView is the JSON shape of an outcome. The error and warning texts
// and the suggested action are flattened next to the status.
type OutcomeView struct {
	Success    bool                    `json:"success"`
	Operation  string                  `json:"operation"`
	Status     repository.FinalStatus  `json:"status"`
	Message    string                  `json:"message"`
	Error      string                  `json:"error,omitempty"`
	Action     string                  `json:"action,omitempty"`
	Warning    string                  `json:"warning,omitempty"`
	CommitHash string                  `json:"commit_hash,omitempty"`
	Branch     string                  `json:"branch,omitempty"`
	UpToDate   bool                    `json:"up_to_date,omitempty"`
	Stage      []repository.PathResult `json:"stage,omitempty"`
	Steps      []repository.Step       `json:"steps"`
}

// NewOutcomeView flattens o for JSON encoding.
func NewOutcomeView(o *repository.Outcome) OutcomeView {
	v := OutcomeView{
		Success:    o.Succeeded(),
		Operation:  o.Operation,
		Status:     o.Status,
		Message:    o.Message,
		Error:      o.ErrorText(),
		Warning:    o.WarningText(),
		CommitHash: o.CommitHash,
		Branch:     o.Branch,
		UpToDate:   o.UpToDate,
		Stage:      o.Stage,
		Steps:      o.Steps,
	}
	if o.Err != nil {
		_, v.Action = gmerrors.Actionable(o.Err)
	} else if o.Warning != nil {
		_, v.Action = gmerrors.Actionable(o.Warning)
	}
	return v
}

// TTYOutput provides styled terminal output using Lip Gloss.
type TTYOutput struct {
	w      io.Writer
	styles *OutputStyles
	steps  bool
}

// NewTTYOutput creates a TTYOutput. NO_COLOR is honored.
func NewTTYOutput(w io.Writer) *TTYOutput {
	CheckNoColor()
	return &TTYOutput{w: w, styles: NewOutputStyles()}
}

// Success prints msg in green with a check mark.
func (o *TTYOutput) Success(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Success.Render("✓ "+msg))
}

// Error prints the error and, for known sentinels, a dim "▸ Try:" hint.
func (o *TTYOutput) Error(err error) {
	if err == nil {
		return
	}
	_, _ = fmt.Fprintln(o.w, o.styles.Error.Render("✗ "+err.Error()))
	if _, action := gmerrors.Actionable(err); action != "" {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  ▸ Try: "+action))
	}
}

// Warning prints msg in yellow.
func (o *TTYOutput) Warning(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Warning.Render("⚠ "+msg))
}

// Info prints msg in blue.
func (o *TTYOutput) Info(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Info.Render("ℹ "+msg))
}

// JSON writes v as indented JSON.
func (o *TTYOutput) JSON(v any) error {
	return encodeIndented(o.w, v)
}

// Outcome prints the status line, any warning, and for failures the raw
// git text and a suggested action.
func (o *TTYOutput) Outcome(out *repository.Outcome) error {
	line := StatusIcon(out.Status) + " " + out.Message
	if out.CommitHash != "" {
		line += " (" + out.CommitHash + ")"
	}
	_, _ = fmt.Fprintln(o.w, o.styles.StatusStyle(out.Status).Render(line))

	for _, p := range out.Stage {
		if !p.Succeeded {
			_, _ = fmt.Fprintln(o.w, o.styles.Error.Render("  ✗ "+p.Path+": "+p.Error))
		}
	}

	if out.Warning != nil {
		o.Warning(out.WarningText())
		if _, action := gmerrors.Actionable(out.Warning); action != "" {
			_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  ▸ Try: "+action))
		}
	}
	if out.Err != nil {
		if detail := out.ErrorText(); detail != out.Message {
			_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  "+detail))
		}
		if _, action := gmerrors.Actionable(out.Err); action != "" {
			_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  ▸ Try: "+action))
		}
	}

	if o.steps {
		for _, step := range out.Steps {
			status := "ok"
			if !step.Result.Succeeded {
				status = fmt.Sprintf("exit %d", step.Result.ExitCode)
				if step.Result.Failure != "" {
					status = string(step.Result.Failure)
				}
			}
			_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render(fmt.Sprintf("  $ %s %s  [%s, %s]",
				constants.DefaultGitBinary, step.Command, status, step.Result.Duration.Round(time.Millisecond))))
		}
	}
	return nil
}

// State prints the branch line followed by one line per changed path.
func (o *TTYOutput) State(st *repository.State) error {
	if !st.Initialized {
		o.Warning("not a git repository (run `gitmate init`)")
		return nil
	}

	_, _ = fmt.Fprintln(o.w, o.styles.Header.Render(BranchLine(st)))

	if st.Clean() {
		o.Success("working tree clean")
		return nil
	}
	for _, c := range st.Changes {
		style := lipgloss.NewStyle().Foreground(ChangeKindColor(c.Kind))
		path := c.Path
		if c.OldPath != "" {
			path = c.OldPath + " → " + c.Path
		}
		_, _ = fmt.Fprintf(o.w, "  %s %s %s\n",
			style.Render(ChangeKindIcon(c.Kind)), path, o.styles.Dim.Render("("+string(c.Kind)+")"))
	}
	return nil
}

// Lines prints title and each line indented below it.
func (o *TTYOutput) Lines(title string, lines []string) error {
	if title != "" {
		_, _ = fmt.Fprintln(o.w, o.styles.Header.Render(title))
	}
	if len(lines) == 0 {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  (none)"))
		return nil
	}
	for _, l := range lines {
		_, _ = fmt.Fprintln(o.w, "  "+l)
	}
	return nil
}

// BranchLine summarizes the branch, upstream, and divergence of st.
func BranchLine(st *repository.State) string {
	switch {
	case st.Detached:
		return "HEAD detached"
	case st.Branch == "":
		return "no branch"
	}

	line := "On branch " + st.Branch
	if st.Upstream == "" {
		return line
	}
	line += " → " + st.Upstream
	switch {
	case st.Ahead > 0 && st.Behind > 0:
		line += fmt.Sprintf(" (ahead %d, behind %d)", st.Ahead, st.Behind)
	case st.Ahead > 0:
		line += fmt.Sprintf(" (ahead %d)", st.Ahead)
	case st.Behind > 0:
		line += fmt.Sprintf(" (behind %d)", st.Behind)
	}
	return line
}

func encodeIndented(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
