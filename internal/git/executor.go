// Package git provides Git operations for gitmate.
// This file implements the command executor: one external invocation in, one
// structured CommandResult out. Failures are values, never panics or bare errors.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	gmerrors "github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/logging"
)

// FailureKind classifies why a command did not succeed.
type FailureKind string

// Failure kinds reported in CommandResult.Failure.
const (
	// FailureNone means the command exited with status zero.
	FailureNone FailureKind = ""
	// FailureExitStatus means the command ran and exited nonzero (or could not start).
	FailureExitStatus FailureKind = "exit_status"
	// FailureNotFound means the executable could not be located.
	FailureNotFound FailureKind = "not_found"
	// FailureTimedOut means the command exceeded its bounded wait and was killed.
	FailureTimedOut FailureKind = "timed_out"
	// FailureCanceled means the caller canceled the context.
	FailureCanceled FailureKind = "canceled"
	// FailureInvalid means the invocation itself was malformed (no tokens).
	FailureInvalid FailureKind = "invalid"
)

// processWaitDelay bounds how long Wait blocks for output pipes after the process is killed.
const processWaitDelay = 2 * time.Second

// CommandResult is the outcome of one external invocation.
// It is created fresh per invocation and never modified afterwards.
type CommandResult struct {
	// Args is the full argument vector, executable first. Not redacted.
	Args []string `json:"-"`
	// Succeeded is true only when the process exited with status zero.
	Succeeded bool `json:"succeeded"`
	// Stdout is the raw standard output; leading whitespace is significant for porcelain output.
	Stdout string `json:"stdout"`
	// Stderr holds the tool's error text, or a gitmate message when the tool never ran.
	Stderr string `json:"stderr,omitempty"`
	// ExitCode is the process exit status, or -1 when the process did not exit normally.
	ExitCode int `json:"exit_code"`
	// Failure classifies unsuccessful results.
	Failure FailureKind `json:"failure,omitempty"`
	// Duration is the wall-clock time spent running the command.
	Duration time.Duration `json:"duration_ns"`
}

// Output returns stdout with surrounding whitespace removed.
func (r *CommandResult) Output() string {
	return strings.TrimSpace(r.Stdout)
}

// Message returns the most useful diagnostic text: stderr if present, else stdout.
func (r *CommandResult) Message() string {
	if msg := strings.TrimSpace(r.Stderr); msg != "" {
		return msg
	}
	return strings.TrimSpace(r.Stdout)
}

// Subcommand returns the git subcommand name (e.g. "push"), or "" when unknown.
func (r *CommandResult) Subcommand() string {
	if len(r.Args) < 2 {
		return ""
	}
	return r.Args[1]
}

// Err converts a failed result into an error. The error wraps the sentinel that
// matches the failure kind and carries the raw tool message verbatim. It returns
// nil for successful results.
func (r *CommandResult) Err() error {
	if r == nil || r.Succeeded {
		return nil
	}

	sub := r.Subcommand()
	msg := r.Message()

	switch r.Failure {
	case FailureNotFound:
		return gmerrors.ErrGitNotFound
	case FailureInvalid:
		return gmerrors.ErrEmptyCommand
	case FailureTimedOut:
		return fmt.Errorf("git %s timed out after %s: %w", sub, r.Duration.Round(time.Millisecond), gmerrors.ErrCommandTimeout)
	case FailureCanceled:
		return fmt.Errorf("git %s: %w", sub, context.Canceled)
	case FailureNone, FailureExitStatus:
	}

	if msg != "" {
		return fmt.Errorf("git %s failed: %s: %w", sub, msg, gmerrors.ErrGitOperation)
	}
	return fmt.Errorf("git %s failed: %w", sub, gmerrors.ErrGitOperation)
}

// Executor runs one external command in a fixed working directory.
// Implementations must always return a non-nil result.
type Executor interface {
	Execute(ctx context.Context, workDir string, tokens []string) *CommandResult
}

// Compile-time interface check.
var _ Executor = (*CLIExecutor)(nil)

// CLIExecutor implements Executor with os/exec. Tokens are passed to the
// process as discrete arguments; no shell is involved.
type CLIExecutor struct {
	timeout  time.Duration
	logger   zerolog.Logger
	env      []string
	lookPath func(file string) (string, error)
}

// ExecutorOption configures a CLIExecutor.
type ExecutorOption func(*CLIExecutor)

// NewExecutor creates a CLIExecutor. Without WithTimeout, commands are bounded
// only by the caller's context.
func NewExecutor(opts ...ExecutorOption) *CLIExecutor {
	e := &CLIExecutor{
		logger:   zerolog.Nop(),
		lookPath: exec.LookPath,
		// Stable, English output keeps parsing and error classification reliable,
		// and git must never block waiting for a credential prompt.
		env: []string{"LC_ALL=C", "GIT_TERMINAL_PROMPT=0"},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithTimeout bounds every command run by the executor.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *CLIExecutor) {
		e.timeout = d
	}
}

// WithExecutorLogger sets the logger for command tracing.
func WithExecutorLogger(logger zerolog.Logger) ExecutorOption {
	return func(e *CLIExecutor) {
		e.logger = logger
	}
}

// WithEnv appends environment variables (KEY=VALUE) to every command.
func WithEnv(env ...string) ExecutorOption {
	return func(e *CLIExecutor) {
		e.env = append(e.env, env...)
	}
}

// WithLookPath overrides executable resolution. Intended for tests.
func WithLookPath(fn func(file string) (string, error)) ExecutorOption {
	return func(e *CLIExecutor) {
		e.lookPath = fn
	}
}

// Execute runs tokens[0] with tokens[1:] as arguments in workDir.
func (e *CLIExecutor) Execute(ctx context.Context, workDir string, tokens []string) *CommandResult {
	result := &CommandResult{Args: append([]string(nil), tokens...), ExitCode: -1}

	if len(tokens) == 0 {
		result.Failure = FailureInvalid
		result.Stderr = gmerrors.ErrEmptyCommand.Error()
		return result
	}

	if err := ctx.Err(); err != nil {
		result.Failure = failureForContext(err)
		result.Stderr = err.Error()
		return result
	}

	path, err := e.lookPath(tokens[0])
	if err != nil {
		result.Failure = FailureNotFound
		result.Stderr = gmerrors.ErrGitNotFound.Error()
		e.logResult(result)
		return result
	}

	runCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, path, tokens[1:]...) //#nosec G204 -- argv is passed without a shell
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), e.env...)
	cmd.WaitDelay = processWaitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	result.Duration = time.Since(start)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	switch {
	case runErr == nil:
		result.Succeeded = true
		result.ExitCode = 0
	case runCtx.Err() != nil:
		result.Failure = failureForContext(runCtx.Err())
	case errors.Is(runErr, exec.ErrNotFound):
		result.Failure = FailureNotFound
		result.Stderr = gmerrors.ErrGitNotFound.Error()
	default:
		result.Failure = FailureExitStatus
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else if strings.TrimSpace(result.Stderr) == "" {
			// The process never started (e.g. missing working directory).
			result.Stderr = runErr.Error()
		}
	}

	e.logResult(result)
	return result
}

// logResult traces a finished command at debug level (warn for timeouts).
func (e *CLIExecutor) logResult(r *CommandResult) {
	event := e.logger.Debug()
	if r.Failure == FailureTimedOut {
		event = e.logger.Warn()
	}
	event.
		Strs("args", logging.RedactArgs(r.Args)).
		Bool("succeeded", r.Succeeded).
		Int("exit_code", r.ExitCode).
		Str("failure", string(r.Failure)).
		Dur("duration", r.Duration).
		Msg("git command finished")
}

// failureForContext maps a context error to a failure kind.
func failureForContext(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimedOut
	}
	return FailureCanceled
}
