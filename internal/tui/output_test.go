package tui

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gmerrors "github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/git"
	"github.com/mrz1836/gitmate/internal/repository"
)

func plainOutput(t *testing.T) (*TTYOutput, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	return NewTTYOutput(&buf), &buf
}

func TestNewOutput_SelectsFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.IsType(t, &JSONOutput{}, NewOutput(&buf, FormatJSON))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, FormatText))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, ""))
}

func TestValidateFormat(t *testing.T) {
	require.NoError(t, ValidateFormat("text"))
	require.NoError(t, ValidateFormat("json"))
	require.ErrorIs(t, ValidateFormat("yaml"), gmerrors.ErrInvalidOutputFormat)
}

func TestTTYOutput_ErrorShowsAction(t *testing.T) {
	out, buf := plainOutput(t)

	out.Error(fmt.Errorf("push: %w", gmerrors.ErrNoRemote))

	assert.Contains(t, buf.String(), "✗ push: no remote configured")
	assert.Contains(t, buf.String(), "▸ Try:")
}

func TestTTYOutput_OutcomeLocalOnly(t *testing.T) {
	out, buf := plainOutput(t)

	err := out.Outcome(&repository.Outcome{
		Operation:  "quick_backup",
		Status:     repository.StatusSuccessLocalOnly,
		Message:    "committed locally; push failed",
		CommitHash: "abc1234",
		Warning:    fmt.Errorf("push: %w", gmerrors.ErrPushNetworkFailed),
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "⚠ committed locally; push failed (abc1234)")
	assert.Contains(t, buf.String(), "remote network failed")
}

func TestTTYOutput_OutcomeFailedSingleErrorLine(t *testing.T) {
	out, buf := plainOutput(t)

	require.NoError(t, out.Outcome(&repository.Outcome{
		Operation: "commit",
		Status:    repository.StatusFailed,
		Message:   "commit message cannot be empty",
		Err:       fmt.Errorf("commit message: %w", gmerrors.ErrEmptyValue),
	}))

	text := buf.String()
	assert.Equal(t, 1, strings.Count(text, "✗"))
	assert.Contains(t, text, "✗ commit message cannot be empty")
	assert.Contains(t, text, "  commit message: value cannot be empty")
	assert.Contains(t, text, "▸ Try:")
}

func TestTTYOutput_OutcomeStepDetail(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	out := NewOutput(&buf, FormatText, WithStepDetail(true))

	require.NoError(t, out.Outcome(&repository.Outcome{
		Status:  repository.StatusFailed,
		Message: "failed to push",
		Err:     errors.New("git push failed: rejected"),
		Steps: []repository.Step{
			{Name: "push", Command: "push", Result: &git.CommandResult{ExitCode: 1, Failure: git.FailureExitStatus}},
		},
	}))

	assert.Contains(t, buf.String(), "$ git push")
	assert.Contains(t, buf.String(), "exit_status")
}

func TestTTYOutput_State(t *testing.T) {
	out, buf := plainOutput(t)

	require.NoError(t, out.State(&repository.State{
		Initialized: true,
		Branch:      "main",
		Upstream:    "origin/main",
		Ahead:       2,
		Changes: []git.FileChange{
			{Path: "a.txt", Kind: git.ChangeModifiedUnstaged, Code: " M"},
			{Path: "new.txt", OldPath: "old.txt", Kind: git.ChangeRenamed, Code: "R "},
		},
	}))

	text := buf.String()
	assert.Contains(t, text, "On branch main → origin/main (ahead 2)")
	assert.Contains(t, text, "a.txt (modified_unstaged)")
	assert.Contains(t, text, "old.txt → new.txt")
}

func TestTTYOutput_StateUninitialized(t *testing.T) {
	out, buf := plainOutput(t)
	require.NoError(t, out.State(&repository.State{}))
	assert.Contains(t, buf.String(), "not a git repository")
}

func TestBranchLine(t *testing.T) {
	tests := []struct {
		name string
		st   repository.State
		want string
	}{
		{"detached", repository.State{Detached: true}, "HEAD detached"},
		{"no upstream", repository.State{Branch: "main"}, "On branch main"},
		{"diverged", repository.State{Branch: "dev", Upstream: "origin/dev", Ahead: 1, Behind: 3}, "On branch dev → origin/dev (ahead 1, behind 3)"},
		{"behind", repository.State{Branch: "dev", Upstream: "origin/dev", Behind: 3}, "On branch dev → origin/dev (behind 3)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BranchLine(&tt.st))
		})
	}
}

func TestJSONOutput_Outcome(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)

	require.NoError(t, out.Outcome(&repository.Outcome{
		Operation: "commit",
		Status:    repository.StatusFailed,
		Message:   "nothing to commit",
		Err:       fmt.Errorf("commit: %w", gmerrors.ErrNothingToCommit),
		Steps:     []repository.Step{},
	}))

	var view map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
	assert.Equal(t, false, view["success"])
	assert.Equal(t, "failed", view["status"])
	assert.Equal(t, "commit: nothing to commit", view["error"])
	assert.NotEmpty(t, view["action"])
	assert.Equal(t, []any{}, view["steps"])
}

func TestJSONOutput_ErrorAndLines(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)

	out.Error(fmt.Errorf("switch: %w", gmerrors.ErrBranchNotFound))
	var je map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &je))
	assert.Equal(t, "error", je["type"])
	assert.Equal(t, "branch not found", je["details"])

	buf.Reset()
	require.NoError(t, out.Lines("history", nil))
	assert.JSONEq(t, `{"title":"history","lines":[]}`, buf.String())
}
