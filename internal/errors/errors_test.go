package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gmerrors "github.com/mrz1836/gitmate/internal/errors"
)

// testError is a custom error type used to test default branches
// in UserMessage and Actionable without matching any sentinel.
type testError struct {
	msg string
}

func (e testError) Error() string {
	return e.msg
}

func allSentinels() []error {
	return []error{
		gmerrors.ErrGitOperation,
		gmerrors.ErrGitNotFound,
		gmerrors.ErrCommandTimeout,
		gmerrors.ErrEmptyCommand,
		gmerrors.ErrNotGitRepo,
		gmerrors.ErrEmptyValue,
		gmerrors.ErrNothingToCommit,
		gmerrors.ErrIdentityNotConfigured,
		gmerrors.ErrBranchExists,
		gmerrors.ErrBranchNotFound,
		gmerrors.ErrNoRemote,
		gmerrors.ErrPushRejected,
		gmerrors.ErrPushAuthFailed,
		gmerrors.ErrPushNetworkFailed,
		gmerrors.ErrMergeConflict,
		gmerrors.ErrFileNotModified,
		gmerrors.ErrLockTimeout,
		gmerrors.ErrConfigNil,
		gmerrors.ErrConfigInvalidGit,
		gmerrors.ErrConfigInvalidRepository,
		gmerrors.ErrConfigInvalidServer,
		gmerrors.ErrInvalidOutputFormat,
		gmerrors.ErrInvalidArgument,
		gmerrors.ErrMenuCanceled,
		gmerrors.ErrNoMenuOptions,
		gmerrors.ErrNonInteractiveMode,
		gmerrors.ErrJSONErrorOutput,
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	all := allSentinels()
	for i, a := range all {
		require.Error(t, a)
		assert.NotEmpty(t, a.Error())
		for j, b := range all {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, a, b, "%q should not match %q", a, b)
		}
	}
}

func TestGitNotFound_Message(t *testing.T) {
	assert.Equal(t, "version-control tool not found", gmerrors.ErrGitNotFound.Error())
}

func TestWrap(t *testing.T) {
	t.Run("preserves chain", func(t *testing.T) {
		err := gmerrors.Wrap(gmerrors.ErrNotGitRepo, "load state")
		require.ErrorIs(t, err, gmerrors.ErrNotGitRepo)
		assert.Equal(t, "load state: not a git repository", err.Error())
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, gmerrors.Wrap(nil, "anything"))
		assert.NoError(t, gmerrors.Wrapf(nil, "anything %d", 1))
	})

	t.Run("formatted", func(t *testing.T) {
		err := gmerrors.Wrapf(gmerrors.ErrBranchNotFound, "switch to %q", "dev")
		require.ErrorIs(t, err, gmerrors.ErrBranchNotFound)
		assert.Equal(t, `switch to "dev": branch not found`, err.Error())
	})
}

func TestUserMessage(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Empty(t, gmerrors.UserMessage(nil))
	})

	t.Run("unknown error keeps original text", func(t *testing.T) {
		assert.Equal(t, "boom", gmerrors.UserMessage(testError{msg: "boom"}))
	})

	t.Run("wrapped sentinel", func(t *testing.T) {
		err := fmt.Errorf("commit: %w", gmerrors.ErrNothingToCommit)
		assert.Equal(t, "There is nothing staged to commit.", gmerrors.UserMessage(err))
	})

	t.Run("specific sentinel wins over generic git failure", func(t *testing.T) {
		err := fmt.Errorf("push: %w: %w", gmerrors.ErrPushRejected, gmerrors.ErrGitOperation)
		msg, action := gmerrors.Actionable(err)
		assert.Contains(t, msg, "rejected")
		assert.Contains(t, action, "pull")
	})
}

func TestActionable(t *testing.T) {
	tests := []struct {
		err        error
		wantAction bool
	}{
		{gmerrors.ErrGitNotFound, true},
		{gmerrors.ErrNotGitRepo, true},
		{gmerrors.ErrIdentityNotConfigured, true},
		{gmerrors.ErrNoRemote, true},
		{gmerrors.ErrMenuCanceled, false},
		{gmerrors.ErrConfigNil, false},
	}

	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			msg, action := gmerrors.Actionable(tc.err)
			assert.NotEmpty(t, msg)
			if tc.wantAction {
				assert.NotEmpty(t, action)
			} else {
				assert.Empty(t, action)
			}
		})
	}

	msg, action := gmerrors.Actionable(nil)
	assert.Empty(t, msg)
	assert.Empty(t, action)
}

func TestExitCode2Error(t *testing.T) {
	inner := gmerrors.ErrInvalidArgument
	err := gmerrors.NewExitCode2Error(inner)

	assert.Equal(t, inner.Error(), err.Error())
	require.ErrorIs(t, err, gmerrors.ErrInvalidArgument)
	assert.True(t, gmerrors.IsExitCode2Error(err))
	assert.True(t, gmerrors.IsExitCode2Error(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, gmerrors.IsExitCode2Error(inner))
	assert.False(t, gmerrors.IsExitCode2Error(nil))
}
