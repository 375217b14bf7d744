package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/gitmate/internal/git"
)

func TestCannedStderrClassifies(t *testing.T) {
	tests := []struct {
		name string
		text string
		want git.ErrorType
	}{
		{"auth", StderrAuthFailed, git.ErrorTypeAuth},
		{"network", StderrNetwork, git.ErrorTypeNetwork},
		{"rejected", StderrRejected, git.ErrorTypeNonFastForward},
		{"identity", StderrIdentity, git.ErrorTypeIdentity},
		{"conflict", StderrConflict, git.ErrorTypeMergeConflict},
		{"not repo", StderrNotRepo, git.ErrorTypeNotRepository},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, git.ClassifyError(tt.text))
		})
	}
}
