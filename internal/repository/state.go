package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrz1836/gitmate/internal/constants"
	"github.com/mrz1836/gitmate/internal/ctxutil"
	gmerrors "github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/git"
)

// State is a snapshot of the repository, read fresh on every call.
// When Initialized is false every other field is empty.
type State struct {
	Initialized bool             `json:"initialized"`
	Branch      string           `json:"current_branch,omitempty"`
	Upstream    string           `json:"upstream,omitempty"`
	Ahead       int              `json:"ahead,omitempty"`
	Behind      int              `json:"behind,omitempty"`
	Detached    bool             `json:"detached,omitempty"`
	Changes     []git.FileChange `json:"changes"`
}

// Clean reports whether the working tree has no changes.
func (st *State) Clean() bool {
	return len(st.Changes) == 0
}

// State reads the repository snapshot. A directory without repository metadata
// yields an uninitialized state rather than an error.
func (s *Sequencer) State(ctx context.Context) (*State, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	release, err := s.locks.Acquire(ctx, s.Root())
	if err != nil {
		return nil, err
	}
	defer release()

	ok, err := s.IsInitialized()
	if err != nil {
		return nil, err
	}
	if !ok {
		return &State{Changes: []git.FileChange{}}, nil
	}

	res := s.runner.Status(ctx)
	if !res.Succeeded {
		return nil, git.ClassifyResult(res)
	}

	st := &State{Initialized: true, Changes: git.ParseStatus(res.Stdout)}
	if info, found := git.ParseBranchHeader(res.Stdout); found {
		st.Branch = info.Name
		st.Upstream = info.Upstream
		st.Ahead = info.Ahead
		st.Behind = info.Behind
		st.Detached = info.Detached
	}
	return st, nil
}

// History returns commit history lines, newest first. limit 0 means all
// commits. A repository without commits has an empty history.
func (s *Sequencer) History(ctx context.Context, limit int, detailed bool) ([]string, error) {
	if limit < 0 || limit > constants.MaxHistoryLimit {
		return nil, fmt.Errorf("history limit %d outside 0..%d: %w", limit, constants.MaxHistoryLimit, gmerrors.ErrInvalidArgument)
	}

	release, err := s.lockRead(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	res := s.runner.Log(ctx, limit, detailed)
	if !res.Succeeded {
		// git log exits 128 on an unborn branch
		if strings.Contains(res.Message(), "does not have any commits yet") {
			return []string{}, nil
		}
		return nil, git.ClassifyResult(res)
	}

	return splitLines(res.Stdout), nil
}

// DiffFile returns the unstaged diff for path. An unchanged file has an empty diff.
func (s *Sequencer) DiffFile(ctx context.Context, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path to diff: %w", gmerrors.ErrEmptyValue)
	}

	release, err := s.lockRead(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	res := s.runner.DiffFile(ctx, path)
	if !res.Succeeded {
		return "", git.ClassifyResult(res)
	}
	return res.Stdout, nil
}

// Installation describes the git binary and the global identity.
type Installation struct {
	Installed bool   `json:"installed"`
	Version   string `json:"version,omitempty"`
	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
}

// IdentityConfigured reports whether both name and email are set globally.
func (i *Installation) IdentityConfigured() bool {
	return i.UserName != "" && i.UserEmail != ""
}

// CheckInstallation runs `git --version` and reads the global identity. It needs
// no repository and takes no lock. A missing binary is reported through
// Installed=false together with ErrGitNotFound.
func (s *Sequencer) CheckInstallation(ctx context.Context) (*Installation, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	inst := &Installation{}
	res := s.runner.Version(ctx)
	if !res.Succeeded {
		return inst, git.ClassifyResult(res)
	}
	inst.Installed = true
	inst.Version = strings.TrimPrefix(res.Output(), "git version ")

	if name := s.runner.GetConfig(ctx, constants.GitConfigUserName, true); name.Succeeded {
		inst.UserName = name.Output()
	}
	if email := s.runner.GetConfig(ctx, constants.GitConfigUserEmail, true); email.Succeeded {
		inst.UserEmail = email.Output()
	}
	return inst, nil
}

// splitLines splits output into lines, dropping a trailing empty line.
func splitLines(output string) []string {
	trimmed := strings.TrimRight(output, "\n")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}
