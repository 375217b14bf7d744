package repository

import (
	"context"
	"fmt"

	gmerrors "github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/git"
)

// BranchList is the set of local branches.
type BranchList struct {
	Branches []git.Branch `json:"branches"`
	Current  string       `json:"current"`
}

// Has reports whether name is a local branch.
func (l *BranchList) Has(name string) bool {
	for _, b := range l.Branches {
		if b.Name == name {
			return true
		}
	}
	return false
}

// Branches lists local branches and the current one.
func (s *Sequencer) Branches(ctx context.Context) (*BranchList, error) {
	release, err := s.lockRead(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.branches(ctx, newOutcome("branches"))
}

// branches reads the branch list. On an unborn repository git lists nothing,
// so the current name comes from `branch --show-current`.
func (s *Sequencer) branches(ctx context.Context, out *Outcome) (*BranchList, error) {
	res := out.record("list branches", s.runner.Branches(ctx))
	if !res.Succeeded {
		return nil, git.ClassifyResult(res)
	}

	list := &BranchList{Branches: git.ParseBranchList(res.Stdout)}
	for _, b := range list.Branches {
		if b.Current {
			list.Current = b.Name
		}
	}
	if list.Current == "" {
		if name, cur := s.currentBranch(ctx, out); cur.Succeeded {
			list.Current = name
		}
	}
	return list, nil
}

// CreateBranch creates name and checks it out in a single invocation, so the
// branch never exists without being current.
func (s *Sequencer) CreateBranch(ctx context.Context, name string) *Outcome {
	out := newOutcome("create_branch")

	if err := git.ValidateBranchName(name); err != nil {
		return s.done(out.fail(err, "invalid branch name"))
	}

	release, failed := s.begin(ctx, out, true)
	if failed != nil {
		return s.done(failed)
	}
	defer release()

	list, err := s.branches(ctx, out)
	if err != nil {
		return s.done(out.fail(err, "could not list branches"))
	}
	if list.Has(name) {
		return s.done(out.fail(fmt.Errorf("%s: %w", name, gmerrors.ErrBranchExists), "branch already exists"))
	}

	if res := out.record("create branch", s.runner.CreateBranch(ctx, name)); !res.Succeeded {
		return s.done(out.fail(git.ClassifyResult(res), "failed to create branch"))
	}

	out.Branch = name
	return s.done(out.finish(StatusSuccess, "created and switched to "+name))
}

// SwitchBranch checks out an existing branch. The target must appear in the
// branch list; switching to the current branch is an informational no-op.
func (s *Sequencer) SwitchBranch(ctx context.Context, target string) *Outcome {
	out := newOutcome("switch_branch")

	if err := git.ValidateBranchName(target); err != nil {
		return s.done(out.fail(err, "invalid branch name"))
	}

	release, failed := s.begin(ctx, out, true)
	if failed != nil {
		return s.done(failed)
	}
	defer release()

	list, err := s.branches(ctx, out)
	if err != nil {
		return s.done(out.fail(err, "could not list branches"))
	}
	if list.Current == target {
		out.Branch = target
		return s.done(out.finish(StatusNoOp, "already on "+target))
	}
	if !list.Has(target) {
		return s.done(out.fail(fmt.Errorf("%s: %w", target, gmerrors.ErrBranchNotFound), "branch does not exist"))
	}

	if res := out.record("checkout", s.runner.Checkout(ctx, target)); !res.Succeeded {
		return s.done(out.fail(git.ClassifyResult(res), "failed to switch branch"))
	}

	out.Branch = target
	return s.done(out.finish(StatusSuccess, "switched to "+target))
}
