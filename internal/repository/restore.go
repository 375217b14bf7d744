package repository

import (
	"context"
	"fmt"
	"strings"

	gmerrors "github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/git"
)

// RestoreFile discards unstaged modifications to path. Only files whose status
// is modified_unstaged qualify; anything else fails with ErrFileNotModified
// before git checkout is invoked.
func (s *Sequencer) RestoreFile(ctx context.Context, path string) *Outcome {
	out := newOutcome("restore_file")

	if strings.TrimSpace(path) == "" {
		return s.done(out.fail(fmt.Errorf("path to restore: %w", gmerrors.ErrEmptyValue), "path cannot be empty"))
	}

	release, failed := s.begin(ctx, out, true)
	if failed != nil {
		return s.done(failed)
	}
	defer release()

	status := out.record("status", s.runner.Status(ctx))
	if !status.Succeeded {
		return s.done(out.fail(git.ClassifyResult(status), "could not read repository status"))
	}

	modified := false
	for _, c := range git.ParseStatus(status.Stdout) {
		if c.Path == path && c.Kind == git.ChangeModifiedUnstaged {
			modified = true
			break
		}
	}
	if !modified {
		return s.done(out.fail(fmt.Errorf("%s: %w", path, gmerrors.ErrFileNotModified), "file has no unstaged modifications"))
	}

	if res := out.record("restore", s.runner.RestoreFile(ctx, path)); !res.Succeeded {
		return s.done(out.fail(git.ClassifyResult(res), "failed to restore "+path))
	}
	return s.done(out.finish(StatusSuccess, "restored "+path))
}

// RestoreAll discards every uncommitted change with `reset --hard HEAD`.
// Untracked files are left in place.
func (s *Sequencer) RestoreAll(ctx context.Context) *Outcome {
	out := newOutcome("restore_all")

	release, failed := s.begin(ctx, out, true)
	if failed != nil {
		return s.done(failed)
	}
	defer release()

	if res := out.record("reset", s.runner.ResetHard(ctx)); !res.Succeeded {
		return s.done(out.fail(git.ClassifyResult(res), "failed to reset working tree"))
	}
	return s.done(out.finish(StatusSuccess, "working tree reset to HEAD"))
}
