package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrz1836/gitmate/internal/constants"
	"github.com/mrz1836/gitmate/internal/ctxutil"
	gmerrors "github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/git"
)

// StageRequest selects what to stage: everything, or an ordered list of paths.
type StageRequest struct {
	// All stages every change. It is implied when Paths is empty.
	All bool `json:"all,omitempty"`
	// Paths are staged one invocation per path, in order.
	Paths []string `json:"paths,omitempty"`
}

// Stage stages changes. Staging everything is one invocation. Explicit paths are
// staged one invocation per path; every path is attempted, the per-path results
// are all returned, and the operation succeeds only when every path succeeded.
func (s *Sequencer) Stage(ctx context.Context, req StageRequest) *Outcome {
	out := newOutcome("stage")

	stageAll := req.All || len(req.Paths) == 0
	if !stageAll {
		for _, p := range req.Paths {
			if strings.TrimSpace(p) == "" {
				return s.done(out.fail(fmt.Errorf("path to stage: %w", gmerrors.ErrEmptyValue), "paths must not be empty"))
			}
		}
	}

	release, failed := s.begin(ctx, out, true)
	if failed != nil {
		return s.done(failed)
	}
	defer release()

	if stageAll {
		if res := out.record("stage all", s.runner.AddAll(ctx)); !res.Succeeded {
			return s.done(out.fail(git.ClassifyResult(res), "failed to stage changes"))
		}
		return s.done(out.finish(StatusSuccess, "all changes staged"))
	}

	var firstErr error
	failedCount := 0
	for _, p := range req.Paths {
		res := out.record("stage "+p, s.runner.Add(ctx, p))
		pr := PathResult{Path: p, Succeeded: res.Succeeded}
		if !res.Succeeded {
			failedCount++
			pr.Error = res.Message()
			if firstErr == nil {
				firstErr = git.ClassifyResult(res)
			}
		}
		out.Stage = append(out.Stage, pr)
	}

	if failedCount > 0 {
		return s.done(out.fail(firstErr, fmt.Sprintf("%d of %d paths could not be staged", failedCount, len(req.Paths))))
	}
	return s.done(out.finish(StatusSuccess, fmt.Sprintf("%d paths staged", len(req.Paths))))
}

// CommitRequest describes a commit of the staged changes.
type CommitRequest struct {
	// Message is the commit message. A timestamp suffix is always appended.
	Message string `json:"message"`
	// IdentityConfigured, when set, is the caller's knowledge of whether user.name
	// and user.email are configured. When nil the sequencer asks git.
	IdentityConfigured *bool `json:"identity_configured,omitempty"`
}

// FormatCommitMessage appends the audit timestamp: "<message> [YYYY-MM-DD HH:MM]".
func (s *Sequencer) FormatCommitMessage(message string) string {
	return fmt.Sprintf("%s [%s]", strings.TrimSpace(message), s.clock.Now().Format(constants.CommitTimestampLayout))
}

// CommitStaged commits what is staged. Empty messages are rejected before git
// is invoked. The identity and "anything staged" checks are structured queries
// (git config, diff --cached --quiet) run before the commit; matching git's error
// text is only the fallback for failures those checks could not predict.
func (s *Sequencer) CommitStaged(ctx context.Context, req CommitRequest) *Outcome {
	out := newOutcome("commit")

	if err := ctxutil.Canceled(ctx); err != nil {
		return s.done(out.fail(err, "operation canceled"))
	}
	if strings.TrimSpace(req.Message) == "" {
		return s.done(out.fail(fmt.Errorf("commit message: %w", gmerrors.ErrEmptyValue), "commit message cannot be empty"))
	}
	if req.IdentityConfigured != nil && !*req.IdentityConfigured {
		return s.done(out.fail(gmerrors.ErrIdentityNotConfigured, "configure user.name and user.email before committing"))
	}

	release, failed := s.begin(ctx, out, true)
	if failed != nil {
		return s.done(failed)
	}
	defer release()

	if req.IdentityConfigured == nil {
		if err := s.checkIdentity(ctx, out); err != nil {
			return s.done(out.fail(err, "configure user.name and user.email before committing"))
		}
	}

	staged, err := s.hasStagedChanges(ctx, out)
	if err != nil {
		return s.done(out.fail(err, "could not determine staged changes"))
	}
	if !staged {
		return s.done(out.fail(gmerrors.ErrNothingToCommit, "nothing staged to commit"))
	}

	if err := s.commit(ctx, out, s.FormatCommitMessage(req.Message)); err != nil {
		return s.done(out.fail(err, "commit failed"))
	}

	return s.done(out.finish(StatusSuccess, "committed "+out.CommitHash))
}

// checkIdentity verifies user.name and user.email resolve in the effective config.
func (s *Sequencer) checkIdentity(ctx context.Context, out *Outcome) error {
	for _, key := range []string{constants.GitConfigUserName, constants.GitConfigUserEmail} {
		res := out.record("check "+key, s.runner.GetConfig(ctx, key, false))
		switch {
		case res.Succeeded && res.Output() != "":
			continue
		case res.Succeeded, res.Failure == git.FailureExitStatus && res.ExitCode == 1:
			return fmt.Errorf("%s is not set: %w", key, gmerrors.ErrIdentityNotConfigured)
		default:
			return git.ClassifyResult(res)
		}
	}
	return nil
}

// hasStagedChanges runs `diff --cached --quiet`: exit 0 is an empty index,
// exit 1 means something is staged, anything else is an error.
func (s *Sequencer) hasStagedChanges(ctx context.Context, out *Outcome) (bool, error) {
	res := out.record("check staged", s.runner.DiffCachedQuiet(ctx))
	switch {
	case res.Succeeded:
		return false, nil
	case res.Failure == git.FailureExitStatus && res.ExitCode == 1:
		return true, nil
	default:
		return false, git.ClassifyResult(res)
	}
}

// commit runs the commit and reads back the short hash. A failed hash lookup
// is reported as a warning since the commit itself is already recorded.
func (s *Sequencer) commit(ctx context.Context, out *Outcome, message string) error {
	if res := out.record("commit", s.runner.Commit(ctx, message)); !res.Succeeded {
		return git.ClassifyResult(res)
	}

	head := out.record("read commit hash", s.runner.ShortHead(ctx))
	if !head.Succeeded {
		out.Warning = errors.Join(out.Warning, git.ClassifyResult(head))
		return nil
	}
	out.CommitHash = head.Output()
	return nil
}
