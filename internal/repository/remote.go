package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mrz1836/gitmate/internal/ctxutil"
	gmerrors "github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/git"
	"github.com/mrz1836/gitmate/internal/logging"
)

// PublishRequest configures the remote and optionally pushes to it.
type PublishRequest struct {
	// URL is the remote repository location.
	URL string `json:"url"`
	// Push performs the first push with upstream tracking after configuring.
	Push bool `json:"push,omitempty"`
}

// Publish points the remote at req.URL, replacing an existing remote of the same
// name (remove then add), and optionally pushes the current branch with
// upstream tracking. The remote stays configured if the push fails.
func (s *Sequencer) Publish(ctx context.Context, req PublishRequest) *Outcome {
	out := newOutcome("publish")

	if err := ctxutil.Canceled(ctx); err != nil {
		return s.done(out.fail(err, "operation canceled"))
	}
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return s.done(out.fail(fmt.Errorf("remote URL: %w", gmerrors.ErrEmptyValue), "remote URL cannot be empty"))
	}

	release, failed := s.begin(ctx, out, true)
	if failed != nil {
		return s.done(failed)
	}
	defer release()

	s.logger.Debug().
		Str("remote", s.remote).
		Str("url", logging.SafeValue("url", url)).
		Bool("push", req.Push).
		Msg("publishing")

	names, res := s.remotes(ctx, out)
	if !res.Succeeded {
		return s.done(out.fail(git.ClassifyResult(res), "could not list remotes"))
	}
	if slices.Contains(names, s.remote) {
		if rm := out.record("remove remote", s.runner.RemoveRemote(ctx, s.remote)); !rm.Succeeded {
			return s.done(out.fail(git.ClassifyResult(rm), "failed to replace existing remote"))
		}
	}
	if add := out.record("add remote", s.runner.AddRemote(ctx, s.remote, url)); !add.Succeeded {
		return s.done(out.fail(git.ClassifyResult(add), "failed to add remote"))
	}

	configured := fmt.Sprintf("remote %s set to %s", s.remote, logging.RedactURL(url))
	if !req.Push {
		return s.done(out.finish(StatusSuccess, configured))
	}

	if err := s.pushUpstream(ctx, out, s.remote); err != nil {
		return s.done(out.fail(err, configured+"; first push failed"))
	}
	return s.done(out.finish(StatusSuccess, configured+"; pushed "+out.Branch))
}

// PushRequest configures a standalone push.
type PushRequest struct {
	// First binds the current branch to the remote branch of the same name.
	First bool `json:"first_push,omitempty"`
}

// Push sends local commits to the configured remote. A repository without a
// remote fails with ErrNoRemote before push is attempted.
func (s *Sequencer) Push(ctx context.Context, req PushRequest) *Outcome {
	out := newOutcome("push")

	release, failed := s.begin(ctx, out, true)
	if failed != nil {
		return s.done(failed)
	}
	defer release()

	names, res := s.remotes(ctx, out)
	if !res.Succeeded {
		return s.done(out.fail(git.ClassifyResult(res), "could not list remotes"))
	}
	if len(names) == 0 {
		return s.done(out.fail(gmerrors.ErrNoRemote, "no remote configured"))
	}

	if req.First {
		if err := s.pushUpstream(ctx, out, s.pickRemote(names)); err != nil {
			return s.done(out.fail(err, "push failed"))
		}
		return s.done(out.finish(StatusSuccess, "pushed "+out.Branch+" with upstream tracking"))
	}

	if push := out.record("push", s.runner.Push(ctx, "", "", false)); !push.Succeeded {
		return s.done(out.fail(git.ClassifyResult(push), "push failed"))
	}
	return s.done(out.finish(StatusSuccess, "pushed"))
}

// pushUpstream pushes the current branch with -u to remote.
func (s *Sequencer) pushUpstream(ctx context.Context, out *Outcome, remote string) error {
	branch, res := s.currentBranch(ctx, out)
	if !res.Succeeded {
		return git.ClassifyResult(res)
	}
	if branch == "" {
		return fmt.Errorf("HEAD is detached: %w", gmerrors.ErrBranchNotFound)
	}
	out.Branch = branch

	if push := out.record("push", s.runner.Push(ctx, remote, branch, true)); !push.Succeeded {
		return git.ClassifyResult(push)
	}
	return nil
}

// Pull fetches and merges from the upstream. The outcome reports whether
// anything new arrived; conflicts fail with ErrMergeConflict.
func (s *Sequencer) Pull(ctx context.Context) *Outcome {
	out := newOutcome("pull")

	release, failed := s.begin(ctx, out, true)
	if failed != nil {
		return s.done(failed)
	}
	defer release()

	names, res := s.remotes(ctx, out)
	if !res.Succeeded {
		return s.done(out.fail(git.ClassifyResult(res), "could not list remotes"))
	}
	if len(names) == 0 {
		return s.done(out.fail(gmerrors.ErrNoRemote, "no remote configured"))
	}

	pull := out.record("pull", s.runner.Pull(ctx))
	if !pull.Succeeded {
		return s.done(out.fail(git.ClassifyResult(pull), "pull failed"))
	}

	if strings.Contains(strings.ToLower(pull.Stdout), "already up to date") {
		out.UpToDate = true
		return s.done(out.finish(StatusSuccess, "already up to date"))
	}
	return s.done(out.finish(StatusSuccess, "changes merged from remote"))
}
