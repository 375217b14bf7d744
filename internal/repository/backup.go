package repository

import (
	"context"
	"errors"

	"github.com/mrz1836/gitmate/internal/constants"
	"github.com/mrz1836/gitmate/internal/git"
)

// BackupMessage returns the generated quick-backup commit message.
func (s *Sequencer) BackupMessage() string {
	return constants.BackupMessagePrefix + s.clock.Now().Format(constants.BackupTimestampLayout)
}

// QuickBackup stages everything, commits with a generated message, and pushes
// when a remote exists.
//
//   - clean tree: no_changes, nothing is staged, committed, or pushed
//   - stage or commit failure: failed, no push is attempted
//   - no remote: success_local_only
//   - push succeeded: success
//   - push failed: success_local_only with the push error as a warning; the
//     commit is kept
func (s *Sequencer) QuickBackup(ctx context.Context) *Outcome {
	out := newOutcome("quick_backup")

	release, failed := s.begin(ctx, out, true)
	if failed != nil {
		return s.done(failed)
	}
	defer release()

	status := out.record("status", s.runner.Status(ctx))
	if !status.Succeeded {
		return s.done(out.fail(git.ClassifyResult(status), "could not read repository status"))
	}
	if len(git.ParseStatus(status.Stdout)) == 0 {
		msg := "no changes to back up"
		if last := out.record("last commit", s.runner.LastCommit(ctx)); last.Succeeded && last.Output() != "" {
			msg += "; last commit: " + last.Output()
		}
		return s.done(out.finish(StatusNoChanges, msg))
	}
	branch, _ := git.ParseBranchHeader(status.Stdout)
	out.Branch = branch.Name

	if res := out.record("stage all", s.runner.AddAll(ctx)); !res.Succeeded {
		return s.done(out.fail(git.ClassifyResult(res), "failed to stage changes"))
	}

	if err := s.commit(ctx, out, s.BackupMessage()); err != nil {
		return s.done(out.fail(err, "backup commit failed"))
	}

	names, res := s.remotes(ctx, out)
	if !res.Succeeded {
		out.Warning = errors.Join(out.Warning, git.ClassifyResult(res))
		return s.done(out.finish(StatusSuccessLocalOnly, "backup committed locally; remotes could not be listed"))
	}
	if len(names) == 0 {
		return s.done(out.finish(StatusSuccessLocalOnly, "backup committed locally; no remote configured"))
	}

	// A branch without upstream is bound on its first push.
	remote := s.pickRemote(names)
	var push *git.CommandResult
	if branch.Upstream == "" && branch.Name != "" {
		push = s.runner.Push(ctx, remote, branch.Name, true)
	} else {
		push = s.runner.Push(ctx, "", "", false)
	}
	out.record("push", push)
	if !push.Succeeded {
		out.Warning = errors.Join(out.Warning, git.ClassifyResult(push))
		return s.done(out.finish(StatusSuccessLocalOnly, "backup committed locally; push failed"))
	}

	return s.done(out.finish(StatusSuccess, "backup committed and pushed"))
}
