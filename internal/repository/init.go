package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/mrz1836/gitmate/internal/constants"
	"github.com/mrz1836/gitmate/internal/git"
)

// ignoreFilePerm is the permission for the generated ignore file.
const ignoreFilePerm = 0o644

// InitRequest holds the optional identity applied after init.
type InitRequest struct {
	// Name sets repository-local user.name when non-empty.
	Name string `json:"name,omitempty"`
	// Email sets repository-local user.email when non-empty.
	Email string `json:"email,omitempty"`
}

// Initialize creates a repository in the working directory, applies the optional
// identity, and writes the fixed ignore file. An existing repository is reported
// as already initialized and init is not run again.
func (s *Sequencer) Initialize(ctx context.Context, req InitRequest) *Outcome {
	out := newOutcome("initialize")

	release, failed := s.begin(ctx, out, false)
	if failed != nil {
		return s.done(failed)
	}
	defer release()

	ok, err := s.IsInitialized()
	if err != nil {
		return s.done(out.fail(err, "could not inspect repository"))
	}
	if ok {
		return s.done(out.finish(StatusAlreadyInitialized, "repository already initialized"))
	}

	if res := out.record("init", s.runner.Init(ctx)); !res.Succeeded {
		return s.done(out.fail(git.ClassifyResult(res), "git init failed"))
	}

	identity := []struct{ key, value string }{
		{constants.GitConfigUserName, strings.TrimSpace(req.Name)},
		{constants.GitConfigUserEmail, strings.TrimSpace(req.Email)},
	}
	for _, id := range identity {
		if id.value == "" {
			continue
		}
		if res := out.record("set "+id.key, s.runner.SetConfig(ctx, id.key, id.value)); !res.Succeeded {
			return s.done(out.fail(git.ClassifyResult(res), "failed to set "+id.key))
		}
	}

	if err := s.WriteIgnoreFile(); err != nil {
		return s.done(out.fail(err, "repository created but the ignore file could not be written"))
	}

	return s.done(out.finish(StatusSuccess, "repository initialized"))
}

// WriteIgnoreFile writes the fixed ignore rules to the repository root,
// replacing any existing file.
func (s *Sequencer) WriteIgnoreFile() error {
	path := filepath.Join(s.Root(), constants.IgnoreFileName)
	if err := afero.WriteFile(s.fs, path, []byte(constants.DefaultIgnoreRules), ignoreFilePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", constants.IgnoreFileName, err)
	}
	return nil
}

// done logs and returns the outcome.
func (s *Sequencer) done(out *Outcome) *Outcome {
	s.logOutcome(out)
	return out
}
