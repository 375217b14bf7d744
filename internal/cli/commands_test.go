package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/testutil"
)

const dirtyStatus = "## main...origin/main [ahead 1]\n M index.html\n?? notes.txt\n"

// fakeTools answers tool detection without running git.
type fakeTools struct {
	missing bool
	outputs map[string]string
}

func (f *fakeTools) LookPath(file string) (string, error) {
	if f.missing {
		return "", os.ErrNotExist
	}
	return "/usr/bin/" + file, nil
}

func (f *fakeTools) Run(_ context.Context, _ string, args ...string) (string, error) {
	out, ok := f.outputs[strings.Join(args, " ")]
	if !ok {
		return "", os.ErrNotExist
	}
	return out, nil
}

func TestStatusCommand(t *testing.T) {
	f := newCLIFixture(t, true)
	f.exec.On("status --porcelain --branch", testutil.OK(dirtyStatus))

	require.NoError(t, f.run(t, "status"))
	output := f.stdout.String()
	assert.Contains(t, output, "On branch main")
	assert.Contains(t, output, "index.html")
	assert.Contains(t, output, "modified_unstaged")
	assert.Contains(t, output, "notes.txt")

	payload, err := f.runJSON(t, "status")
	require.NoError(t, err)
	assert.Equal(t, true, payload["initialized"])
	assert.Equal(t, "main", payload["current_branch"])
	assert.Equal(t, "origin/main", payload["upstream"])
	assert.Len(t, payload["changes"], 2)
}

func TestStatusCommand_Uninitialized(t *testing.T) {
	f := newCLIFixture(t, false)

	payload, err := f.runJSON(t, "status")
	require.NoError(t, err)
	assert.Equal(t, false, payload["initialized"])
	assert.Empty(t, payload["changes"])
	assert.Zero(t, f.exec.Count("status"))
}

func TestInitCommand(t *testing.T) {
	f := newCLIFixture(t, false)

	payload, err := f.runJSON(t, "init", "--name", "Ada Lovelace", "--email", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "success", payload["status"])
	assert.Equal(t, 1, f.exec.Count("init"))
	assert.Equal(t, 1, f.exec.Count("config user.name Ada Lovelace"))
	assert.Equal(t, 1, f.exec.Count("config user.email ada@example.com"))

	exists, err := afero.Exists(f.fs, filepath.Join(testRoot, ".gitignore"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInitCommand_AlreadyInitialized(t *testing.T) {
	f := newCLIFixture(t, true)

	require.NoError(t, f.run(t, "init"))
	assert.Contains(t, f.stdout.String(), "already initialized")
	assert.Zero(t, f.exec.MutatingCount())
}

func TestAddCommand(t *testing.T) {
	t.Run("all changes", func(t *testing.T) {
		f := newCLIFixture(t, true)

		require.NoError(t, f.run(t, "-v", "add"))
		assert.Equal(t, 1, f.exec.Count("add -A"))
		assert.Contains(t, f.stdout.String(), "all changes staged")
		assert.Contains(t, f.stdout.String(), "$ git add -A")
	})

	t.Run("one path fails", func(t *testing.T) {
		f := newCLIFixture(t, true)
		f.exec.On("add -- missing.txt", testutil.Fail(128, "fatal: pathspec 'missing.txt' did not match any files"))

		payload, err := f.runJSON(t, "add", "index.html", "missing.txt")
		require.ErrorIs(t, err, errors.ErrJSONErrorOutput)
		assert.Equal(t, false, payload["success"])
		assert.Len(t, payload["stage"], 2)
		assert.Equal(t, 1, f.exec.Count("add -- index.html"))
		assert.Equal(t, 1, f.exec.Count("add -- missing.txt"))
	})

	t.Run("not a repository", func(t *testing.T) {
		f := newCLIFixture(t, false)

		err := f.run(t, "add")
		require.ErrorIs(t, err, errors.ErrNotGitRepo)
		assert.Equal(t, ExitError, ExitCodeForError(err))
		assert.Contains(t, f.stdout.String(), "not a git repository")
		assert.Zero(t, f.exec.MutatingCount())
	})
}

func TestCommitCommand(t *testing.T) {
	t.Run("commits staged changes", func(t *testing.T) {
		f := newCLIFixture(t, true)
		f.exec.
			On("config --get user.name", testutil.OK("Ada\n")).
			On("config --get user.email", testutil.OK("ada@example.com\n")).
			On("diff --cached --quiet", testutil.Fail(1, "")).
			On("rev-parse --short HEAD", testutil.OK("abc1234\n"))

		payload, err := f.runJSON(t, "commit", "-m", "Fix header")
		require.NoError(t, err)
		assert.Equal(t, true, payload["success"])
		assert.Equal(t, "abc1234", payload["commit_hash"])

		var message string
		for _, c := range f.exec.Calls() {
			if len(c.Tokens) == 4 && c.Tokens[1] == "commit" {
				message = c.Tokens[3]
			}
		}
		assert.True(t, strings.HasPrefix(message, "Fix header ["), message)
	})

	t.Run("empty message is invalid input", func(t *testing.T) {
		f := newCLIFixture(t, true)

		err := f.run(t, "commit", "-m", "   ")
		require.ErrorIs(t, err, errors.ErrEmptyValue)
		assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
		assert.Zero(t, f.exec.MutatingCount())
	})

	t.Run("nothing staged", func(t *testing.T) {
		f := newCLIFixture(t, true)
		f.exec.
			On("config --get user.name", testutil.OK("Ada\n")).
			On("config --get user.email", testutil.OK("ada@example.com\n"))

		err := f.run(t, "commit", "-m", "Fix header")
		require.ErrorIs(t, err, errors.ErrNothingToCommit)
		require.ErrorIs(t, err, errors.ErrOutputReported)
		assert.Zero(t, f.exec.Count("commit"))
	})

	t.Run("missing message flag", func(t *testing.T) {
		f := newCLIFixture(t, true)

		err := f.run(t, "commit")
		require.Error(t, err)
		assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
	})
}

func TestBackupCommand_LocalOnly(t *testing.T) {
	f := newCLIFixture(t, true)
	f.exec.
		On("status --porcelain --branch", testutil.OK(dirtyStatus)).
		On("rev-parse --short HEAD", testutil.OK("abc1234\n"))

	payload, err := f.runJSON(t, "backup")
	require.NoError(t, err)
	assert.Equal(t, "success_local_only", payload["status"])
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, 1, f.exec.Count("add -A"))
	assert.Equal(t, 1, f.exec.Count("commit"))
	assert.Zero(t, f.exec.Count("push"))
}

func TestBackupCommand_NoChanges(t *testing.T) {
	f := newCLIFixture(t, true)
	f.exec.
		On("status --porcelain --branch", testutil.OK("## main\n")).
		On("log -1 --oneline", testutil.OK("abc1234 Fix header\n"))

	require.NoError(t, f.run(t, "backup"))
	assert.Contains(t, f.stdout.String(), "no changes to back up")
	assert.Contains(t, f.stdout.String(), "abc1234 Fix header")
	assert.Zero(t, f.exec.MutatingCount())
}

func TestLogCommand(t *testing.T) {
	t.Run("default limit", func(t *testing.T) {
		f := newCLIFixture(t, true)
		f.exec.On("log --graph", testutil.OK("* abc1234 Fix header\n* 0f1e2d3 Initial commit\n"))

		payload, err := f.runJSON(t, "log")
		require.NoError(t, err)
		assert.Len(t, payload["commits"], 2)
		assert.InDelta(t, 10, payload["limit"], 0)
		assert.Equal(t, 1, f.exec.Count("log --graph --oneline --decorate -10"))
	})

	t.Run("limit out of range", func(t *testing.T) {
		f := newCLIFixture(t, true)

		err := f.run(t, "log", "--limit", "5000")
		require.ErrorIs(t, err, errors.ErrInvalidArgument)
		assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
		assert.Zero(t, f.exec.Count("log"))
	})

	t.Run("limit from config file", func(t *testing.T) {
		f := newCLIFixture(t, true)
		cfgPath := filepath.Join(t.TempDir(), "gitmate.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("history:\n  limit: 3\n"), 0o600))

		payload, err := f.runJSON(t, "--config", cfgPath, "log", "--detailed")
		require.NoError(t, err)
		assert.InDelta(t, 3, payload["limit"], 0)
		assert.Equal(t, true, payload["detailed"])
	})
}

func TestBranchListCommand(t *testing.T) {
	f := newCLIFixture(t, true)
	f.exec.On("branch --list", testutil.OK("* main\n  feature/login\n"))

	payload, err := f.runJSON(t, "branch", "list")
	require.NoError(t, err)
	assert.Equal(t, "main", payload["current"])
	assert.Len(t, payload["branches"], 2)

	require.NoError(t, f.run(t, "branch", "ls"))
	assert.Contains(t, f.stdout.String(), "* main")
	assert.Contains(t, f.stdout.String(), "  feature/login")
}

func TestBranchCreateCommand_InvalidName(t *testing.T) {
	f := newCLIFixture(t, true)

	err := f.run(t, "branch", "create", "bad..name")
	require.Error(t, err)
	assert.Zero(t, f.exec.Count("checkout"))
}

func TestPushCommand_NoRemote(t *testing.T) {
	f := newCLIFixture(t, true)

	err := f.run(t, "push")
	require.ErrorIs(t, err, errors.ErrNoRemote)
	assert.Equal(t, ExitError, ExitCodeForError(err))
	assert.Zero(t, f.exec.Count("push"))
}

func TestRemoteSetCommand(t *testing.T) {
	f := newCLIFixture(t, true)
	f.exec.On("remote", testutil.OK("origin\n"))

	payload, err := f.runJSON(t, "remote", "set", "https://github.com/ada/site.git")
	require.NoError(t, err)
	assert.Equal(t, "success", payload["status"])
	assert.Equal(t, 1, f.exec.Count("remote remove origin"))
	assert.Equal(t, 1, f.exec.Count("remote add origin https://github.com/ada/site.git"))
	assert.Zero(t, f.exec.Count("push"))
}

func TestRestoreCommand(t *testing.T) {
	t.Run("all requires confirmation without a terminal", func(t *testing.T) {
		f := newCLIFixture(t, true)

		err := f.run(t, "restore", "all")
		require.ErrorIs(t, err, errors.ErrNonInteractiveMode)
		assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
		assert.Zero(t, f.exec.Count("reset"))
	})

	t.Run("all with --yes", func(t *testing.T) {
		f := newCLIFixture(t, true)

		payload, err := f.runJSON(t, "restore", "all", "--yes")
		require.NoError(t, err)
		assert.Equal(t, "restore_all", payload["operation"])
		assert.Equal(t, 1, f.exec.Count("reset --hard HEAD"))
	})

	t.Run("file that is not modified", func(t *testing.T) {
		f := newCLIFixture(t, true)
		f.exec.On("status --porcelain --branch", testutil.OK("## main\n?? notes.txt\n"))

		err := f.run(t, "restore", "file", "notes.txt", "-y")
		require.ErrorIs(t, err, errors.ErrFileNotModified)
		assert.Zero(t, f.exec.Count("checkout"))
	})

	t.Run("diff", func(t *testing.T) {
		f := newCLIFixture(t, true)
		f.exec.On("diff -- index.html", testutil.OK("-<h1>Old</h1>\n+<h1>New</h1>\n"))

		require.NoError(t, f.run(t, "restore", "diff", "index.html"))
		assert.Contains(t, f.stdout.String(), "Changes in index.html")
		assert.Contains(t, f.stdout.String(), "+<h1>New</h1>")
	})

	t.Run("diff of unchanged file", func(t *testing.T) {
		f := newCLIFixture(t, true)

		require.NoError(t, f.run(t, "restore", "diff", "index.html"))
		assert.Contains(t, f.stdout.String(), "index.html has no unstaged changes")
	})
}

func TestConfigShowCommand(t *testing.T) {
	f := newCLIFixture(t, false)

	require.NoError(t, f.run(t, "config", "show"))
	var view map[string]map[string]any
	require.NoError(t, yaml.Unmarshal(f.stdout.Bytes(), &view))
	assert.Equal(t, "origin", view["git"]["remote"])
	assert.Equal(t, testRoot, view["repository"]["path"])
	assert.Equal(t, 10, view["history"]["limit"])

	payload, err := f.runJSON(t, "config", "show")
	require.NoError(t, err)
	git, ok := payload["git"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "git", git["binary"])
}

func TestDoctorCommand(t *testing.T) {
	t.Run("git missing", func(t *testing.T) {
		f := newCLIFixture(t, false)
		f.tools = &fakeTools{missing: true}

		err := f.run(t, "doctor")
		require.ErrorIs(t, err, errors.ErrGitNotFound)
		assert.Equal(t, ExitError, ExitCodeForError(err))
		assert.Contains(t, f.stdout.String(), "sudo apt install git")

		payload, err := f.runJSON(t, "doctor")
		require.ErrorIs(t, err, errors.ErrJSONErrorOutput)
		assert.Equal(t, "missing", payload["status"])
	})

	t.Run("git ready", func(t *testing.T) {
		f := newCLIFixture(t, false)
		f.tools = &fakeTools{outputs: map[string]string{
			"--version":                        "git version 2.43.0\n",
			"config --global --get user.name":  "Ada\n",
			"config --global --get user.email": "ada@example.com\n",
		}}

		require.NoError(t, f.run(t, "doctor"))
		assert.Contains(t, f.stdout.String(), "2.43.0")
		assert.Contains(t, f.stdout.String(), "git is ready")
	})
}

func TestGuideCommand(t *testing.T) {
	f := newCLIFixture(t, false)
	t.Setenv("NO_COLOR", "1")

	require.NoError(t, f.run(t, "guide"))
	assert.Equal(t, guideMarkdown, f.stdout.String())

	payload, err := f.runJSON(t, "guide")
	require.NoError(t, err)
	assert.Equal(t, guideMarkdown, payload["guide"])
}

func TestMenuCommand_NonInteractive(t *testing.T) {
	f := newCLIFixture(t, true)

	err := f.run(t, "menu")
	require.ErrorIs(t, err, errors.ErrNonInteractiveMode)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestMenuOptions(t *testing.T) {
	t.Parallel()

	values := func(initialized bool) []string {
		var out []string
		for _, o := range menuOptions(initialized) {
			out = append(out, o.Value)
		}
		return out
	}

	assert.Equal(t, []string{menuInit, menuDoctor, menuGuide, menuQuit}, values(false))
	full := values(true)
	assert.Contains(t, full, menuBackup)
	assert.Contains(t, full, menuRestore)
	assert.NotContains(t, full, menuInit)
	assert.Equal(t, menuQuit, full[len(full)-1])
}
