package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gitmate/internal/config"
	"github.com/mrz1836/gitmate/internal/repository"
	"github.com/mrz1836/gitmate/internal/testutil"
)

const testRoot = "/work/site"

// cliFixture runs the root command against a scripted git and an in-memory
// filesystem. HOME and GITMATE_HOME point at a temp dir so no real config or
// log file is touched.
type cliFixture struct {
	exec   *testutil.ScriptedExecutor
	fs     afero.Fs
	tools  config.CommandExecutor
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newCLIFixture(t *testing.T, initialized bool) *cliFixture {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv(HomeEnvVar, home)

	fs := afero.NewMemMapFs()
	if initialized {
		require.NoError(t, fs.MkdirAll(filepath.Join(testRoot, ".git"), 0o755))
	}

	return &cliFixture{
		exec:   testutil.NewScriptedExecutor(),
		fs:     fs,
		stdout: new(bytes.Buffer),
		stderr: new(bytes.Buffer),
	}
}

func (f *cliFixture) newRoot() *cobra.Command {
	a := &app{
		flags:       &GlobalFlags{},
		executor:    f.exec,
		fs:          f.fs,
		lockOptions: []repository.LockOption{repository.WithoutFileLock()},
		tools:       f.tools,
		initLogger: func(verbose, quiet bool) zerolog.Logger {
			return InitLoggerWithWriter(verbose, quiet, io.Discard)
		},
	}
	return newRootCmdWithApp(a, BuildInfo{Version: "test"})
}

// run executes gitmate with --repo testRoot prepended to args.
func (f *cliFixture) run(t *testing.T, args ...string) error {
	t.Helper()

	f.stdout.Reset()
	f.stderr.Reset()

	cmd := f.newRoot()
	cmd.SetOut(f.stdout)
	cmd.SetErr(f.stderr)
	cmd.SetArgs(append([]string{"--repo", testRoot}, args...))
	return cmd.ExecuteContext(context.Background())
}

// runJSON runs with -o json and decodes stdout into a map.
func (f *cliFixture) runJSON(t *testing.T, args ...string) (map[string]any, error) {
	t.Helper()

	err := f.run(t, append([]string{"-o", "json"}, args...)...)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(f.stdout.Bytes(), &payload), f.stdout.String())
	return payload, err
}
