package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gitmate/internal/constants"
	"github.com/mrz1836/gitmate/internal/errors"
)

// isolateHome points HOME at an empty directory so no real global config leaks in.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

func writeYAML(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	isolateHome(t)

	cfg, err := Load(context.Background(), t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	home := isolateHome(t)
	repo := t.TempDir()

	writeYAML(t, filepath.Join(home, constants.GitmateHome, constants.GlobalConfigName), `
git:
  remote: upstream
  command_timeout: 45s
history:
  limit: 50
`)
	writeYAML(t, filepath.Join(repo, constants.ProjectConfigName), `
git:
  remote: backup
identity:
  name: Jane Doe
  email: jane@example.com
`)

	cfg, err := Load(context.Background(), repo)
	require.NoError(t, err)

	assert.Equal(t, "backup", cfg.Git.Remote, "project wins over global")
	assert.Equal(t, 45*time.Second, cfg.Git.CommandTimeout, "global value survives the merge")
	assert.Equal(t, 50, cfg.History.Limit)
	assert.True(t, cfg.Identity.Complete())
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	isolateHome(t)
	repo := t.TempDir()
	writeYAML(t, filepath.Join(repo, constants.ProjectConfigName), "git:\n  remote: backup\n")

	t.Setenv("GITMATE_GIT_REMOTE", "mirror")
	t.Setenv("GITMATE_GIT_NETWORK_TIMEOUT", "5m")
	t.Setenv("GITMATE_HISTORY_LIMIT", "25")

	cfg, err := Load(context.Background(), repo)
	require.NoError(t, err)

	assert.Equal(t, "mirror", cfg.Git.Remote)
	assert.Equal(t, 5*time.Minute, cfg.Git.NetworkTimeout)
	assert.Equal(t, 25, cfg.History.Limit)
}

func TestLoad_InvalidProjectConfig(t *testing.T) {
	isolateHome(t)
	repo := t.TempDir()
	writeYAML(t, filepath.Join(repo, constants.ProjectConfigName), "history:\n  limit: 5000\n")

	_, err := Load(context.Background(), repo)
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrConfigInvalidRepository)
}

func TestLoad_MalformedYAML(t *testing.T) {
	isolateHome(t)
	repo := t.TempDir()
	writeYAML(t, filepath.Join(repo, constants.ProjectConfigName), "git: [unterminated\n")

	_, err := Load(context.Background(), repo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read project config file")
}

func TestLoadWithOverrides(t *testing.T) {
	isolateHome(t)

	cfg, err := LoadWithOverrides(context.Background(), t.TempDir(), &Config{
		Git:        GitConfig{Binary: "/usr/local/bin/git"},
		Repository: RepositoryConfig{Path: "/tmp/project"},
		Server:     ServerConfig{Addr: "127.0.0.1:8080"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin/git", cfg.Git.Binary)
	assert.Equal(t, "/tmp/project", cfg.Repository.Path)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, constants.DefaultRemote, cfg.Git.Remote, "zero overrides leave values alone")
}

func TestLoadWithOverrides_NilOverrides(t *testing.T) {
	isolateHome(t)

	cfg, err := LoadWithOverrides(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromPaths(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	global := filepath.Join(dir, "global.yaml")
	project := filepath.Join(dir, "project.yaml")
	writeYAML(t, global, "server:\n  addr: \":6000\"\n  read_timeout: 20s\n")
	writeYAML(t, project, "server:\n  addr: \":7000\"\n")

	cfg, err := LoadFromPaths(context.Background(), project, global)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadFromPaths_MissingFilesUseDefaults(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()

	cfg, err := LoadFromPaths(context.Background(), filepath.Join(dir, "nope.yaml"), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
