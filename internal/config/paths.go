package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/gitmate/internal/constants"
	"github.com/mrz1836/gitmate/internal/errors"
)

// GlobalConfigDir returns the path to the global gitmate directory,
// typically ~/.gitmate.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.GitmateHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the project configuration file for the
// repository rooted at repoPath.
func ProjectConfigPath(repoPath string) string {
	return filepath.Join(repoPath, constants.ProjectConfigName)
}

// LogDir returns the directory holding the rotating CLI log.
func LogDir() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LogsDir), nil
}
