package config

import (
	"github.com/mrz1836/gitmate/internal/constants"
	"github.com/mrz1836/gitmate/internal/errors"
)

// Validate checks the configuration for invalid values and returns the
// first failure found.
//
// Validation rules:
//   - git.binary and git.remote must not be empty
//   - all timeouts must be positive
//   - server.addr must not be empty
//   - history.limit must be between 1 and 1000
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateGitConfig(&cfg.Git); err != nil {
		return err
	}
	if err := validateRepositoryConfig(cfg); err != nil {
		return err
	}
	return validateServerConfig(&cfg.Server)
}

func validateGitConfig(cfg *GitConfig) error {
	if cfg.Binary == "" {
		return errors.Wrap(errors.ErrConfigInvalidGit, "git.binary must not be empty")
	}
	if cfg.Remote == "" {
		return errors.Wrap(errors.ErrConfigInvalidGit, "git.remote must not be empty")
	}
	if cfg.CommandTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidGit,
			"git.command_timeout must be positive, got %s", cfg.CommandTimeout)
	}
	if cfg.NetworkTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidGit,
			"git.network_timeout must be positive, got %s", cfg.NetworkTimeout)
	}
	return nil
}

func validateRepositoryConfig(cfg *Config) error {
	if cfg.Repository.LockTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidRepository,
			"repository.lock_timeout must be positive, got %s", cfg.Repository.LockTimeout)
	}
	if cfg.History.Limit < 1 || cfg.History.Limit > constants.MaxHistoryLimit {
		return errors.Wrapf(errors.ErrConfigInvalidRepository,
			"history.limit must be between 1 and %d, got %d", constants.MaxHistoryLimit, cfg.History.Limit)
	}
	return nil
}

func validateServerConfig(cfg *ServerConfig) error {
	if cfg.Addr == "" {
		return errors.Wrap(errors.ErrConfigInvalidServer, "server.addr must not be empty")
	}
	if cfg.ReadTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidServer,
			"server.read_timeout must be positive, got %s", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidServer,
			"server.write_timeout must be positive, got %s", cfg.WriteTimeout)
	}
	return nil
}
