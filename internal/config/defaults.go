package config

import (
	"github.com/mrz1836/gitmate/internal/constants"
)

// DefaultConfig returns a new Config with the built-in default values.
// These are the base layer overridden by config files, environment
// variables, and CLI flags.
func DefaultConfig() *Config {
	return &Config{
		Git: GitConfig{
			Binary:         constants.DefaultGitBinary,
			Remote:         constants.DefaultRemote,
			CommandTimeout: constants.DefaultCommandTimeout,
			NetworkTimeout: constants.DefaultNetworkTimeout,
		},
		Repository: RepositoryConfig{
			Path:        ".",
			LockTimeout: constants.DefaultLockTimeout,
		},
		Server: ServerConfig{
			Addr:         constants.DefaultServerAddr,
			ReadTimeout:  constants.DefaultServerReadTimeout,
			WriteTimeout: constants.DefaultServerWriteTimeout,
		},
		History: HistoryConfig{
			Limit: constants.DefaultHistoryLimit,
		},
	}
}
