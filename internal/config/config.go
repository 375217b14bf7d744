// Package config provides configuration management for gitmate with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (GITMATE_* prefix)
//  3. Project config (.gitmate.yaml in the repository root)
//  4. Global config (~/.gitmate/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

import "time"

// Config is the root configuration structure for gitmate.
type Config struct {
	// Git controls how the git executable is invoked.
	Git GitConfig `yaml:"git" mapstructure:"git" json:"git"`

	// Repository selects the working copy and its lock behavior.
	Repository RepositoryConfig `yaml:"repository" mapstructure:"repository" json:"repository"`

	// Identity is applied to new repositories; each non-empty field is set on its own.
	Identity IdentityConfig `yaml:"identity" mapstructure:"identity" json:"identity"`

	// Server configures the HTTP API started by `gitmate serve`.
	Server ServerConfig `yaml:"server" mapstructure:"server" json:"server"`

	// History configures `gitmate log`.
	History HistoryConfig `yaml:"history" mapstructure:"history" json:"history"`
}

// GitConfig contains settings for git invocations.
type GitConfig struct {
	// Binary is the executable name or path.
	// Default: "git"
	Binary string `yaml:"binary" mapstructure:"binary" json:"binary"`

	// Remote is the preferred remote name for publish and backup pushes.
	// Default: "origin"
	Remote string `yaml:"remote" mapstructure:"remote" json:"remote"`

	// CommandTimeout bounds every local git command.
	// Default: 30 seconds
	CommandTimeout time.Duration `yaml:"command_timeout" mapstructure:"command_timeout" json:"command_timeout"`

	// NetworkTimeout bounds push and pull.
	// Default: 2 minutes
	NetworkTimeout time.Duration `yaml:"network_timeout" mapstructure:"network_timeout" json:"network_timeout"`
}

// RepositoryConfig contains settings for the managed working copy.
type RepositoryConfig struct {
	// Path is the repository root. Relative paths resolve against the
	// process working directory.
	// Default: "."
	Path string `yaml:"path" mapstructure:"path" json:"path"`

	// LockTimeout is how long an operation waits for the repository lock.
	// Default: 10 seconds
	LockTimeout time.Duration `yaml:"lock_timeout" mapstructure:"lock_timeout" json:"lock_timeout"`
}

// IdentityConfig holds the author identity written by `gitmate init`.
type IdentityConfig struct {
	Name  string `yaml:"name" mapstructure:"name" json:"name"`
	Email string `yaml:"email" mapstructure:"email" json:"email"`
}

// Complete reports whether both name and email are set.
func (c *IdentityConfig) Complete() bool {
	return c.Name != "" && c.Email != ""
}

// ServerConfig contains settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: ":5000"
	Addr string `yaml:"addr" mapstructure:"addr" json:"addr"`

	// ReadTimeout bounds reading a request.
	ReadTimeout time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" json:"read_timeout"`

	// WriteTimeout bounds writing a response. It must outlast
	// git.network_timeout so push and pull responses are delivered.
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" json:"write_timeout"`
}

// HistoryConfig contains settings for history listings.
type HistoryConfig struct {
	// Limit is the default number of commits shown.
	// Default: 10, Valid range: 1-1000
	Limit int `yaml:"limit" mapstructure:"limit" json:"limit"`
}
