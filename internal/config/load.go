package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/gitmate/internal/constants"
	"github.com/mrz1836/gitmate/internal/errors"
)

// EnvPrefix is the prefix of every environment override, e.g. GITMATE_GIT_REMOTE.
const EnvPrefix = "GITMATE"

// newViperInstance creates a Viper instance with the GITMATE_ environment
// prefix, the dotted-key replacer, and all defaults registered.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// repoPath locates the project config (.gitmate.yaml); pass "." for the
// current directory. Missing config files are not an error.
func Load(ctx context.Context, repoPath string) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := mergeConfigFile(v, ProjectConfigPath(repoPath), "failed to read project config file"); err != nil {
		return nil, err
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("git.binary", cfg.Git.Binary).
		Str("git.remote", cfg.Git.Remote).
		Dur("git.command_timeout", cfg.Git.CommandTimeout).
		Dur("git.network_timeout", cfg.Git.NetworkTimeout).
		Dur("repository.lock_timeout", cfg.Repository.LockTimeout).
		Msg("configuration loaded")

	return cfg, nil
}

// loadGlobalConfig reads ~/.gitmate/config.yaml if it exists.
func loadGlobalConfig(v *viper.Viper) error {
	path, err := GlobalConfigPath()
	if err != nil {
		// no home directory, nothing to load
		return nil //nolint:nilerr // missing home is not a config problem
	}
	return mergeConfigFile(v, path, "failed to read global config file")
}

// mergeConfigFile merges path over the values already in v. A missing file is skipped.
func mergeConfigFile(v *viper.Viper, path, msg string) error {
	if path == "" || !fileExists(path) {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, msg)
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, repoPath string, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx, repoPath)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths. Either path
// can be empty to skip that level. The explicit --config flag and tests
// use this entry point.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults registers every key on the Viper instance. Keys must match
// the mapstructure tags so AutomaticEnv can resolve GITMATE_* overrides.
func setDefaults(v *viper.Viper) {
	v.SetDefault("git.binary", constants.DefaultGitBinary)
	v.SetDefault("git.remote", constants.DefaultRemote)
	v.SetDefault("git.command_timeout", constants.DefaultCommandTimeout.String())
	v.SetDefault("git.network_timeout", constants.DefaultNetworkTimeout.String())

	v.SetDefault("repository.path", ".")
	v.SetDefault("repository.lock_timeout", constants.DefaultLockTimeout.String())

	v.SetDefault("identity.name", "")
	v.SetDefault("identity.email", "")

	v.SetDefault("server.addr", constants.DefaultServerAddr)
	v.SetDefault("server.read_timeout", constants.DefaultServerReadTimeout.String())
	v.SetDefault("server.write_timeout", constants.DefaultServerWriteTimeout.String())

	v.SetDefault("history.limit", constants.DefaultHistoryLimit)
}

// applyOverrides merges non-zero override values into the config.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Git.Binary != "" {
		cfg.Git.Binary = overrides.Git.Binary
	}
	if overrides.Git.Remote != "" {
		cfg.Git.Remote = overrides.Git.Remote
	}
	if overrides.Git.CommandTimeout != 0 {
		cfg.Git.CommandTimeout = overrides.Git.CommandTimeout
	}
	if overrides.Git.NetworkTimeout != 0 {
		cfg.Git.NetworkTimeout = overrides.Git.NetworkTimeout
	}

	if overrides.Repository.Path != "" {
		cfg.Repository.Path = overrides.Repository.Path
	}
	if overrides.Repository.LockTimeout != 0 {
		cfg.Repository.LockTimeout = overrides.Repository.LockTimeout
	}

	if overrides.Identity.Name != "" {
		cfg.Identity.Name = overrides.Identity.Name
	}
	if overrides.Identity.Email != "" {
		cfg.Identity.Email = overrides.Identity.Email
	}

	applyServerOverrides(cfg, overrides)

	if overrides.History.Limit != 0 {
		cfg.History.Limit = overrides.History.Limit
	}
}

// applyServerOverrides applies server-related overrides to the config.
func applyServerOverrides(cfg, overrides *Config) {
	if overrides.Server.Addr != "" {
		cfg.Server.Addr = overrides.Server.Addr
	}
	if overrides.Server.ReadTimeout != 0 {
		cfg.Server.ReadTimeout = overrides.Server.ReadTimeout
	}
	if overrides.Server.WriteTimeout != 0 {
		cfg.Server.WriteTimeout = overrides.Server.WriteTimeout
	}
}

// viperDecoderOption configures mapstructure to decode durations from strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}
