package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/taskschema/internal/constants"
	"github.com/mrz1836/taskschema/internal/errors"
)

// newViperInstance creates a Viper instance with the TASKSCHEMA_ env prefix,
// key replacer, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
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

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
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

// Load reads configuration from all available sources with proper precedence:
//  1. Environment variables (TASKSCHEMA_* prefix)
//  2. Project config (.taskschema/config.yaml)
//  3. Global config (~/.taskschema/config.yaml)
//  4. Built-in defaults
//
// Missing config files are not an error.
func Load(ctx context.Context) (*Config, error) {
	globalPath, err := GlobalConfigPath()
	if err != nil {
		globalPath = ""
	}
	return LoadFromPaths(ctx, ProjectConfigPath(), globalPath)
}

// LoadFromPaths loads configuration from specific file paths.
// projectConfigPath has higher priority than globalConfigPath.
// Either path can be empty to skip that level.
func LoadFromPaths(ctx context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" && fileExists(globalConfigPath) {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" && fileExists(projectConfigPath) {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("registry.tasks_file", cfg.Registry.TasksFile).
		Str("output.schema_file", cfg.Output.SchemaFile).
		Dur("watch.debounce", cfg.Watch.Debounce).
		Msg("configuration loaded")

	return cfg, nil
}

// LoadFile loads configuration from an explicit file, such as the --config flag.
// Unlike Load, a missing file is an error.
func LoadFile(ctx context.Context, path string) (*Config, error) {
	if !fileExists(path) {
		return nil, errors.Wrapf(os.ErrNotExist, "config file %s", path)
	}
	return LoadFromPaths(ctx, path, "")
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, configFile string, overrides *Config) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if configFile != "" {
		cfg, err = LoadFile(ctx, configFile)
	} else {
		cfg, err = Load(ctx)
	}
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

// setDefaults configures all default values on the Viper instance.
// Keys must match the mapstructure tag names exactly.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()

	v.SetDefault("registry.tasks_file", defaults.Registry.TasksFile)
	v.SetDefault("registry.organization_url", defaults.Registry.OrganizationURL)
	v.SetDefault("registry.token_env_var", defaults.Registry.TokenEnvVar)
	v.SetDefault("registry.api_version", defaults.Registry.APIVersion)
	v.SetDefault("registry.timeout", defaults.Registry.Timeout.String())

	v.SetDefault("output.schema_file", defaults.Output.SchemaFile)
	v.SetDefault("output.check_meta_schema", defaults.Output.CheckMetaSchema)

	v.SetDefault("watch.debounce", defaults.Watch.Debounce.String())
}

// applyOverrides merges non-zero override values into the config.
// Boolean fields cannot be overridden to false here; callers handle
// those with cmd.Flags().Changed.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Registry.TasksFile != "" {
		cfg.Registry.TasksFile = overrides.Registry.TasksFile
	}
	if overrides.Registry.OrganizationURL != "" {
		cfg.Registry.OrganizationURL = overrides.Registry.OrganizationURL
	}
	if overrides.Registry.TokenEnvVar != "" {
		cfg.Registry.TokenEnvVar = overrides.Registry.TokenEnvVar
	}
	if overrides.Registry.Timeout > 0 {
		cfg.Registry.Timeout = overrides.Registry.Timeout
	}
	if overrides.Output.SchemaFile != "" {
		cfg.Output.SchemaFile = overrides.Output.SchemaFile
	}
	if overrides.Watch.Debounce > 0 {
		cfg.Watch.Debounce = overrides.Watch.Debounce
	}
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}
