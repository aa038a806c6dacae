package config

import (
	"net/url"

	"github.com/mrz1836/taskschema/internal/constants"
	"github.com/mrz1836/taskschema/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - registry.tasks_file and registry.token_env_var must not be empty
//   - registry.organization_url, when set, must be an absolute http(s) URL
//   - registry.timeout must be positive
//   - output.schema_file must not be empty
//   - watch.debounce must be between 10ms and 1m
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateRegistryConfig(&cfg.Registry); err != nil {
		return err
	}

	if cfg.Output.SchemaFile == "" {
		return errors.Wrap(errors.ErrConfigInvalidOutput, "output.schema_file must not be empty")
	}

	if cfg.Watch.Debounce < constants.MinWatchDebounce || cfg.Watch.Debounce > constants.MaxWatchDebounce {
		return errors.Wrapf(errors.ErrConfigInvalidWatch,
			"watch.debounce must be between %s and %s, got %s",
			constants.MinWatchDebounce, constants.MaxWatchDebounce, cfg.Watch.Debounce)
	}

	return nil
}

func validateRegistryConfig(cfg *RegistryConfig) error {
	if cfg.TasksFile == "" {
		return errors.Wrap(errors.ErrConfigInvalidRegistry, "registry.tasks_file must not be empty")
	}

	if cfg.TokenEnvVar == "" {
		return errors.Wrap(errors.ErrConfigInvalidRegistry, "registry.token_env_var must not be empty")
	}

	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidRegistry,
			"registry.timeout must be positive, got %s", cfg.Timeout)
	}

	if cfg.OrganizationURL != "" {
		u, err := url.Parse(cfg.OrganizationURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.Wrapf(errors.ErrConfigInvalidRegistry,
				"registry.organization_url must be an absolute http(s) URL, got %q", cfg.OrganizationURL)
		}
	}

	return nil
}
