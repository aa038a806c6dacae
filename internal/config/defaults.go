package config

import "github.com/mrz1836/taskschema/internal/constants"

// DefaultConfig returns a new Config with default values.
// These are the base layer that config files, environment variables,
// and CLI flags override.
func DefaultConfig() *Config {
	return &Config{
		Registry: RegistryConfig{
			TasksFile:   constants.DefaultTasksFile,
			TokenEnvVar: constants.DefaultTokenEnvVar,
			APIVersion:  constants.DefaultAPIVersion,
			Timeout:     constants.DefaultRegistryTimeout,
		},
		Output: OutputConfig{
			SchemaFile:      constants.DefaultSchemaFile,
			CheckMetaSchema: true,
		},
		Watch: WatchConfig{
			Debounce: constants.DefaultWatchDebounce,
		},
	}
}
