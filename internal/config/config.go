// Package config provides configuration management for taskschema with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (TASKSCHEMA_* prefix)
//  3. Project config (.taskschema/config.yaml)
//  4. Global config (~/.taskschema/config.yaml)
//  5. Built-in defaults
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

import "time"

// Config is the root configuration structure for taskschema.
type Config struct {
	// Registry contains settings for reading and downloading the task registry.
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`

	// Output contains settings for the generated schema file.
	Output OutputConfig `yaml:"output" mapstructure:"output"`

	// Watch contains settings for watch mode.
	Watch WatchConfig `yaml:"watch" mapstructure:"watch"`
}

// RegistryConfig contains settings for the task registry.
type RegistryConfig struct {
	// TasksFile is the local task registry export read by generate and watch.
	// Default: "tasks.json"
	TasksFile string `yaml:"tasks_file" mapstructure:"tasks_file"`

	// OrganizationURL is the base URL of the organization whose task registry
	// fetch downloads, e.g. https://dev.azure.com/contoso.
	OrganizationURL string `yaml:"organization_url" mapstructure:"organization_url"`

	// TokenEnvVar names the environment variable holding the access token.
	// The token itself is never stored in config files.
	// Default: "AZURE_DEVOPS_EXT_PAT"
	TokenEnvVar string `yaml:"token_env_var" mapstructure:"token_env_var"`

	// APIVersion is the REST API version sent with registry requests.
	// Default: "6.0"
	APIVersion string `yaml:"api_version" mapstructure:"api_version"`

	// Timeout bounds a single registry request.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// OutputConfig contains settings for the generated schema.
type OutputConfig struct {
	// SchemaFile is where generate writes the schema.
	// Default: "service-schema.json"
	SchemaFile string `yaml:"schema_file" mapstructure:"schema_file"`

	// CheckMetaSchema compiles the generated document against the draft-07
	// meta-schema before writing it.
	// Default: true
	CheckMetaSchema bool `yaml:"check_meta_schema" mapstructure:"check_meta_schema"`
}

// WatchConfig contains settings for watch mode.
type WatchConfig struct {
	// Debounce coalesces bursts of file events into a single regeneration.
	// Default: 500ms
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
}
