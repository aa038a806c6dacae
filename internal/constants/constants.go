// Package constants provides centralized constant values used throughout taskschema.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by taskschema for organizing data.
const (
	// AppHome is the hidden directory name where taskschema stores its data.
	// This directory is created in the user's home directory.
	AppHome = ".taskschema"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// HomeEnvVar overrides the location of AppHome.
	HomeEnvVar = "TASKSCHEMA_HOME"

	// EnvPrefix is the prefix for environment variable configuration.
	EnvPrefix = "TASKSCHEMA"
)

// Default file names for registry input and schema output.
const (
	// DefaultTasksFile is the task registry export read by generate.
	DefaultTasksFile = "tasks.json"

	// DefaultSchemaFile is the schema file written by generate.
	DefaultSchemaFile = "service-schema.json"
)

// Task registry defaults.
const (
	// DefaultTokenEnvVar names the environment variable holding the registry
	// personal access token.
	DefaultTokenEnvVar = "AZURE_DEVOPS_EXT_PAT"

	// DefaultAPIVersion is the registry REST API version requested by fetch.
	DefaultAPIVersion = "6.0"

	// TasksEndpoint is the registry path listing task definitions.
	TasksEndpoint = "/_apis/distributedtask/tasks"

	// DefaultRegistryTimeout bounds a single registry request.
	DefaultRegistryTimeout = 30 * time.Second
)

// Watch mode timing.
const (
	// DefaultWatchDebounce coalesces bursts of file events into one regeneration.
	DefaultWatchDebounce = 500 * time.Millisecond

	// MinWatchDebounce is the smallest accepted debounce.
	MinWatchDebounce = 10 * time.Millisecond

	// MaxWatchDebounce is the largest accepted debounce.
	MaxWatchDebounce = time.Minute
)

// File permissions for files written by taskschema.
const (
	// SchemaFilePerm is used for generated schema and downloaded registry files.
	SchemaFilePerm = 0o644

	// DirPerm is used for directories created by taskschema.
	DirPerm = 0o750
)
