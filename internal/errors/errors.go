// Package errors provides centralized error handling for taskschema.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for error categorization.
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrUnknownInputType indicates a task input declared a type tag that has
	// no schema mapping. Generation of the whole document is aborted.
	ErrUnknownInputType = errors.New("unknown input type")

	// ErrTemplateSlotMissing indicates a named placeholder was not found in the
	// embedded schema template.
	ErrTemplateSlotMissing = errors.New("template slot missing")

	// ErrTemplateSlotDuplicate indicates a named placeholder occurs more than once
	// in the embedded schema template.
	ErrTemplateSlotDuplicate = errors.New("template slot duplicated")

	// ErrTemplateInvalid indicates the schema template is not valid JSON.
	ErrTemplateInvalid = errors.New("invalid schema template")

	// ErrSchemaInvalid indicates the generated document is not a well-formed
	// draft-07 JSON schema.
	ErrSchemaInvalid = errors.New("generated schema is invalid")

	// ErrNoTasksFound indicates the task registry contained no tasks.
	ErrNoTasksFound = errors.New("no tasks found")

	// ErrRegistryDecode indicates the task registry document could not be decoded.
	ErrRegistryDecode = errors.New("failed to decode task registry")

	// ErrRegistryFetch indicates the task registry could not be downloaded.
	ErrRegistryFetch = errors.New("failed to fetch task registry")

	// ErrRegistryAuth indicates the registry rejected the supplied credentials.
	ErrRegistryAuth = errors.New("task registry authentication failed")

	// ErrPipelineInvalid indicates a pipeline file does not match the schema.
	ErrPipelineInvalid = errors.New("pipeline file does not match schema")

	// ErrPipelineParse indicates a pipeline file is not valid YAML.
	ErrPipelineParse = errors.New("pipeline file parse error")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidRegistry indicates an invalid registry configuration value.
	ErrConfigInvalidRegistry = errors.New("invalid registry configuration")

	// ErrConfigInvalidOutput indicates an invalid output configuration value.
	ErrConfigInvalidOutput = errors.New("invalid output configuration")

	// ErrConfigInvalidWatch indicates an invalid watch configuration value.
	ErrConfigInvalidWatch = errors.New("invalid watch configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrMissingToken indicates the registry access token environment variable is unset.
	ErrMissingToken = errors.New("registry access token not set")

	// ErrJSONErrorOutput indicates that an error has already been output as JSON.
	// This ensures a non-zero exit code while preventing duplicate error messages.
	ErrJSONErrorOutput = errors.New("error output as JSON")
)

// UnknownInputTypeError carries the offending type tag of an unmappable input.
// It matches ErrUnknownInputType with errors.Is.
type UnknownInputTypeError struct {
	Tag string
}

// Error implements the error interface.
func (e *UnknownInputTypeError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownInputType.Error(), e.Tag)
}

// Is reports whether target is ErrUnknownInputType.
func (e *UnknownInputTypeError) Is(target error) bool {
	return target == ErrUnknownInputType
}

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
