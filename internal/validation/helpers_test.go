package validation_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskschema/internal/registry"
	"github.com/mrz1836/taskschema/internal/schema"
	"github.com/mrz1836/taskschema/internal/validation"
)

func testContext() context.Context {
	logger := zerolog.Nop()
	return logger.WithContext(context.Background())
}

func testSchema(t *testing.T) []byte {
	t.Helper()

	out, err := schema.BuildSchema([]*registry.TaskDefinition{
		{
			Name:         "Bash",
			FriendlyName: "Bash",
			Version:      registry.Version{Major: 3},
			Inputs: []*registry.InputDefinition{
				{Name: "targetType", Label: "Type", Type: "radio", Options: registry.NewOptionSet(
					registry.Option{Key: "filePath", Label: "File Path"},
					registry.Option{Key: "inline", Label: "Inline"},
				)},
				{Name: "script", Label: "Script", Type: "multiLine"},
			},
		},
		{
			Name:         "NuGetCommand",
			FriendlyName: "NuGet",
			Version:      registry.Version{Major: 2},
			Inputs: []*registry.InputDefinition{
				{Name: "restoreSolution", Label: "Path to solution", Type: "filePath"},
			},
		},
	})
	require.NoError(t, err)
	return out
}

func testValidator(t *testing.T) *validation.Validator {
	t.Helper()

	v, err := validation.NewValidator(testSchema(t))
	require.NoError(t, err)
	return v
}

const validPipeline = `
trigger:
  - main
pool:
  vmImage: ubuntu-latest
steps:
  - task: Bash@3
    inputs:
      targetType: inline
      script: echo hello
  - task: NuGetCommand@2
    displayName: Restore
    inputs:
      restoreSolution: '**/*.sln'
  - script: echo done
`

const unknownTaskPipeline = `
steps:
  - task: Missing@1
`

const brokenYAML = "steps:\n  - task: [unclosed\n"
