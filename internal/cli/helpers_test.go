package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskschema/internal/config"
)

// registryJSON is a small task registry export with two tasks, listed out of
// enum order on purpose.
const registryJSON = `{
  "count": 2,
  "value": [
    {
      "id": "6c731c3c-3c68-459a-a5c9-bde6e6595b5b",
      "name": "Bash",
      "friendlyName": "Bash",
      "description": "Run a Bash script on macOS, Linux, or Windows",
      "version": {"major": 3, "minor": 201, "patch": 1},
      "inputs": [
        {"name": "targetType", "label": "Type", "type": "radio",
         "options": {"filePath": "File Path", "inline": "Inline"}},
        {"name": "script", "label": "Script", "type": "multiLine"},
        {"name": "failOnStderr", "label": "Fail on Standard Error", "type": "boolean"}
      ]
    },
    {
      "id": "5541a522-603c-47ad-91fc-a4b1d163081b",
      "name": "AzureCLI",
      "friendlyName": "Azure CLI",
      "description": "Run Azure CLI commands",
      "version": {"major": 2, "minor": 0, "patch": 7},
      "inputs": [
        {"name": "azureSubscription", "label": "Azure Resource Manager connection",
         "type": "connectedService:AzureRM"}
      ]
    }
  ]
}`

// emptyRegistryJSON has no "value" array at all.
const emptyRegistryJSON = `{"count": 0}`

// badRegistryJSON declares an input type the generator does not know.
const badRegistryJSON = `{
  "value": [
    {"name": "Odd", "version": {"major": 1},
     "inputs": [{"name": "x", "label": "X", "type": "hologram"}]}
  ]
}`

const validPipelineYAML = `
steps:
  - task: Bash@3
    inputs:
      targetType: inline
      script: echo hello
  - task: AzureCLI@2
    inputs:
      azureSubscription: prod
`

const unknownTaskPipelineYAML = `
steps:
  - task: Missing@1
`

// testContext returns a context carrying a discarding logger, the way
// PersistentPreRunE attaches the CLI logger.
func testContext() context.Context {
	logger := zerolog.Nop()
	return logger.WithContext(context.Background())
}

// testConfig returns the default configuration with fast watch settings.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Watch.Debounce = 20 * time.Millisecond
	return cfg
}

// memFs returns an in-memory file system holding the given files.
func memFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

// syncBuffer is a bytes.Buffer safe for one writer goroutine and a reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
