package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mrz1836/taskschema/internal/config"
	"github.com/mrz1836/taskschema/internal/ctxutil"
	"github.com/mrz1836/taskschema/internal/errors"
)

// AddGenerateCommand adds the generate command to the root command.
func AddGenerateCommand(root *cobra.Command) {
	root.AddCommand(newGenerateCmd(afero.NewOsFs()))
}

func newGenerateCmd(fs afero.Fs) *cobra.Command {
	var tasksFile, outFile string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the pipeline schema from a task registry file",
		Long: `Read a task registry export and write the draft-07 JSON schema for
pipeline YAML files.

Every task in the registry contributes a "name@major" entry to the task
enum and a fragment describing its inputs. The output is deterministic:
the same registry always produces byte-identical schema.

Examples:
  taskschema generate
  taskschema generate --tasks registry/tasks.json --out .vscode/pipeline-schema.json
  taskschema generate --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := outputFormat(cmd)
			cfg, err := loadCommandConfig(cmd.Context(), cmd, &config.Config{
				Registry: config.RegistryConfig{TasksFile: tasksFile},
				Output:   config.OutputConfig{SchemaFile: outFile},
			})
			if err != nil {
				return handleCommandError(format, os.Stdout, err)
			}
			return handleCommandError(format, os.Stdout, runGenerate(cmd.Context(), os.Stdout, format, fs, cfg))
		},
	}

	cmd.Flags().StringVarP(&tasksFile, "tasks", "t", "", "task registry file (default from registry.tasks_file)")
	cmd.Flags().StringVar(&outFile, "out", "", "schema output file (default from output.schema_file)")

	return cmd
}

// generateResult is the JSON output of the generate command.
type generateResult struct {
	Status       string `json:"status"`
	TasksFile    string `json:"tasks_file"`
	SchemaFile   string `json:"schema_file,omitempty"`
	TaskCount    int    `json:"task_count"`
	GenerationID string `json:"generation_id,omitempty"`
	Digest       string `json:"digest,omitempty"`
}

// runGenerate executes the generate command.
func runGenerate(ctx context.Context, w io.Writer, format string, fs afero.Fs, cfg *config.Config) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	out := newOutput(w, format)

	result, _, err := generateSchemaFile(ctx, fs, cfg, "")
	if stderrors.Is(err, errors.ErrNoTasksFound) {
		if format == OutputJSON {
			return out.JSON(generateResult{Status: "no_tasks", TasksFile: cfg.Registry.TasksFile})
		}
		out.Warning(fmt.Sprintf("No tasks found in %s", cfg.Registry.TasksFile))
		return nil
	}
	if err != nil {
		return err
	}

	if format == OutputJSON {
		return out.JSON(generateResult{
			Status:       "generated",
			TasksFile:    cfg.Registry.TasksFile,
			SchemaFile:   cfg.Output.SchemaFile,
			TaskCount:    result.TaskCount,
			GenerationID: result.GenerationID,
			Digest:       result.Digest,
		})
	}

	out.Success(fmt.Sprintf("Schema generated at %s (%d tasks)", cfg.Output.SchemaFile, result.TaskCount))
	return nil
}
