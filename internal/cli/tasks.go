package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mrz1836/taskschema/internal/config"
	"github.com/mrz1836/taskschema/internal/ctxutil"
	"github.com/mrz1836/taskschema/internal/registry"
	"github.com/mrz1836/taskschema/internal/schema"
)

// AddTasksCommand adds the tasks command to the root command.
func AddTasksCommand(root *cobra.Command) {
	root.AddCommand(newTasksCmd(afero.NewOsFs()))
}

func newTasksCmd(fs afero.Fs) *cobra.Command {
	var tasksFile string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the tasks in the registry file",
		Long: `List every task in the local registry file with the identifier used in
pipeline YAML, its display name, full version and number of inputs.

Examples:
  taskschema tasks
  taskschema tasks --tasks registry/tasks.json --output json`,
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := outputFormat(cmd)
			cfg, err := loadCommandConfig(cmd.Context(), cmd, &config.Config{
				Registry: config.RegistryConfig{TasksFile: tasksFile},
			})
			if err != nil {
				return handleCommandError(format, os.Stdout, err)
			}
			return handleCommandError(format, os.Stdout, runTasks(cmd.Context(), os.Stdout, format, fs, cfg))
		},
	}

	cmd.Flags().StringVarP(&tasksFile, "tasks", "t", "", "task registry file (default from registry.tasks_file)")

	return cmd
}

// tasksTableHeaders are the column headers of the tasks listing.
func tasksTableHeaders() []string {
	return []string{"TASK", "NAME", "VERSION", "INPUTS"}
}

// runTasks executes the tasks command.
func runTasks(ctx context.Context, w io.Writer, format string, fs afero.Fs, cfg *config.Config) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	reg, err := registry.ReadFile(fs, cfg.Registry.TasksFile)
	if err != nil {
		return err
	}

	out := newOutput(w, format)

	tasks := reg.Tasks()
	if len(tasks) == 0 && format != OutputJSON {
		out.Warning(fmt.Sprintf("No tasks found in %s", cfg.Registry.TasksFile))
		return nil
	}

	// Same order as the schema's task enum.
	slices.SortStableFunc(tasks, func(a, b *registry.TaskDefinition) int {
		return schema.CompareTaskRefs(
			schema.TaskRef{Name: a.Name, Major: a.Version.Major},
			schema.TaskRef{Name: b.Name, Major: b.Version.Major},
		)
	})

	rows := make([][]string, 0, len(tasks))
	for _, task := range tasks {
		rows = append(rows, []string{
			task.Identifier(),
			task.FriendlyName,
			task.Version.String(),
			strconv.Itoa(countInputs(task)),
		})
	}

	out.Table(tasksTableHeaders(), rows)
	return nil
}

func countInputs(task *registry.TaskDefinition) int {
	n := 0
	for _, input := range task.Inputs {
		if input != nil {
			n++
		}
	}
	return n
}
