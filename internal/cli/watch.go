package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mrz1836/taskschema/internal/config"
	"github.com/mrz1836/taskschema/internal/ctxutil"
	"github.com/mrz1836/taskschema/internal/errors"
	"github.com/mrz1836/taskschema/internal/tui"
	"github.com/mrz1836/taskschema/internal/watcher"
)

// AddWatchCommand adds the watch command to the root command.
func AddWatchCommand(root *cobra.Command) {
	root.AddCommand(newWatchCmd())
}

func newWatchCmd() *cobra.Command {
	var (
		tasksFile, outFile string
		debounce           time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the schema whenever the task registry file changes",
		Long: `Generate the schema once, then watch the task registry file and
regenerate whenever it changes. The schema file is only rewritten when its
content actually changes.

Press Ctrl+C to stop.

Examples:
  taskschema watch
  taskschema watch --tasks registry/tasks.json --debounce 2s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := outputFormat(cmd)
			cfg, err := loadCommandConfig(cmd.Context(), cmd, &config.Config{
				Registry: config.RegistryConfig{TasksFile: tasksFile},
				Output:   config.OutputConfig{SchemaFile: outFile},
				Watch:    config.WatchConfig{Debounce: debounce},
			})
			if err != nil {
				return handleCommandError(format, os.Stdout, err)
			}
			// Watching needs real file system events, so the OS file system is used.
			return handleCommandError(format, os.Stdout, runWatch(cmd.Context(), os.Stdout, format, afero.NewOsFs(), cfg))
		},
	}

	cmd.Flags().StringVarP(&tasksFile, "tasks", "t", "", "task registry file to watch (default from registry.tasks_file)")
	cmd.Flags().StringVar(&outFile, "out", "", "schema output file (default from output.schema_file)")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before regenerating (default from watch.debounce)")

	return cmd
}

// schemaRegenerator regenerates the schema on change and remembers the digest
// of the last written document. It is only used from the watcher goroutine.
type schemaRegenerator struct {
	fs         afero.Fs
	cfg        *config.Config
	out        tui.Output
	lastDigest string
}

// regenerate implements watcher.ChangeFunc.
func (r *schemaRegenerator) regenerate(ctx context.Context) error {
	result, written, err := generateSchemaFile(ctx, r.fs, r.cfg, r.lastDigest)
	switch {
	case stderrors.Is(err, errors.ErrNoTasksFound):
		r.out.Warning(fmt.Sprintf("No tasks found in %s", r.cfg.Registry.TasksFile))
		return nil
	case err != nil:
		r.out.Error(err)
		return err
	case !written:
		return nil
	}

	r.lastDigest = result.Digest
	r.out.Success(fmt.Sprintf("Schema generated at %s (%d tasks)", r.cfg.Output.SchemaFile, result.TaskCount))
	return nil
}

// runWatch executes the watch command until ctx is cancelled.
func runWatch(ctx context.Context, w io.Writer, format string, fs afero.Fs, cfg *config.Config) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	logger := zerolog.Ctx(ctx)
	out := newOutput(w, format)
	regen := &schemaRegenerator{fs: fs, cfg: cfg, out: out}

	fw, err := watcher.New(cfg.Registry.TasksFile, cfg.Watch.Debounce, *logger)
	if err != nil {
		return err
	}

	// A broken registry file is reported but does not stop watching; the
	// next save may fix it.
	_ = regen.regenerate(ctx)

	out.Info(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", cfg.Registry.TasksFile))
	if err := fw.Run(ctx, regen.regenerate); err != nil {
		return err
	}

	logger.Debug().Msg("watch stopped")
	return nil
}
