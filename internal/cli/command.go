package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mrz1836/taskschema/internal/config"
	"github.com/mrz1836/taskschema/internal/constants"
	"github.com/mrz1836/taskschema/internal/errors"
	"github.com/mrz1836/taskschema/internal/registry"
	"github.com/mrz1836/taskschema/internal/schema"
	"github.com/mrz1836/taskschema/internal/tui"
)

// outputFormat returns the value of the global --output flag.
func outputFormat(cmd *cobra.Command) string {
	if f := cmd.Flag("output"); f != nil {
		return f.Value.String()
	}
	return OutputText
}

// loadCommandConfig loads configuration for a command, honoring --config and
// applying flag overrides. Only non-zero override fields are applied.
func loadCommandConfig(ctx context.Context, cmd *cobra.Command, overrides *config.Config) (*config.Config, error) {
	configFile := ""
	if f := cmd.Flag("config"); f != nil {
		configFile = f.Value.String()
	}
	cfg, err := config.LoadWithOverrides(ctx, configFile, overrides)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

// newOutput creates the output for the given format, respecting NO_COLOR.
func newOutput(w io.Writer, format string) tui.Output {
	tui.CheckNoColor()
	return tui.NewOutput(w, format)
}

// handleCommandError writes err as JSON in JSON mode and returns an error that
// still carries err's chain but tells Execute not to print it again.
func handleCommandError(format string, w io.Writer, err error) error {
	if err == nil || format != OutputJSON {
		return err
	}
	tui.NewJSONOutput(w).Error(err)
	return fmt.Errorf("%w: %w", errors.ErrJSONErrorOutput, err)
}

// generateSchemaFile reads the task registry named by cfg, generates the
// schema and writes it to cfg.Output.SchemaFile.
//
// When the result's digest equals skipDigest the file is left untouched and
// written is false. A registry without tasks returns errors.ErrNoTasksFound.
func generateSchemaFile(ctx context.Context, fs afero.Fs, cfg *config.Config, skipDigest string) (result *schema.Result, written bool, err error) {
	logger := zerolog.Ctx(ctx)

	reg, err := registry.ReadFile(fs, cfg.Registry.TasksFile)
	if err != nil {
		return nil, false, err
	}
	if !reg.HasTasks() {
		return nil, false, errors.ErrNoTasksFound
	}

	gen, err := schema.NewGenerator(
		schema.WithLogger(*logger),
		schema.WithMetaSchemaCheck(cfg.Output.CheckMetaSchema),
	)
	if err != nil {
		return nil, false, err
	}

	result, err = gen.Generate(reg.Tasks())
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to generate schema from %s", cfg.Registry.TasksFile)
	}

	if skipDigest != "" && result.Digest == skipDigest {
		logger.Debug().
			Str("digest", result.Digest).
			Msg("schema unchanged, skipping write")
		return result, false, nil
	}

	if err := writeFile(fs, cfg.Output.SchemaFile, result.Schema); err != nil {
		return nil, false, err
	}

	logger.Info().
		Str("generation_id", result.GenerationID).
		Str("schema_file", cfg.Output.SchemaFile).
		Int("tasks", result.TaskCount).
		Msg("schema written")

	return result, true, nil
}

// writeFile writes data to path, creating missing parent directories.
func writeFile(fs afero.Fs, path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, constants.DirPerm); err != nil {
			return errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}
	if err := afero.WriteFile(fs, path, data, constants.SchemaFilePerm); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
