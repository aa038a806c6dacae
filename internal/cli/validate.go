package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mrz1836/taskschema/internal/config"
	"github.com/mrz1836/taskschema/internal/ctxutil"
	"github.com/mrz1836/taskschema/internal/errors"
	"github.com/mrz1836/taskschema/internal/validation"
)

// AddValidateCommand adds the validate command to the root command.
func AddValidateCommand(root *cobra.Command) {
	root.AddCommand(newValidateCmd(afero.NewOsFs()))
}

func newValidateCmd(fs afero.Fs) *cobra.Command {
	var (
		schemaFile  string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "validate <pipeline.yml>...",
		Short: "Validate pipeline YAML files against the generated schema",
		Long: `Validate one or more pipeline YAML files against a schema produced by
generate. Files are checked concurrently and reported in the order given.

Task names are matched exactly here, while editors treat them as
case-insensitive.

Examples:
  taskschema validate azure-pipelines.yml
  taskschema validate --schema service-schema.json pipelines/*.yml
  taskschema validate -j 2 --output json ci/*.yml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := outputFormat(cmd)
			cfg, err := loadCommandConfig(cmd.Context(), cmd, &config.Config{
				Output: config.OutputConfig{SchemaFile: schemaFile},
			})
			if err != nil {
				return handleCommandError(format, os.Stdout, err)
			}
			err = runValidate(cmd.Context(), os.Stdout, format, fs, cfg.Output.SchemaFile, args, concurrency)
			return handleCommandError(format, os.Stdout, err)
		},
	}

	cmd.Flags().StringVarP(&schemaFile, "schema", "s", "", "schema file (default from output.schema_file)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", validation.DefaultConcurrency, "files validated at once")

	return cmd
}

// runValidate executes the validate command.
func runValidate(ctx context.Context, w io.Writer, format string, fs afero.Fs, schemaFile string, paths []string, concurrency int) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	validator, err := validation.LoadValidator(fs, schemaFile)
	if err != nil {
		return err
	}

	report, err := validation.NewRunner(validator, fs, concurrency).Run(ctx, paths)
	if err != nil {
		return err
	}

	if format == OutputJSON {
		if err := newOutput(w, format).JSON(report); err != nil {
			return err
		}
		if !report.Success {
			// The report already describes every failure.
			return fmt.Errorf("%w: %w", errors.ErrJSONErrorOutput, errors.ErrPipelineInvalid)
		}
		return nil
	}

	_, _ = fmt.Fprint(w, validation.FormatReport(report))
	if !report.Success {
		return errors.Wrapf(errors.ErrPipelineInvalid, "%d of %d file(s)", len(report.Failed()), len(report.Files))
	}
	return nil
}
