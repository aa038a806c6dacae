package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/mrz1836/taskschema/internal/config"
	"github.com/mrz1836/taskschema/internal/ctxutil"
	"github.com/mrz1836/taskschema/internal/errors"
	"github.com/mrz1836/taskschema/internal/registry"
)

// AddFetchCommand adds the fetch command to the root command.
func AddFetchCommand(root *cobra.Command) {
	root.AddCommand(newFetchCmd(afero.NewOsFs(), defaultFetchDeps()))
}

// fetchDeps are the collaborators of the fetch command that tests replace.
type fetchDeps struct {
	getenv    func(key string) string
	newClient func(cfg registry.ClientConfig, logger zerolog.Logger) *registry.Client
}

func defaultFetchDeps() fetchDeps {
	return fetchDeps{
		getenv:    os.Getenv,
		newClient: registry.NewClient,
	}
}

func newFetchCmd(fs afero.Fs, deps fetchDeps) *cobra.Command {
	var orgURL, outFile string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the task registry of an organization",
		Long: `Download the task registry from an organization and save it as the
local registry file read by generate.

The personal access token is read from the environment variable named by
registry.token_env_var (AZURE_DEVOPS_EXT_PAT by default). It is never
written to config or log files.

Examples:
  AZURE_DEVOPS_EXT_PAT=... taskschema fetch --org https://dev.azure.com/contoso
  taskschema fetch --out registry/tasks.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := outputFormat(cmd)
			cfg, err := loadCommandConfig(cmd.Context(), cmd, &config.Config{
				Registry: config.RegistryConfig{OrganizationURL: orgURL, TasksFile: outFile},
			})
			if err != nil {
				return handleCommandError(format, os.Stdout, err)
			}
			return handleCommandError(format, os.Stdout, runFetch(cmd.Context(), os.Stdout, format, fs, cfg, deps))
		},
	}

	cmd.Flags().StringVar(&orgURL, "org", "", "organization URL (default from registry.organization_url)")
	cmd.Flags().StringVar(&outFile, "out", "", "file to save the registry to (default from registry.tasks_file)")

	return cmd
}

// fetchResult is the JSON output of the fetch command.
type fetchResult struct {
	Status          string `json:"status"`
	OrganizationURL string `json:"organization_url"`
	TasksFile       string `json:"tasks_file"`
	TaskCount       int    `json:"task_count"`
}

// runFetch executes the fetch command.
func runFetch(ctx context.Context, w io.Writer, format string, fs afero.Fs, cfg *config.Config, deps fetchDeps) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if cfg.Registry.OrganizationURL == "" {
		return errors.NewExitCode2Error(
			errors.Wrap(errors.ErrEmptyValue, "organization URL is required (set --org or registry.organization_url)"))
	}

	token := deps.getenv(cfg.Registry.TokenEnvVar)
	if token == "" {
		return errors.Wrapf(errors.ErrMissingToken, "environment variable %s is empty", cfg.Registry.TokenEnvVar)
	}

	client := deps.newClient(registry.ClientConfig{
		OrganizationURL: cfg.Registry.OrganizationURL,
		Token:           token,
		APIVersion:      cfg.Registry.APIVersion,
		Timeout:         cfg.Registry.Timeout,
	}, *zerolog.Ctx(ctx))

	reg, body, err := client.Fetch(ctx)
	if err != nil {
		return err
	}

	if err := writeFile(fs, cfg.Registry.TasksFile, pretty.Pretty(body)); err != nil {
		return err
	}

	count := len(reg.Tasks())
	out := newOutput(w, format)
	if format == OutputJSON {
		return out.JSON(fetchResult{
			Status:          "fetched",
			OrganizationURL: cfg.Registry.OrganizationURL,
			TasksFile:       cfg.Registry.TasksFile,
			TaskCount:       count,
		})
	}

	out.Success(fmt.Sprintf("Downloaded %d tasks to %s", count, cfg.Registry.TasksFile))
	if count == 0 {
		out.Warning("The registry returned no tasks; generate will have nothing to do.")
	}
	return nil
}
