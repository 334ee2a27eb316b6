package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/openeo-ci/pythonpipeline/libs/pipelineapi"
	"github.com/openeo-ci/pythonpipeline/libs/secrets"
	"github.com/openeo-ci/pythonpipeline/libs/variables"
)

var (
	runWait         bool
	runPollInterval time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Submit the configured pipeline to the pipeline service",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		config, err := loadConfig()
		if err != nil {
			return err
		}

		resolver, err := secrets.NewResolver(ctx)
		if err != nil {
			return fmt.Errorf("failed to create secrets resolver: %v", err)
		}

		provider := variables.VariablesProvider{SecretsResolver: resolver}
		stagedVariables, err := provider.GetVariables(ctx, variables.FromPipelineConfig(config))
		if err != nil {
			return fmt.Errorf("failed to resolve pipeline variables: %v", err)
		}

		api, err := pipelineapi.NewServiceApi()
		if err != nil {
			return err
		}

		spec := pipelineapi.NewRunSpec(config, stagedVariables)
		status, err := api.SubmitRun(ctx, spec)
		if err != nil {
			return fmt.Errorf("failed to submit pipeline run: %v", err)
		}

		slog.Info("pipeline run submitted",
			"runId", status.RunId,
			"package", config.PackageName,
			"status", status.Status)

		if !runWait {
			fmt.Println(status.RunId)
			return nil
		}

		for status.Status == pipelineapi.RunStatusQueued || status.Status == pipelineapi.RunStatusRunning {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(runPollInterval):
			}

			status, err = api.GetRunStatus(ctx, status.RunId)
			if err != nil {
				return fmt.Errorf("failed to fetch run status: %v", err)
			}
			slog.Info("pipeline run status", "runId", status.RunId, "status", status.Status)
		}

		if status.Status != pipelineapi.RunStatusSucceeded {
			return fmt.Errorf("pipeline run %s finished with status %s", status.RunId, status.Status)
		}
		fmt.Println(status.RunId)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runWait, "wait", false, "Wait for the run to finish")
	runCmd.Flags().DurationVar(&runPollInterval, "poll-interval", 10*time.Second, "Status poll interval when waiting")
	rootCmd.AddCommand(runCmd)
}
