package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/openeo-ci/pythonpipeline/libs/pipeline_config"
)

var workingDir string

var rootCmd = &cobra.Command{
	Use:   "pythonpipeline",
	Short: "Submit a python package CI pipeline from its manifest",
	Long: `pythonpipeline loads the pipeline manifest of a python package,
validates it and submits the resulting configuration record to the shared
pipeline service.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&workingDir, "working-dir", ".", "Directory of the python package")
}

func loadConfig() (*pipeline_config.PipelineConfig, error) {
	config, _, _, err := pipeline_config.LoadPipelineConfig(workingDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline manifest: %v", err)
	}
	return config, nil
}

func reportErrorAndExit(message string, exitCode int) {
	slog.Error(message)
	os.Exit(exitCode)
}
