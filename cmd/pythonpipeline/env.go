package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/openeo-ci/pythonpipeline/libs/secrets"
	"github.com/openeo-ci/pythonpipeline/libs/variables"
)

var (
	envStage       string
	envShowSecrets bool
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the resolved environment for a pipeline stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		config, err := loadConfig()
		if err != nil {
			return err
		}

		specs := variables.FromPipelineConfig(config)

		provider := variables.VariablesProvider{}
		if envShowSecrets {
			resolver, err := secrets.NewResolver(ctx)
			if err != nil {
				return fmt.Errorf("failed to create secrets resolver: %v", err)
			}
			provider.SecretsResolver = resolver
		} else {
			specs = maskSecretSpecs(specs)
		}

		stagedVariables, err := provider.GetVariables(ctx, specs)
		if err != nil {
			return fmt.Errorf("failed to resolve pipeline variables: %v", err)
		}

		stageVariables := map[string]string{}
		for name, value := range stagedVariables[variables.StageAll] {
			stageVariables[name] = value
		}
		if envStage != variables.StageAll {
			for name, value := range stagedVariables[envStage] {
				stageVariables[name] = value
			}
		}

		names := make([]string, 0, len(stageVariables))
		for name := range stageVariables {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Printf("%s=%s\n", name, stageVariables[name])
		}
		return nil
	},
}

// maskSecretSpecs turns secret specs into plain masked values so the
// command never reaches out to a secret store by default.
func maskSecretSpecs(specs []variables.VariableSpec) []variables.VariableSpec {
	masked := make([]variables.VariableSpec, 0, len(specs))
	for _, spec := range specs {
		if spec.IsSecret {
			spec.IsSecret = false
			spec.Value = "********"
		}
		masked = append(masked, spec)
	}
	return masked
}

func init() {
	envCmd.Flags().StringVar(&envStage, "stage", variables.StageAll, "Pipeline stage to print the environment for")
	envCmd.Flags().BoolVar(&envShowSecrets, "show-secrets", false, "Resolve and print secret values instead of masking them")
	rootCmd.AddCommand(envCmd)
}
