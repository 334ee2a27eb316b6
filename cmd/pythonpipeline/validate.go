package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the pipeline manifest of the package",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("manifest for package '%s' is valid\n", config.PackageName)
		fmt.Printf("python versions: %v\n", config.PythonVersions)
		fmt.Printf("stages: %v\n", config.Stages)
		fmt.Printf("env variables: %d, secret references: %d\n",
			len(config.ExtraEnvVariables), len(config.ExtraEnvSecrets))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
