package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openeo-ci/pythonpipeline/libs/storage"
)

var publishDistDir string

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload built dev wheels to the configured wheel storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}

		if !config.UploadDevWheels {
			return fmt.Errorf("upload_dev_wheels is not enabled for package %s", config.PackageName)
		}

		wheelStorage, err := storage.NewWheelStorage()
		if err != nil {
			return err
		}

		distDir := publishDistDir
		if !filepath.IsAbs(distDir) {
			distDir = filepath.Join(workingDir, distDir)
		}
		wheels, err := filepath.Glob(filepath.Join(distDir, "*.whl"))
		if err != nil {
			return fmt.Errorf("failed to list wheel files in %s: %v", distDir, err)
		}
		if len(wheels) == 0 {
			return fmt.Errorf("no wheel files found in %s", distDir)
		}

		for _, wheelFile := range wheels {
			contents, err := os.ReadFile(wheelFile)
			if err != nil {
				return fmt.Errorf("failed to read wheel file %s: %v", wheelFile, err)
			}
			wheelName := filepath.Base(wheelFile)
			storedPath := storage.StoredWheelPath(config.PackageName, wheelName)
			err = wheelStorage.StoreWheelFile(contents, wheelName, storedPath)
			if err != nil {
				return fmt.Errorf("failed to upload wheel %s: %v", wheelName, err)
			}
			slog.Info("uploaded dev wheel", "wheel", wheelName, "path", storedPath)
			fmt.Println(storedPath)
		}
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishDistDir, "dist-dir", "dist", "Directory containing built wheel files")
	rootCmd.AddCommand(publishCmd)
}
