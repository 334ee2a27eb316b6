package pipeline_config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/dominikbraun/graph"
	"gopkg.in/yaml.v3"
)

var ErrManifestConflict = errors.New("more than one pipeline manifest detected, please keep either 'pipeline.yml' or 'pipeline.yaml'")

func LoadPipelineConfig(workingDir string) (*PipelineConfig, *PipelineConfigYaml, graph.Graph[string, Stage], error) {
	manifestYaml, err := LoadManifestYaml(workingDir)
	if err != nil {
		return nil, nil, nil, err
	}

	config, stageGraph, err := ConvertManifestYamlToConfig(manifestYaml)
	if err != nil {
		return nil, nil, nil, err
	}

	err = ValidatePipelineConfig(config)
	if err != nil {
		return config, manifestYaml, stageGraph, err
	}
	return config, manifestYaml, stageGraph, nil
}

func LoadPipelineConfigFromString(yamlString string) (*PipelineConfig, *PipelineConfigYaml, graph.Graph[string, Stage], error) {
	manifestYaml, err := LoadManifestYamlFromString(yamlString)
	if err != nil {
		return nil, nil, nil, err
	}

	err = ValidateManifestYaml(manifestYaml, "loaded_yaml_string")
	if err != nil {
		return nil, nil, nil, err
	}

	config, stageGraph, err := ConvertManifestYamlToConfig(manifestYaml)
	if err != nil {
		return nil, nil, nil, err
	}

	err = ValidatePipelineConfig(config)
	if err != nil {
		return config, manifestYaml, stageGraph, err
	}
	return config, manifestYaml, stageGraph, nil
}

func LoadManifestYamlFromString(yamlString string) (*PipelineConfigYaml, error) {
	manifestYaml := &PipelineConfigYaml{}
	if err := yaml.Unmarshal([]byte(yamlString), manifestYaml); err != nil {
		return nil, fmt.Errorf("error parsing yaml: %v", err)
	}

	return manifestYaml, nil
}

func LoadManifestYaml(workingDir string) (*PipelineConfigYaml, error) {
	manifestYaml := &PipelineConfigYaml{}
	fileName, err := retrieveManifestFile(workingDir)
	if err != nil {
		if errors.Is(err, ErrManifestConflict) {
			return nil, fmt.Errorf("error while retrieving manifest file: %v", err)
		}
	}

	if fileName == "" {
		manifestYaml, err = AutoDetectPipelineConfig(workingDir)
		if err != nil {
			return nil, fmt.Errorf("failed to auto detect pipeline manifest: %v", err)
		}
		marshalledManifest, err := yaml.Marshal(manifestYaml)
		if err != nil {
			slog.Warn("failed to marshal auto detected manifest", "error", err)
		} else {
			slog.Info("auto detected pipeline manifest", "manifest", string(marshalledManifest))
		}
	} else {
		data, err := os.ReadFile(fileName)
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest file %s: %v", fileName, err)
		}

		if err := yaml.Unmarshal(data, manifestYaml); err != nil {
			return nil, fmt.Errorf("error parsing '%s': %v", fileName, err)
		}
	}

	manifestSource := fileName
	if manifestSource == "" {
		manifestSource = "auto-detected manifest"
	}
	err = ValidateManifestYaml(manifestYaml, manifestSource)
	if err != nil {
		return manifestYaml, err
	}

	return manifestYaml, nil
}

// AutoDetectPipelineConfig synthesizes a manifest for a python package that
// carries no pipeline.yml, deriving the package name from the packaging
// files and enabling tests when a test module is present.
func AutoDetectPipelineConfig(workingDir string) (*PipelineConfigYaml, error) {
	manifestYaml := &PipelineConfigYaml{}

	packageName, err := DetectPythonPackageName(workingDir)
	if err != nil {
		return nil, err
	}
	manifestYaml.PackageName = packageName

	testModule, err := DetectTestModule(workingDir)
	if err != nil {
		return nil, err
	}
	if testModule != "" {
		manifestYaml.TestModuleName = testModule
	} else {
		runTests := false
		manifestYaml.RunTests = &runTests
	}

	return manifestYaml, nil
}

func isFileExists(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	// file exists make sure it's not a directory
	return !fi.IsDir()
}

func retrieveManifestFile(workingDir string) (string, error) {
	var fileName string = "pipeline"
	customManifestFile := os.Getenv("PIPELINE_FILENAME") != ""

	if customManifestFile {
		fileName = os.Getenv("PIPELINE_FILENAME")
	}

	if workingDir != "" {
		fileName = path.Join(workingDir, fileName)
	}

	if !customManifestFile {
		// Make sure we don't have more than one pipeline manifest
		ymlCfg := fileName + ".yml"
		yamlCfg := fileName + ".yaml"
		ymlCfgExists := isFileExists(ymlCfg)
		yamlCfgExists := isFileExists(yamlCfg)

		if ymlCfgExists && yamlCfgExists {
			return "", ErrManifestConflict
		} else if ymlCfgExists {
			return ymlCfg, nil
		} else if yamlCfgExists {
			return yamlCfg, nil
		}
	} else {
		return fileName, nil
	}

	// Passing this point means the pipeline manifest is
	// missing which is a non-error
	return "", nil
}

// NormalizePackageName lowers a distribution name and collapses runs of
// separators to a single dash, the same normalization the python packaging
// tools apply.
func NormalizePackageName(name string) string {
	lowered := strings.ToLower(name)
	for _, sep := range []string{"_", "."} {
		lowered = strings.ReplaceAll(lowered, sep, "-")
	}
	for strings.Contains(lowered, "--") {
		lowered = strings.ReplaceAll(lowered, "--", "-")
	}
	return lowered
}
