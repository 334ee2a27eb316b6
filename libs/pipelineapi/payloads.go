package pipelineapi

import (
	"github.com/google/uuid"

	"github.com/openeo-ci/pythonpipeline/libs/pipeline_config"
)

// RunSpec is the configuration record submitted to the pipeline service,
// field names matching the shared library's named parameters.
type RunSpec struct {
	RunId            string                       `json:"run_id"`
	PackageName      string                       `json:"package_name"`
	TestModuleName   string                       `json:"test_module_name"`
	WipeoutWorkspace bool                         `json:"wipeout_workspace"`
	PythonVersion    []string                     `json:"python_version"`
	RunTests         bool                         `json:"run_tests"`
	BuildWheel       bool                         `json:"build_wheel"`
	UploadDevWheels  bool                         `json:"upload_dev_wheels"`
	Pep440           bool                         `json:"pep440"`
	Stages           []string                     `json:"stages"`
	Variables        map[string]map[string]string `json:"variables,omitempty"`
}

func NewRunSpec(config *pipeline_config.PipelineConfig, stagedVariables map[string]map[string]string) RunSpec {
	stages := make([]string, 0, len(config.Stages))
	for _, s := range config.Stages {
		stages = append(stages, string(s))
	}

	return RunSpec{
		RunId:            uuid.NewString(),
		PackageName:      config.PackageName,
		TestModuleName:   config.TestModuleName,
		WipeoutWorkspace: config.WipeoutWorkspace,
		PythonVersion:    config.PythonVersions,
		RunTests:         config.RunTests,
		BuildWheel:       config.BuildWheel,
		UploadDevWheels:  config.UploadDevWheels,
		Pep440:           config.Pep440,
		Stages:           stages,
		Variables:        stagedVariables,
	}
}
