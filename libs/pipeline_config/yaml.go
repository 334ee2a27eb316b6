package pipeline_config

// PipelineConfigYaml is the on-disk shape of the pipeline manifest. Pointer
// fields distinguish "not set" from zero values so converters can fill the
// defaults of the shared pipeline library.
type PipelineConfigYaml struct {
	PackageName       string            `yaml:"package_name"`
	TestModuleName    string            `yaml:"test_module_name"`
	WipeoutWorkspace  *bool             `yaml:"wipeout_workspace"`
	PythonVersion     []string          `yaml:"python_version"`
	RunTests          *bool             `yaml:"run_tests"`
	BuildWheel        *bool             `yaml:"build_wheel"`
	UploadDevWheels   *bool             `yaml:"upload_dev_wheels"`
	Pep440            *bool             `yaml:"pep440"`
	ExtraEnvVariables []string          `yaml:"extra_env_variables,omitempty"`
	ExtraEnvSecrets   map[string]string `yaml:"extra_env_secrets,omitempty"`
}
