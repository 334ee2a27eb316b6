package pipeline_config

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	envNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	// interpreter targets like "3.10" or "3.10.4"
	pythonVersionRegex = regexp.MustCompile(`^[0-9]+\.[0-9]+(\.[0-9]+)?$`)
	// python distribution names as normalized by the packaging tools
	packageNameRegex = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)
)

func ValidateEnvVariableName(name string) error {
	if !envNameRegex.MatchString(name) {
		return fmt.Errorf("'%s' is not a valid environment variable name", name)
	}
	return nil
}

func ValidatePythonVersion(version string) error {
	if !pythonVersionRegex.MatchString(version) {
		return fmt.Errorf("'%s' is not a valid python interpreter version", version)
	}
	return nil
}

func ValidateManifestYaml(manifestYaml *PipelineConfigYaml, fileName string) error {
	if manifestYaml.PackageName == "" {
		return fmt.Errorf("no package_name found in '%s'", fileName)
	}
	if !packageNameRegex.MatchString(manifestYaml.PackageName) {
		return fmt.Errorf("package_name '%s' in '%s' is not a valid python distribution name", manifestYaml.PackageName, fileName)
	}

	for _, entry := range manifestYaml.ExtraEnvVariables {
		name, _, found := strings.Cut(entry, "=")
		if !found || name == "" {
			return fmt.Errorf("extra_env_variables entry '%s' in '%s' is not of the form KEY=VALUE", entry, fileName)
		}
		if err := ValidateEnvVariableName(name); err != nil {
			return fmt.Errorf("extra_env_variables in '%s': %v", fileName, err)
		}
	}

	for envName, path := range manifestYaml.ExtraEnvSecrets {
		if err := ValidateEnvVariableName(envName); err != nil {
			return fmt.Errorf("extra_env_secrets in '%s': %v", fileName, err)
		}
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("extra_env_secrets entry '%s' in '%s' has an empty secret-store path", envName, fileName)
		}
	}

	for _, version := range manifestYaml.PythonVersion {
		if err := ValidatePythonVersion(version); err != nil {
			return fmt.Errorf("python_version in '%s': %v", fileName, err)
		}
	}

	return nil
}

func ValidatePipelineConfig(config *PipelineConfig) error {
	if config.RunTests && config.TestModuleName == "" {
		return fmt.Errorf("run_tests is enabled but test_module_name is empty")
	}
	if (config.RunTests || config.BuildWheel) && len(config.PythonVersions) == 0 {
		return fmt.Errorf("python_version must list at least one interpreter when tests or wheel builds are enabled")
	}
	return nil
}
