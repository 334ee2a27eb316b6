package pipeline_config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"
)

// Defaults match the shared pipeline library: a fresh workspace and a test
// run on every invocation, artifact stages opt-in.
const (
	defaultWipeoutWorkspace = true
	defaultRunTests         = true
	defaultBuildWheel       = false
	defaultUploadDevWheels  = false
	defaultPep440           = false
)

func copyEnvVariables(entries []string) ([]EnvVar, error) {
	result := make([]EnvVar, 0, len(entries))
	for _, entry := range entries {
		name, value, found := strings.Cut(entry, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("extra_env_variables entry '%s' is not of the form KEY=VALUE", entry)
		}
		result = append(result, EnvVar{Name: name, Value: value})
	}
	return result, nil
}

func copySecretRefs(secrets map[string]string) []SecretRef {
	result := make([]SecretRef, 0, len(secrets))
	for envName, path := range secrets {
		result = append(result, ParseSecretRef(envName, path))
	}
	// map iteration order is random, keep the refs deterministic
	sort.Slice(result, func(i, j int) bool {
		return result[i].EnvName < result[j].EnvName
	})
	return result
}

// ParseSecretRef splits a secret-store path into the path proper and an
// optional trailing field selector.
func ParseSecretRef(envName string, path string) SecretRef {
	ref := SecretRef{EnvName: envName, Path: strings.TrimSpace(path)}
	if p, field, found := strings.Cut(ref.Path, " "); found {
		ref.Path = p
		ref.Field = strings.TrimSpace(field)
	}
	return ref
}

func ConvertManifestYamlToConfig(manifestYaml *PipelineConfigYaml) (*PipelineConfig, graph.Graph[string, Stage], error) {
	var config PipelineConfig

	config.PackageName = manifestYaml.PackageName
	config.TestModuleName = manifestYaml.TestModuleName
	config.PythonVersions = manifestYaml.PythonVersion

	if manifestYaml.WipeoutWorkspace != nil {
		config.WipeoutWorkspace = *manifestYaml.WipeoutWorkspace
	} else {
		config.WipeoutWorkspace = defaultWipeoutWorkspace
	}

	if manifestYaml.RunTests != nil {
		config.RunTests = *manifestYaml.RunTests
	} else {
		config.RunTests = defaultRunTests
	}

	if manifestYaml.BuildWheel != nil {
		config.BuildWheel = *manifestYaml.BuildWheel
	} else {
		config.BuildWheel = defaultBuildWheel
	}

	if manifestYaml.UploadDevWheels != nil {
		config.UploadDevWheels = *manifestYaml.UploadDevWheels
	} else {
		config.UploadDevWheels = defaultUploadDevWheels
	}

	if manifestYaml.Pep440 != nil {
		config.Pep440 = *manifestYaml.Pep440
	} else {
		config.Pep440 = defaultPep440
	}

	if config.UploadDevWheels && !config.BuildWheel {
		return nil, nil, fmt.Errorf("upload_dev_wheels requires build_wheel to be enabled")
	}

	envVariables, err := copyEnvVariables(manifestYaml.ExtraEnvVariables)
	if err != nil {
		return nil, nil, err
	}
	config.ExtraEnvVariables = envVariables
	config.ExtraEnvSecrets = copySecretRefs(manifestYaml.ExtraEnvSecrets)

	// check for duplicated env names across variables and secrets
	envNames := make(map[string]bool)
	for _, v := range config.ExtraEnvVariables {
		if envNames[v.Name] {
			return nil, nil, fmt.Errorf("environment variable '%s' is duplicated", v.Name)
		}
		envNames[v.Name] = true
	}
	for _, s := range config.ExtraEnvSecrets {
		if envNames[s.EnvName] {
			return nil, nil, fmt.Errorf("environment variable '%s' is bound both as a variable and a secret", s.EnvName)
		}
		envNames[s.EnvName] = true
	}

	stageGraph, err := CreateStageGraph(&config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create stage graph: %s", err.Error())
	}

	stages, err := graph.StableTopologicalSort(stageGraph, func(a, b string) bool {
		return stageRank[Stage(a)] < stageRank[Stage(b)]
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to order pipeline stages: %s", err.Error())
	}
	for _, s := range stages {
		config.Stages = append(config.Stages, Stage(s))
	}

	return &config, stageGraph, nil
}

// CreateStageGraph builds the dependency graph of the enabled stages: test
// and build need a (possibly wiped) workspace, upload needs a built wheel.
func CreateStageGraph(config *PipelineConfig) (graph.Graph[string, Stage], error) {
	stageHash := func(s Stage) string {
		return string(s)
	}

	g := graph.New(stageHash, graph.Directed(), graph.PreventCycles())

	enabled := []Stage{}
	for _, stage := range []Stage{StageWipeout, StageTest, StageBuild, StageUpload} {
		if config.StageEnabled(stage) {
			enabled = append(enabled, stage)
			if err := g.AddVertex(stage); err != nil {
				return nil, err
			}
		}
	}

	addEdge := func(from Stage, to Stage) error {
		if config.StageEnabled(from) && config.StageEnabled(to) {
			return g.AddEdge(string(from), string(to))
		}
		return nil
	}

	if err := addEdge(StageWipeout, StageTest); err != nil {
		return nil, err
	}
	if err := addEdge(StageWipeout, StageBuild); err != nil {
		return nil, err
	}
	if err := addEdge(StageBuild, StageUpload); err != nil {
		return nil, err
	}

	if len(enabled) == 0 {
		return nil, fmt.Errorf("manifest enables no pipeline stage")
	}

	return g, nil
}
