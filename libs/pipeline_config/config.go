package pipeline_config

// Stage names of the shared python pipeline. The pipeline service owns the
// execution of every stage; this side only decides which stages are enabled
// and in which order they run.
type Stage string

const (
	StageWipeout Stage = "wipeout"
	StageTest    Stage = "test"
	StageBuild   Stage = "build"
	StageUpload  Stage = "upload"
)

// stageRank fixes the relative order of stages for stable sorting of the
// execution plan. Dependencies between stages are modelled in the stage
// graph, the rank only breaks ties.
var stageRank = map[Stage]int{
	StageWipeout: 0,
	StageTest:    1,
	StageBuild:   2,
	StageUpload:  3,
}

type PipelineConfig struct {
	PackageName       string
	TestModuleName    string
	WipeoutWorkspace  bool
	PythonVersions    []string
	RunTests          bool
	BuildWheel        bool
	UploadDevWheels   bool
	Pep440            bool
	ExtraEnvVariables []EnvVar
	ExtraEnvSecrets   []SecretRef
	Stages            []Stage
}

// EnvVar is a single KEY=VALUE pair injected into the pipeline environment.
type EnvVar struct {
	Name  string
	Value string
}

// SecretRef binds an environment variable name to a secret-store path. The
// path may carry a trailing space-separated field selector picking a single
// JSON field out of the stored secret body, e.g.
// "TAP/big_data_services/openeo/service-account client_secret".
type SecretRef struct {
	EnvName string
	Path    string
	Field   string
}

func (c *PipelineConfig) StageEnabled(stage Stage) bool {
	switch stage {
	case StageWipeout:
		return c.WipeoutWorkspace
	case StageTest:
		return c.RunTests
	case StageBuild:
		return c.BuildWheel
	case StageUpload:
		return c.UploadDevWheels
	}
	return false
}

func (c *PipelineConfig) GetEnvVariable(name string) *EnvVar {
	for _, v := range c.ExtraEnvVariables {
		if v.Name == name {
			return &v
		}
	}
	return nil
}

func (c *PipelineConfig) GetSecretRef(envName string) *SecretRef {
	for _, s := range c.ExtraEnvSecrets {
		if s.EnvName == envName {
			return &s
		}
	}
	return nil
}
