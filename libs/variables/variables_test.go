package variables

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openeo-ci/pythonpipeline/libs/pipeline_config"
	"github.com/openeo-ci/pythonpipeline/libs/secrets"
)

func TestFromPipelineConfig(t *testing.T) {
	config := &pipeline_config.PipelineConfig{
		ExtraEnvVariables: []pipeline_config.EnvVar{
			{Name: "OPENEO_AUTH_METHOD", Value: "client_credentials"},
			{Name: "OPENEO_AUTH_PROVIDER_ID", Value: "CDSE"},
		},
		ExtraEnvSecrets: []pipeline_config.SecretRef{
			{EnvName: "OPENEO_AUTH_CLIENT_SECRET", Path: "TAP/some/path", Field: "client_secret"},
		},
	}

	specs := FromPipelineConfig(config)
	assert.Equal(t, 3, len(specs))
	assert.Equal(t, "OPENEO_AUTH_METHOD", specs[0].Name)
	assert.False(t, specs[0].IsSecret)
	assert.Equal(t, "OPENEO_AUTH_CLIENT_SECRET", specs[2].Name)
	assert.True(t, specs[2].IsSecret)
	assert.Equal(t, "TAP/some/path client_secret", specs[2].Value)
}

func TestGetVariablesPlainAndSecret(t *testing.T) {
	provider := VariablesProvider{
		SecretsResolver: secrets.MockResolver{Values: map[string]string{
			"TAP/some/path": `{"client_secret": "hunter2"}`,
		}},
	}

	specs := []VariableSpec{
		{Name: "OPENEO_AUTH_METHOD", Value: "client_credentials", Stage: StageAll},
		{Name: "OPENEO_AUTH_CLIENT_SECRET", Value: "TAP/some/path client_secret", Stage: StageAll, IsSecret: true},
	}

	result, err := provider.GetVariables(context.Background(), specs)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(result))
	assert.Equal(t, "client_credentials", result[StageAll]["OPENEO_AUTH_METHOD"])
	assert.Equal(t, "hunter2", result[StageAll]["OPENEO_AUTH_CLIENT_SECRET"])
}

func TestGetVariablesInterpolated(t *testing.T) {
	t.Setenv("SOURCE_VARIABLE", "from-environment")

	provider := VariablesProvider{}
	specs := []VariableSpec{
		{Name: "TARGET_VARIABLE", Value: "SOURCE_VARIABLE", Stage: "test", IsInterpolated: true},
	}

	result, err := provider.GetVariables(context.Background(), specs)
	assert.NoError(t, err)
	assert.Equal(t, "from-environment", result["test"]["TARGET_VARIABLE"])
}

func TestGetVariablesSecretWithoutResolver(t *testing.T) {
	provider := VariablesProvider{}
	specs := []VariableSpec{
		{Name: "SECRET", Value: "TAP/some/path", Stage: StageAll, IsSecret: true},
	}

	_, err := provider.GetVariables(context.Background(), specs)
	assert.Error(t, err)
	assert.ErrorContains(t, err, "no secrets resolver configured")
}

func TestGetVariablesGroupsByStage(t *testing.T) {
	provider := VariablesProvider{}
	specs := []VariableSpec{
		{Name: "A", Value: "1", Stage: "test"},
		{Name: "B", Value: "2", Stage: "build"},
		{Name: "C", Value: "3", Stage: "test"},
	}

	result, err := provider.GetVariables(context.Background(), specs)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(result))
	assert.Equal(t, map[string]string{"A": "1", "C": "3"}, result["test"])
	assert.Equal(t, map[string]string{"B": "2"}, result["build"])
}
