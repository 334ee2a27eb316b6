package variables

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/openeo-ci/pythonpipeline/libs/pipeline_config"
	"github.com/openeo-ci/pythonpipeline/libs/secrets"
)

// StageAll marks a variable that is injected into every pipeline stage.
const StageAll = "all"

type VariableSpec struct {
	Name           string `json:"name"`
	Value          string `json:"value"`
	Stage          string `json:"stage"`
	IsSecret       bool   `json:"is_secret"`
	IsInterpolated bool   `json:"is_interpolated"`
}

// FromPipelineConfig flattens the manifest env declarations into variable
// specs. Secret specs carry the secret-store path (plus field selector) as
// their value until resolution.
func FromPipelineConfig(config *pipeline_config.PipelineConfig) []VariableSpec {
	specs := make([]VariableSpec, 0, len(config.ExtraEnvVariables)+len(config.ExtraEnvSecrets))
	for _, v := range config.ExtraEnvVariables {
		specs = append(specs, VariableSpec{
			Name:  v.Name,
			Value: v.Value,
			Stage: StageAll,
		})
	}
	for _, s := range config.ExtraEnvSecrets {
		value := s.Path
		if s.Field != "" {
			value = s.Path + " " + s.Field
		}
		specs = append(specs, VariableSpec{
			Name:     s.EnvName,
			Value:    value,
			Stage:    StageAll,
			IsSecret: true,
		})
	}
	return specs
}

type VariablesProvider struct {
	SecretsResolver secrets.Resolver
}

func (p VariablesProvider) GetVariables(ctx context.Context, variables []VariableSpec) (map[string]map[string]string, error) {
	// Group variables by their stage
	stagedVariables := lo.GroupBy(variables, func(variable VariableSpec) string {
		return variable.Stage
	})

	result := make(map[string]map[string]string)

	for stage, vars := range stagedVariables {
		stageResult := make(map[string]string)

		// Filter variables into three categories
		secretVars := lo.Filter(vars, func(variable VariableSpec, i int) bool {
			return variable.IsSecret
		})
		interpolated := lo.Filter(vars, func(variable VariableSpec, i int) bool {
			return variable.IsInterpolated
		})
		plain := lo.Filter(vars, func(variable VariableSpec, i int) bool {
			return !variable.IsSecret && !variable.IsInterpolated
		})

		if len(secretVars) > 0 && p.SecretsResolver == nil {
			return nil, fmt.Errorf("no secrets resolver configured, unable to resolve secret references")
		}

		// Resolve secret references against the secret store
		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		for _, v := range secretVars {
			g.Go(func() error {
				ref := pipeline_config.ParseSecretRef(v.Name, v.Value)
				value, err := p.SecretsResolver.Resolve(gctx, ref)
				if err != nil {
					return fmt.Errorf("could not resolve secret reference for %s: %v", v.Name, err)
				}
				mu.Lock()
				stageResult[v.Name] = value
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		// Process interpolated variables
		for _, v := range interpolated {
			stageResult[v.Name] = os.Getenv(v.Value)
		}

		// Process plain variables
		for _, v := range plain {
			stageResult[v.Name] = v.Value
		}

		// Add the processed variables for the current stage to the result
		result[stage] = stageResult
	}

	return result, nil
}
