package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/openeo-ci/pythonpipeline/libs/pipeline_config"
)

// Resolver turns a secret reference of the manifest into the actual secret
// value. The CI platform is the authoritative resolver; these clients exist
// for runs submitted outside the platform.
type Resolver interface {
	Resolve(ctx context.Context, ref pipeline_config.SecretRef) (string, error)
}

// EnvResolver assumes the platform already injected the secret into the
// process environment under the bound variable name.
type EnvResolver struct{}

func (r EnvResolver) Resolve(ctx context.Context, ref pipeline_config.SecretRef) (string, error) {
	value, ok := os.LookupEnv(ref.EnvName)
	if !ok {
		return "", fmt.Errorf("secret %s not present in environment as %s", ref.Path, ref.EnvName)
	}
	return value, nil
}

type MockResolver struct {
	Values map[string]string
}

func (r MockResolver) Resolve(ctx context.Context, ref pipeline_config.SecretRef) (string, error) {
	value, ok := r.Values[ref.Path]
	if !ok {
		return "", fmt.Errorf("no mock value for secret %s", ref.Path)
	}
	return extractSecretField(value, ref)
}

// extractSecretField picks the referenced JSON field out of a secret body
// when the reference carries a field selector, e.g. "client_secret" out of a
// service-account credential object.
func extractSecretField(secretString string, ref pipeline_config.SecretRef) (string, error) {
	if ref.Field == "" {
		return secretString, nil
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(secretString), &fields); err != nil {
		return "", fmt.Errorf("secret %s is not a JSON object but field '%s' was requested: %v", ref.Path, ref.Field, err)
	}

	value, ok := fields[ref.Field]
	if !ok {
		return "", fmt.Errorf("secret %s has no field '%s'", ref.Path, ref.Field)
	}
	if value == "" {
		return "", fmt.Errorf("field '%s' is empty in secret %s", ref.Field, ref.Path)
	}
	return value, nil
}

// NewResolver picks the backend from SECRETS_BACKEND. Defaults to the
// environment passthrough, which is correct on the CI platform itself.
func NewResolver(ctx context.Context) (Resolver, error) {
	backend := strings.ToLower(os.Getenv("SECRETS_BACKEND"))
	slog.Info("initializing secrets resolver", "backend", backend)

	switch backend {
	case "", "env":
		return EnvResolver{}, nil
	case "aws":
		return NewSecretsManagerResolver(ctx)
	case "ssm":
		return NewSSMResolver(ctx)
	default:
		return nil, fmt.Errorf("unknown secrets backend: %v", backend)
	}
}
