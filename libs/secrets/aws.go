package secrets

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/openeo-ci/pythonpipeline/libs/pipeline_config"
)

type SecretsManagerClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SecretsManagerResolver struct {
	Client SecretsManagerClient
}

func NewSecretsManagerResolver(ctx context.Context) (*SecretsManagerResolver, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SecretsManagerResolver{
		Client: secretsmanager.NewFromConfig(cfg),
	}, nil
}

func (r *SecretsManagerResolver) Resolve(ctx context.Context, ref pipeline_config.SecretRef) (string, error) {
	result, err := r.Client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(ref.Path),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", ref.Path, err)
	}

	if result.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", ref.Path)
	}

	return extractSecretField(*result.SecretString, ref)
}

type SSMResolver struct {
	Client SSMClient
}

func NewSSMResolver(ctx context.Context) (*SSMResolver, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SSMResolver{
		Client: ssm.NewFromConfig(cfg),
	}, nil
}

func (r *SSMResolver) Resolve(ctx context.Context, ref pipeline_config.SecretRef) (string, error) {
	result, err := r.Client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(ref.Path),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get parameter %s: %w", ref.Path, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return "", fmt.Errorf("parameter %s has no value", ref.Path)
	}

	return extractSecretField(*result.Parameter.Value, ref)
}
