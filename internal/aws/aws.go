package awsclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
	"github.com/yatube/yatube-services/internal/appconfig"
)

// SecretsManagerAPI is the subset of the Secrets Manager client used here.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// LoadAWSConfig initializes and returns an AWS SDK configuration.
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return cfg, nil
}

// NewSecretsManagerClient initializes the AWS Secrets Manager client.
func NewSecretsManagerClient(cfg aws.Config) *secretsmanager.Client {
	return secretsmanager.NewFromConfig(cfg)
}

// GetSecretString fetches the plain string value of a secret.
func GetSecretString(ctx context.Context, client SecretsManagerAPI, name string) (string, error) {
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("secret %s: %s: %w", name, apiErr.ErrorCode(), err)
		}
		return "", fmt.Errorf("secret %s: %w", name, err)
	}

	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", name)
	}
	return *out.SecretString, nil
}

// ResolveSigningSecret returns the token signing secret: the literal value
// from config if present, otherwise the named secret from Secrets Manager.
// newClient is only called when a lookup is needed. A nil result means
// token signatures are not verified.
func ResolveSigningSecret(ctx context.Context, auth appconfig.AuthConfig,
	newClient func() (SecretsManagerAPI, error)) ([]byte, error) {

	if auth.SigningSecret != "" {
		return []byte(auth.SigningSecret), nil
	}
	if auth.SigningSecretName == "" {
		return nil, nil
	}

	client, err := newClient()
	if err != nil {
		return nil, err
	}

	secret, err := GetSecretString(ctx, client, auth.SigningSecretName)
	if err != nil {
		return nil, err
	}
	return []byte(secret), nil
}
