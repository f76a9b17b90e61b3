package awsclient

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yatube/yatube-services/internal/appconfig"
)

type MockSecretsManager struct {
	mock.Mock
}

func (m *MockSecretsManager) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput,
	optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*secretsmanager.GetSecretValueOutput)
	return out, args.Error(1)
}

func TestResolveSigningSecret_Literal(t *testing.T) {
	secret, err := ResolveSigningSecret(context.Background(),
		appconfig.AuthConfig{SigningSecret: "literal", SigningSecretName: "ignored"},
		func() (SecretsManagerAPI, error) {
			t.Fatal("secrets manager should not be used")
			return nil, nil
		})
	require.NoError(t, err)
	assert.Equal(t, []byte("literal"), secret)
}

func TestResolveSigningSecret_Disabled(t *testing.T) {
	secret, err := ResolveSigningSecret(context.Background(), appconfig.AuthConfig{}, nil)
	require.NoError(t, err)
	assert.Nil(t, secret)
}

func TestResolveSigningSecret_FromSecretsManager(t *testing.T) {
	sm := new(MockSecretsManager)
	sm.On("GetSecretValue", mock.Anything, mock.MatchedBy(func(in *secretsmanager.GetSecretValueInput) bool {
		return aws.ToString(in.SecretId) == "yatube/jwt"
	})).Return(&secretsmanager.GetSecretValueOutput{SecretString: aws.String("from-aws")}, nil)

	secret, err := ResolveSigningSecret(context.Background(),
		appconfig.AuthConfig{SigningSecretName: "yatube/jwt"},
		func() (SecretsManagerAPI, error) { return sm, nil })
	require.NoError(t, err)
	assert.Equal(t, []byte("from-aws"), secret)
	sm.AssertExpectations(t)
}

func TestGetSecretString_APIError(t *testing.T) {
	sm := new(MockSecretsManager)
	sm.On("GetSecretValue", mock.Anything, mock.Anything).
		Return(nil, &smithy.GenericAPIError{Code: "ResourceNotFoundException", Message: "not found"})

	_, err := GetSecretString(context.Background(), sm, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ResourceNotFoundException")

	var apiErr smithy.APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestGetSecretString_BinarySecret(t *testing.T) {
	sm := new(MockSecretsManager)
	sm.On("GetSecretValue", mock.Anything, mock.Anything).
		Return(&secretsmanager.GetSecretValueOutput{SecretBinary: []byte{1, 2}}, nil)

	_, err := GetSecretString(context.Background(), sm, "binary")
	assert.Error(t, err)
}
