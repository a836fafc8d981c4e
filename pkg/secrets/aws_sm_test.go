package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretsAPI struct {
	values map[string]string
	err    error
}

func (f *fakeSecretsAPI) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.values[aws.ToString(in.SecretId)]
	if !ok {
		return &secretsmanager.GetSecretValueOutput{}, nil
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(v)}, nil
}

func TestAWSProvider_GetSecret(t *testing.T) {
	p := &AWSSecretsManagerProvider{client: &fakeSecretsAPI{values: map[string]string{
		"prod/maturity/ci": `{"email":"ci@example.com","password":"pw"}`,
	}}}

	got, err := p.GetSecret(context.Background(), "prod/maturity/ci")
	require.NoError(t, err)
	assert.Equal(t, "ci@example.com", got["email"])
}

func TestAWSProvider_GetSecret_Errors(t *testing.T) {
	p := &AWSSecretsManagerProvider{client: &fakeSecretsAPI{err: errors.New("access denied")}}
	_, err := p.GetSecret(context.Background(), "any")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch secret [any]")

	p = &AWSSecretsManagerProvider{client: &fakeSecretsAPI{values: map[string]string{"bad": "{nope"}}}
	_, err = p.GetSecret(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid secret format")

	_, err = p.GetSecret(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no string value")
}

func TestLoadServiceAccount(t *testing.T) {
	p := &AWSSecretsManagerProvider{client: &fakeSecretsAPI{values: map[string]string{
		"ok":      `{"email":"ci@example.com","password":"pw"}`,
		"partial": `{"email":"ci@example.com"}`,
	}}}

	acct, err := LoadServiceAccount(context.Background(), p, "ok")
	require.NoError(t, err)
	assert.Equal(t, ServiceAccount{Email: "ci@example.com", Password: "pw"}, acct)

	_, err = LoadServiceAccount(context.Background(), p, "partial")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing email or password")
}
