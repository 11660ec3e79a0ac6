package fakes

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// FakeSecretsManagerClient is an in-memory Secrets Manager client
type FakeSecretsManagerClient struct {
	mu sync.Mutex

	// Secrets maps secret names to their string payloads
	Secrets map[string]string
	// Binary maps secret names to binary payloads
	Binary map[string][]byte
	// Errors maps secret names to errors to return
	Errors map[string]error
	// ListErr is returned by ListSecrets if set
	ListErr error

	// GetCalls counts GetSecretValue invocations
	GetCalls int
	// LastInput is the most recent GetSecretValue input
	LastInput *secretsmanager.GetSecretValueInput
}

// NewFakeSecretsManagerClient creates a new mock Secrets Manager client
func NewFakeSecretsManagerClient() *FakeSecretsManagerClient {
	return &FakeSecretsManagerClient{
		Secrets: make(map[string]string),
		Binary:  make(map[string][]byte),
		Errors:  make(map[string]error),
	}
}

// AddSecretString adds a string secret to the mock client
func (f *FakeSecretsManagerClient) AddSecretString(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Secrets[name] = value
}

// AddSecretBinary adds a binary secret to the mock client
func (f *FakeSecretsManagerClient) AddSecretBinary(name string, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Binary[name] = value
}

// AddError configures the mock to return an error for a specific secret
func (f *FakeSecretsManagerClient) AddError(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errors[name] = err
}

// Calls returns the number of GetSecretValue invocations
func (f *FakeSecretsManagerClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.GetCalls
}

// GetSecretValue mocks the GetSecretValue operation
func (f *FakeSecretsManagerClient) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.GetCalls++
	f.LastInput = params
	secretName := aws.ToString(params.SecretId)

	if err, exists := f.Errors[secretName]; exists {
		return nil, err
	}

	out := &secretsmanager.GetSecretValueOutput{
		ARN:           aws.String(fmt.Sprintf("arn:aws:secretsmanager:us-east-1:123456789012:secret:%s", secretName)),
		Name:          params.SecretId,
		VersionId:     aws.String("v1-abc123"),
		VersionStages: []string{"AWSCURRENT"},
	}

	if value, exists := f.Secrets[secretName]; exists {
		out.SecretString = aws.String(value)
		return out, nil
	}
	if value, exists := f.Binary[secretName]; exists {
		out.SecretBinary = value
		return out, nil
	}

	return nil, &types.ResourceNotFoundException{
		Message: aws.String(fmt.Sprintf("Secrets Manager can't find the specified secret: %s", secretName)),
	}
}

// ListSecrets mocks the ListSecrets operation
func (f *FakeSecretsManagerClient) ListSecrets(ctx context.Context, params *secretsmanager.ListSecretsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ListErr != nil {
		return nil, f.ListErr
	}

	var entries []types.SecretListEntry
	for name := range f.Secrets {
		entries = append(entries, types.SecretListEntry{Name: aws.String(name)})
		if params.MaxResults != nil && int32(len(entries)) >= *params.MaxResults {
			break
		}
	}
	return &secretsmanager.ListSecretsOutput{SecretList: entries}, nil
}

// FakeSSMClient is an in-memory SSM Parameter Store client
type FakeSSMClient struct {
	mu sync.Mutex

	// Parameters maps parameter names to values
	Parameters map[string]string
	// Errors maps parameter names to errors to return
	Errors map[string]error
	// DescribeErr is returned by DescribeParameters if set
	DescribeErr error

	// LastInput is the most recent GetParameter input
	LastInput *ssm.GetParameterInput
}

// NewFakeSSMClient creates a new mock SSM client
func NewFakeSSMClient() *FakeSSMClient {
	return &FakeSSMClient{
		Parameters: make(map[string]string),
		Errors:     make(map[string]error),
	}
}

// AddParameter adds a parameter to the mock client
func (f *FakeSSMClient) AddParameter(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Parameters[name] = value
}

// GetParameter mocks the GetParameter operation
func (f *FakeSSMClient) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.LastInput = params
	name := aws.ToString(params.Name)

	if err, exists := f.Errors[name]; exists {
		return nil, err
	}

	value, exists := f.Parameters[name]
	if !exists {
		return nil, &ssmtypes.ParameterNotFound{Message: aws.String("parameter not found: " + name)}
	}

	return &ssm.GetParameterOutput{
		Parameter: &ssmtypes.Parameter{
			Name:    aws.String(name),
			Value:   aws.String(value),
			Type:    ssmtypes.ParameterTypeSecureString,
			Version: 1,
		},
	}, nil
}

// DescribeParameters mocks the DescribeParameters operation
func (f *FakeSSMClient) DescribeParameters(ctx context.Context, params *ssm.DescribeParametersInput, optFns ...func(*ssm.Options)) (*ssm.DescribeParametersOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.DescribeErr != nil {
		return nil, f.DescribeErr
	}

	var metadata []ssmtypes.ParameterMetadata
	for name := range f.Parameters {
		metadata = append(metadata, ssmtypes.ParameterMetadata{Name: aws.String(name)})
	}
	return &ssm.DescribeParametersOutput{Parameters: metadata}, nil
}
