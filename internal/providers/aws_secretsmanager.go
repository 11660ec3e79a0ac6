package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/systmms/linepush/pkg/secretstore"
)

// SecretsManagerClientAPI defines the interface for AWS Secrets Manager operations
// This allows for mocking in tests
type SecretsManagerClientAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	ListSecrets(ctx context.Context, params *secretsmanager.ListSecretsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error)
}

// AWSSecretsManagerStore reads secret payloads from AWS Secrets Manager
type AWSSecretsManagerStore struct {
	name         string
	client       SecretsManagerClientAPI
	region       string
	versionStage string
}

// SecretsManagerOption is a functional option for configuring the store
type SecretsManagerOption func(*AWSSecretsManagerStore)

// WithSecretsManagerClient sets a custom Secrets Manager client (for testing)
func WithSecretsManagerClient(client SecretsManagerClientAPI) SecretsManagerOption {
	return func(s *AWSSecretsManagerStore) {
		s.client = client
	}
}

// NewAWSSecretsManagerStore creates a new AWS Secrets Manager store
func NewAWSSecretsManagerStore(ctx context.Context, name string, cfg map[string]interface{}, opts ...SecretsManagerOption) (*AWSSecretsManagerStore, error) {
	settings := ParseAWSSettings(cfg)

	s := &AWSSecretsManagerStore{
		name:         name,
		region:       settings.Region,
		versionStage: configString(cfg, "version_stage"),
	}

	// Apply options (allows mock client injection)
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		awsCfg, err := loadAWSConfig(ctx, settings)
		if err != nil {
			return nil, err
		}

		var clientOpts []func(*secretsmanager.Options)
		if settings.Endpoint != "" {
			endpoint := settings.Endpoint
			clientOpts = append(clientOpts, func(o *secretsmanager.Options) {
				o.BaseEndpoint = &endpoint
			})
		}
		s.client = secretsmanager.NewFromConfig(awsCfg, clientOpts...)
	}

	return s, nil
}

// Name returns the store name
func (s *AWSSecretsManagerStore) Name() string {
	return s.name
}

// Region returns the AWS region the store reads from
func (s *AWSSecretsManagerStore) Region() string {
	return s.region
}

// GetSecretString retrieves the secret string (or binary) stored under id
func (s *AWSSecretsManagerStore) GetSecretString(ctx context.Context, id string) (string, error) {
	if err := validateID(s.name, id); err != nil {
		return "", err
	}

	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	}
	if s.versionStage != "" {
		input.VersionStage = aws.String(s.versionStage)
	}

	result, err := s.client.GetSecretValue(ctx, input)
	if err != nil {
		return "", s.handleError(err, id)
	}

	switch {
	case result.SecretString != nil:
		return *result.SecretString, nil
	case result.SecretBinary != nil:
		return string(result.SecretBinary), nil
	default:
		return "", fmt.Errorf("secret '%s' has no value", id)
	}
}

// Validate checks if AWS credentials are configured and accessible
func (s *AWSSecretsManagerStore) Validate(ctx context.Context) error {
	// Try to list secrets (with limit 1) to verify credentials
	_, err := s.client.ListSecrets(ctx, &secretsmanager.ListSecretsInput{
		MaxResults: aws.Int32(1),
	})
	if err != nil {
		return secretstore.AuthError{
			Store:   s.name,
			Message: fmt.Sprintf("AWS authentication failed: %v", err),
		}
	}
	return nil
}

// handleError converts AWS errors to secret store errors
func (s *AWSSecretsManagerStore) handleError(err error, id string) error {
	var resourceNotFound *types.ResourceNotFoundException
	if errors.As(err, &resourceNotFound) {
		return secretstore.NotFoundError{Store: s.name, ID: id}
	}

	if isAuthFailure(err) {
		return authError(s.name, err)
	}

	return fmt.Errorf("AWS Secrets Manager error: %w", err)
}
