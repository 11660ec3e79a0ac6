package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/systmms/linepush/pkg/secretstore"
)

// SSMClientAPI defines the interface for AWS SSM Parameter Store operations
type SSMClientAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	DescribeParameters(ctx context.Context, params *ssm.DescribeParametersInput, optFns ...func(*ssm.Options)) (*ssm.DescribeParametersOutput, error)
}

// AWSSSMStore reads secret payloads from SSM Parameter Store. SecureString
// parameters are decrypted.
type AWSSSMStore struct {
	name   string
	client SSMClientAPI
	prefix string
}

// SSMOption is a functional option for configuring the store
type SSMOption func(*AWSSSMStore)

// WithSSMClient sets a custom SSM client (for testing)
func WithSSMClient(client SSMClientAPI) SSMOption {
	return func(s *AWSSSMStore) {
		s.client = client
	}
}

// NewAWSSSMStore creates a new SSM Parameter Store backed store
func NewAWSSSMStore(ctx context.Context, name string, cfg map[string]interface{}, opts ...SSMOption) (*AWSSSMStore, error) {
	settings := ParseAWSSettings(cfg)

	s := &AWSSSMStore{
		name:   name,
		prefix: configString(cfg, "path_prefix"),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		awsCfg, err := loadAWSConfig(ctx, settings)
		if err != nil {
			return nil, err
		}

		var clientOpts []func(*ssm.Options)
		if settings.Endpoint != "" {
			endpoint := settings.Endpoint
			clientOpts = append(clientOpts, func(o *ssm.Options) {
				o.BaseEndpoint = &endpoint
			})
		}
		s.client = ssm.NewFromConfig(awsCfg, clientOpts...)
	}

	return s, nil
}

// Name returns the store name
func (s *AWSSSMStore) Name() string {
	return s.name
}

// GetSecretString retrieves a parameter value. A configured path_prefix is
// prepended to ids that are not absolute.
func (s *AWSSSMStore) GetSecretString(ctx context.Context, id string) (string, error) {
	if err := validateID(s.name, id); err != nil {
		return "", err
	}

	paramName := s.parameterName(id)
	result, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var notFound *ssmtypes.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", secretstore.NotFoundError{Store: s.name, ID: paramName}
		}
		if isAuthFailure(err) {
			return "", authError(s.name, err)
		}
		return "", fmt.Errorf("AWS SSM error: %w", err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return "", fmt.Errorf("parameter '%s' has no value", paramName)
	}

	return *result.Parameter.Value, nil
}

// Validate checks if AWS credentials allow reading parameter metadata
func (s *AWSSSMStore) Validate(ctx context.Context) error {
	_, err := s.client.DescribeParameters(ctx, &ssm.DescribeParametersInput{
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

func (s *AWSSSMStore) parameterName(id string) string {
	if s.prefix == "" || id[0] == '/' {
		return id
	}
	prefix := s.prefix
	if prefix[len(prefix)-1] != '/' {
		prefix += "/"
	}
	return prefix + id
}
