package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

const defaultAWSRegion = "us-east-1"

// AWSSettings holds the connection settings shared by the AWS backed stores
type AWSSettings struct {
	Region          string
	Profile         string
	Endpoint        string // Optional custom endpoint for LocalStack or testing
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	AssumeRole      string
	ExternalID      string
	RoleSessionName string
}

// ParseAWSSettings reads AWS settings from a store config block
func ParseAWSSettings(cfg map[string]interface{}) AWSSettings {
	s := AWSSettings{
		Region:          configString(cfg, "region"),
		Profile:         configString(cfg, "profile"),
		Endpoint:        configString(cfg, "endpoint"),
		AccessKeyID:     configString(cfg, "access_key_id"),
		SecretAccessKey: configString(cfg, "secret_access_key"),
		SessionToken:    configString(cfg, "session_token"),
		AssumeRole:      configString(cfg, "assume_role"),
		ExternalID:      configString(cfg, "external_id"),
		RoleSessionName: configString(cfg, "role_session_name"),
	}
	if s.Region == "" {
		s.Region = defaultAWSRegion
	}
	if s.RoleSessionName == "" {
		s.RoleSessionName = fmt.Sprintf("linepush-%d", time.Now().Unix())
	}
	return s
}

// loadAWSConfig builds an aws.Config from settings. When AssumeRole is set the
// base credentials are exchanged for role credentials through STS.
func loadAWSConfig(ctx context.Context, s AWSSettings) (aws.Config, error) {
	var configOpts []func(*awsconfig.LoadOptions) error
	configOpts = append(configOpts, awsconfig.WithRegion(s.Region))

	if s.Profile != "" {
		configOpts = append(configOpts, awsconfig.WithSharedConfigProfile(s.Profile))
	}

	// Use static credentials if provided (for LocalStack/testing)
	if s.AccessKeyID != "" && s.SecretAccessKey != "" {
		configOpts = append(configOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKeyID, s.SecretAccessKey, s.SessionToken),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if s.AssumeRole != "" {
		stsClient := sts.NewFromConfig(cfg, func(o *sts.Options) {
			if s.Endpoint != "" {
				o.BaseEndpoint = aws.String(s.Endpoint)
			}
		})
		roleProvider := stscreds.NewAssumeRoleProvider(stsClient, s.AssumeRole, func(o *stscreds.AssumeRoleOptions) {
			o.RoleSessionName = s.RoleSessionName
			if s.ExternalID != "" {
				o.ExternalID = aws.String(s.ExternalID)
			}
		})
		cfg.Credentials = aws.NewCredentialsCache(roleProvider)
	}

	return cfg, nil
}
