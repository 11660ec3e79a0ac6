package providers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/impersonate"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	dserrors "github.com/systmms/linepush/internal/errors"
	"github.com/systmms/linepush/pkg/secretstore"
)

// GCPSecretManagerClientAPI is the subset of the Secret Manager client used by the store
type GCPSecretManagerClientAPI interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
	Close() error
}

// GCPSecretManagerConfig holds GCP Secret Manager-specific configuration
type GCPSecretManagerConfig struct {
	ProjectID             string
	ServiceAccountKeyPath string
	ImpersonateAccount    string
}

// GCPSecretManagerStore reads secret payloads from Google Cloud Secret Manager
type GCPSecretManagerStore struct {
	name   string
	client GCPSecretManagerClientAPI
	config GCPSecretManagerConfig
}

// GCPOption is a functional option for configuring the store
type GCPOption func(*GCPSecretManagerStore)

// WithGCPSecretManagerClient sets a custom Secret Manager client (for testing)
func WithGCPSecretManagerClient(client GCPSecretManagerClientAPI) GCPOption {
	return func(s *GCPSecretManagerStore) {
		s.client = client
	}
}

// NewGCPSecretManagerStore creates a new GCP Secret Manager store
func NewGCPSecretManagerStore(ctx context.Context, name string, cfg map[string]interface{}, opts ...GCPOption) (*GCPSecretManagerStore, error) {
	config := GCPSecretManagerConfig{
		ProjectID:             configString(cfg, "project_id"),
		ServiceAccountKeyPath: configString(cfg, "service_account_key_path"),
		ImpersonateAccount:    configString(cfg, "impersonate_service_account"),
	}

	if config.ProjectID == "" {
		config.ProjectID = gcpProjectFromEnv()
	}
	if config.ProjectID == "" {
		return nil, dserrors.ConfigError{
			Field:      "secretStore.project_id",
			Message:    "project_id is required for GCP Secret Manager",
			Suggestion: "Set project_id in config or GOOGLE_CLOUD_PROJECT environment variable",
		}
	}

	s := &GCPSecretManagerStore{
		name:   name,
		config: config,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		client, err := createGCPSecretManagerClient(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("failed to create GCP Secret Manager client: %w", err)
		}
		s.client = client
	}

	return s, nil
}

func createGCPSecretManagerClient(ctx context.Context, config GCPSecretManagerConfig) (*secretmanager.Client, error) {
	var clientOptions []option.ClientOption

	if config.ServiceAccountKeyPath != "" {
		keyPath := config.ServiceAccountKeyPath
		if strings.HasPrefix(keyPath, "~/") {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get home directory: %w", err)
			}
			keyPath = filepath.Join(home, keyPath[2:])
		}
		clientOptions = append(clientOptions, option.WithCredentialsFile(keyPath))
	}

	if config.ImpersonateAccount != "" {
		ts, err := impersonate.CredentialsTokenSource(ctx, impersonate.CredentialsConfig{
			TargetPrincipal: config.ImpersonateAccount,
			Scopes:          []string{"https://www.googleapis.com/auth/cloud-platform"},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create impersonated credentials: %w", err)
		}
		clientOptions = append(clientOptions, option.WithTokenSource(ts))
	}

	return secretmanager.NewClient(ctx, clientOptions...)
}

func gcpProjectFromEnv() string {
	for _, key := range []string{"GOOGLE_CLOUD_PROJECT", "GCLOUD_PROJECT", "GCP_PROJECT"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// Name returns the store name
func (s *GCPSecretManagerStore) Name() string {
	return s.name
}

// GetSecretString accesses a secret version. id is a short secret name
// ("line-token"), a name with version ("line-token:3") or a full resource name.
func (s *GCPSecretManagerStore) GetSecretString(ctx context.Context, id string) (string, error) {
	if err := validateID(s.name, id); err != nil {
		return "", err
	}

	resourceName := s.resourceName(id)
	result, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: resourceName,
	})
	if err != nil {
		switch status.Code(err) {
		case codes.NotFound:
			return "", secretstore.NotFoundError{Store: s.name, ID: resourceName}
		case codes.PermissionDenied, codes.Unauthenticated:
			return "", authError(s.name, err)
		}
		return "", fmt.Errorf("GCP Secret Manager error: %w", err)
	}

	if result.GetPayload() == nil || result.GetPayload().GetData() == nil {
		return "", fmt.Errorf("secret '%s' has no data", resourceName)
	}

	return string(result.GetPayload().GetData()), nil
}

// Validate checks the store has a project and a client. Secret Manager has no
// cheap credential probe that does not also require list permission.
func (s *GCPSecretManagerStore) Validate(ctx context.Context) error {
	if s.config.ProjectID == "" {
		return secretstore.ValidationError{Store: s.name, Message: "project_id is not set"}
	}
	if s.client == nil {
		return secretstore.ValidationError{Store: s.name, Message: "client is not initialised"}
	}
	return nil
}

// Close releases the underlying gRPC connection
func (s *GCPSecretManagerStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *GCPSecretManagerStore) resourceName(id string) string {
	if strings.HasPrefix(id, "projects/") {
		if strings.Contains(id, "/versions/") {
			return id
		}
		return id + "/versions/latest"
	}

	secretName, version := id, "latest"
	if idx := strings.LastIndex(id, ":"); idx != -1 {
		secretName, version = id[:idx], id[idx+1:]
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/%s", s.config.ProjectID, secretName, version)
}
