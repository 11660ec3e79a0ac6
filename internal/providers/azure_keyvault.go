package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"

	dserrors "github.com/systmms/linepush/internal/errors"
	"github.com/systmms/linepush/pkg/secretstore"
)

// AzureKeyVaultClientAPI defines the interface for Azure Key Vault operations
// This allows for mocking in tests
type AzureKeyVaultClientAPI interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

// AzureKeyVaultConfig holds Azure Key Vault-specific configuration
type AzureKeyVaultConfig struct {
	VaultURL           string
	TenantID           string
	ClientID           string
	ClientSecret       string
	UseManagedIdentity bool
	UserAssignedID     string // For user-assigned managed identity
}

// AzureKeyVaultStore reads secret payloads from Azure Key Vault
type AzureKeyVaultStore struct {
	name   string
	client AzureKeyVaultClientAPI
	config AzureKeyVaultConfig
}

// AzureOption is a functional option for configuring the store
type AzureOption func(*AzureKeyVaultStore)

// WithAzureKeyVaultClient sets a custom Azure Key Vault client (for testing)
func WithAzureKeyVaultClient(client AzureKeyVaultClientAPI) AzureOption {
	return func(s *AzureKeyVaultStore) {
		s.client = client
	}
}

// NewAzureKeyVaultStore creates a new Azure Key Vault store
func NewAzureKeyVaultStore(name string, cfg map[string]interface{}, opts ...AzureOption) (*AzureKeyVaultStore, error) {
	config := AzureKeyVaultConfig{
		VaultURL:     configString(cfg, "vault_url"),
		TenantID:     configString(cfg, "tenant_id"),
		ClientID:     configString(cfg, "client_id"),
		ClientSecret: configString(cfg, "client_secret"),
		// Default to managed identity
		UseManagedIdentity: configBool(cfg, "use_managed_identity", true),
		UserAssignedID:     configString(cfg, "user_assigned_identity_id"),
	}

	if config.VaultURL == "" {
		return nil, dserrors.ConfigError{
			Field:      "secretStore.vault_url",
			Message:    "vault_url is required for Azure Key Vault",
			Suggestion: "Provide the Key Vault URL (e.g., https://my-vault.vault.azure.net/)",
		}
	}
	if u, err := url.Parse(config.VaultURL); err != nil || u.Scheme != "https" || u.Host == "" {
		return nil, dserrors.ConfigError{
			Field:      "secretStore.vault_url",
			Value:      config.VaultURL,
			Message:    "Invalid vault_url format",
			Suggestion: "Use format: https://vault-name.vault.azure.net/",
		}
	}

	s := &AzureKeyVaultStore{
		name:   name,
		config: config,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		client, err := createAzureKeyVaultClient(config)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Key Vault client: %w", err)
		}
		s.client = client
	}

	return s, nil
}

func createAzureKeyVaultClient(config AzureKeyVaultConfig) (*azsecrets.Client, error) {
	var cred azcore.TokenCredential
	var err error

	switch {
	case config.ClientSecret != "":
		cred, err = azidentity.NewClientSecretCredential(config.TenantID, config.ClientID, config.ClientSecret, nil)
	case config.UseManagedIdentity && config.UserAssignedID != "":
		cred, err = azidentity.NewManagedIdentityCredential(&azidentity.ManagedIdentityCredentialOptions{
			ID: azidentity.ClientID(config.UserAssignedID),
		})
	case config.UseManagedIdentity:
		cred, err = azidentity.NewManagedIdentityCredential(nil)
	default:
		// Azure CLI, environment or workload identity
		cred, err = azidentity.NewDefaultAzureCredential(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	return azsecrets.NewClient(config.VaultURL, cred, nil)
}

// Name returns the store name
func (s *AzureKeyVaultStore) Name() string {
	return s.name
}

// GetSecretString fetches a secret. id is "name" or "name/version".
func (s *AzureKeyVaultStore) GetSecretString(ctx context.Context, id string) (string, error) {
	if err := validateID(s.name, id); err != nil {
		return "", err
	}

	secretName, version, _ := strings.Cut(id, "/")

	resp, err := s.client.GetSecret(ctx, secretName, version, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) {
			switch respErr.StatusCode {
			case http.StatusNotFound:
				return "", secretstore.NotFoundError{Store: s.name, ID: id}
			case http.StatusUnauthorized, http.StatusForbidden:
				return "", secretstore.AuthError{
					Store:   s.name,
					Message: fmt.Sprintf("Key Vault returned %d %s", respErr.StatusCode, respErr.ErrorCode),
				}
			}
		}
		return "", fmt.Errorf("Azure Key Vault error: %w", err)
	}

	if resp.Value == nil {
		return "", fmt.Errorf("secret '%s' has no value", id)
	}
	return *resp.Value, nil
}

// Validate checks the vault URL and client
func (s *AzureKeyVaultStore) Validate(ctx context.Context) error {
	if s.client == nil {
		return secretstore.ValidationError{Store: s.name, Message: "client is not initialised"}
	}
	return nil
}
