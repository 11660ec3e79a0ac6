package providers

import (
	"context"
	"fmt"
	"sort"

	"github.com/systmms/linepush/pkg/secretstore"
)

// Registry manages secret store creation and registration
type Registry struct {
	factories map[string]StoreFactory
}

// StoreFactory creates a secret store instance from its config block
type StoreFactory func(ctx context.Context, name string, config map[string]interface{}) (secretstore.SecretStore, error)

// NewRegistry creates a new registry with the built-in stores
func NewRegistry() *Registry {
	registry := &Registry{
		factories: make(map[string]StoreFactory),
	}

	registry.RegisterFactory("literal", NewLiteralStoreFactory)
	registry.RegisterFactory("env", NewEnvStoreFactory)
	registry.RegisterFactory("keychain", NewKeychainStoreFactory)
	registry.RegisterFactory("aws.secretsmanager", NewAWSSecretsManagerStoreFactory)
	registry.RegisterFactory("aws.ssm", NewAWSSSMStoreFactory)
	registry.RegisterFactory("gcp.secretmanager", NewGCPSecretManagerStoreFactory)
	registry.RegisterFactory("azure.keyvault", NewAzureKeyVaultStoreFactory)
	registry.RegisterFactory("akeyless", NewAkeylessStoreFactory)

	return registry
}

// RegisterFactory registers a store factory for a given type
func (r *Registry) RegisterFactory(storeType string, factory StoreFactory) {
	r.factories[storeType] = factory
}

// Create creates a store instance of the given type
func (r *Registry) Create(ctx context.Context, name, storeType string, config map[string]interface{}) (secretstore.SecretStore, error) {
	factory, exists := r.factories[storeType]
	if !exists {
		return nil, fmt.Errorf("unknown secret store type: %s", storeType)
	}
	return factory(ctx, name, config)
}

// GetSupportedTypes returns the registered store types in sorted order
func (r *Registry) GetSupportedTypes() []string {
	types := make([]string, 0, len(r.factories))
	for storeType := range r.factories {
		types = append(types, storeType)
	}
	sort.Strings(types)
	return types
}

// IsSupported checks if a store type is registered
func (r *Registry) IsSupported(storeType string) bool {
	_, exists := r.factories[storeType]
	return exists
}

// Factory functions for built-in stores

// NewLiteralStoreFactory creates a literal store from a "values" map
func NewLiteralStoreFactory(_ context.Context, name string, config map[string]interface{}) (secretstore.SecretStore, error) {
	values := make(map[string]string)
	if configMap, ok := config["values"].(map[string]interface{}); ok {
		for k, v := range configMap {
			if str, ok := v.(string); ok {
				values[k] = str
			}
		}
	}
	return NewLiteralStore(name, values), nil
}

// NewEnvStoreFactory creates an environment variable store
func NewEnvStoreFactory(_ context.Context, name string, config map[string]interface{}) (secretstore.SecretStore, error) {
	return NewEnvStore(name, config), nil
}

// NewKeychainStoreFactory creates an OS keychain store
func NewKeychainStoreFactory(_ context.Context, name string, config map[string]interface{}) (secretstore.SecretStore, error) {
	return NewKeychainStore(name, config), nil
}

// NewAWSSecretsManagerStoreFactory creates an AWS Secrets Manager store
func NewAWSSecretsManagerStoreFactory(ctx context.Context, name string, config map[string]interface{}) (secretstore.SecretStore, error) {
	store, err := NewAWSSecretsManagerStore(ctx, name, config)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewAWSSSMStoreFactory creates an AWS SSM Parameter Store store
func NewAWSSSMStoreFactory(ctx context.Context, name string, config map[string]interface{}) (secretstore.SecretStore, error) {
	store, err := NewAWSSSMStore(ctx, name, config)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewGCPSecretManagerStoreFactory creates a GCP Secret Manager store
func NewGCPSecretManagerStoreFactory(ctx context.Context, name string, config map[string]interface{}) (secretstore.SecretStore, error) {
	store, err := NewGCPSecretManagerStore(ctx, name, config)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewAzureKeyVaultStoreFactory creates an Azure Key Vault store
func NewAzureKeyVaultStoreFactory(_ context.Context, name string, config map[string]interface{}) (secretstore.SecretStore, error) {
	store, err := NewAzureKeyVaultStore(name, config)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewAkeylessStoreFactory creates an Akeyless store
func NewAkeylessStoreFactory(_ context.Context, name string, config map[string]interface{}) (secretstore.SecretStore, error) {
	store, err := NewAkeylessStore(name, config)
	if err != nil {
		return nil, err
	}
	return store, nil
}
