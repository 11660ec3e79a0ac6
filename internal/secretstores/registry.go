package secretstores

import (
	"context"
	"fmt"
	"time"

	"github.com/systmms/linepush/internal/config"
	"github.com/systmms/linepush/internal/providers"
	"github.com/systmms/linepush/pkg/secretstore"
)

// Registry manages secret store creation from configuration
type Registry struct {
	providerRegistry *providers.Registry
}

// NewRegistry creates a new secret store registry with built-in secret stores
func NewRegistry() *Registry {
	return &Registry{
		providerRegistry: providers.NewRegistry(),
	}
}

// NewRegistryWith wraps an existing provider registry, e.g. one with test factories
func NewRegistryWith(providerRegistry *providers.Registry) *Registry {
	return &Registry{providerRegistry: providerRegistry}
}

// CreateSecretStore creates a secret store instance from configuration. Each
// lookup is bounded by the configured timeout.
func (r *Registry) CreateSecretStore(ctx context.Context, cfg config.SecretStoreConfig) (secretstore.SecretStore, error) {
	if !r.IsSupported(cfg.Type) {
		return nil, fmt.Errorf("unknown secret store type: %s", cfg.Type)
	}

	name := cfg.Name
	if name == "" {
		name = cfg.Type
	}

	store, err := r.providerRegistry.Create(ctx, name, cfg.Type, cfg.Config)
	if err != nil {
		return nil, err
	}

	if cfg.TimeoutMs <= 0 {
		return store, nil
	}
	return &timeoutStore{
		SecretStore: store,
		timeout:     time.Duration(cfg.TimeoutMs) * time.Millisecond,
	}, nil
}

// GetSupportedTypes returns a list of supported secret store types
func (r *Registry) GetSupportedTypes() []string {
	return r.providerRegistry.GetSupportedTypes()
}

// IsSupported checks if a secret store type is supported
func (r *Registry) IsSupported(storeType string) bool {
	return r.providerRegistry.IsSupported(storeType)
}

type timeoutStore struct {
	secretstore.SecretStore
	timeout time.Duration
}

func (s *timeoutStore) GetSecretString(ctx context.Context, id string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.SecretStore.GetSecretString(ctx, id)
}

func (s *timeoutStore) Validate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.SecretStore.Validate(ctx)
}
