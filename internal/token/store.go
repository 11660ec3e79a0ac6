package token

import (
	"context"
	"fmt"

	"github.com/systmms/linepush/internal/logging"
	"github.com/systmms/linepush/pkg/secretstore"
)

// StoreProvider reads the token from a field of a secret store payload
type StoreProvider struct {
	store    secretstore.SecretStore
	secretID string
	field    string
	logger   *logging.Logger
}

// NewStoreProvider creates a provider for the secret secretID in store. field
// is a top-level key or a dotted path (".line.token") into the JSON payload.
func NewStoreProvider(store secretstore.SecretStore, secretID, field string, logger *logging.Logger) *StoreProvider {
	if logger == nil {
		logger = logging.Discard()
	}
	return &StoreProvider{
		store:    store,
		secretID: secretID,
		field:    field,
		logger:   logger,
	}
}

// SecretID returns the identifier the provider reads
func (p *StoreProvider) SecretID() string {
	return p.secretID
}

// Resolve fetches and extracts the token. An unset secret identifier yields
// the absent token without touching the store.
func (p *StoreProvider) Resolve(ctx context.Context) (Token, error) {
	if p.secretID == "" {
		p.logger.Warn("Secret identifier not configured; channel access token is absent")
		return Absent(), nil
	}

	p.logger.Debug("Fetching channel access token from %s", p.store.Name())

	payload, err := p.store.GetSecretString(ctx, p.secretID)
	if err != nil {
		return Token{}, fmt.Errorf("failed to read secret %q from %s: %w", p.secretID, p.store.Name(), err)
	}

	value, err := secretstore.ExtractField(payload, p.field)
	if err != nil {
		return Token{}, fmt.Errorf("failed to extract %q from secret %q: %w", p.field, p.secretID, err)
	}

	if value == "" {
		p.logger.Warn("Secret %q has an empty %s", p.secretID, p.field)
		return Absent(), nil
	}

	return New(value), nil
}
