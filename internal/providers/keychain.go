package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/systmms/linepush/pkg/secretstore"
)

// KeyringClient reads items from the OS keychain (macOS Keychain, Linux
// Secret Service, Windows Credential Manager)
type KeyringClient interface {
	Get(service, account string) (string, error)
}

type osKeyring struct{}

func (osKeyring) Get(service, account string) (string, error) {
	secret, err := keyring.Get(service, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrKeychainItemNotFound
		}
		return "", err
	}
	return secret, nil
}

// KeychainStore reads secret payloads from the OS keychain. It is intended
// for local development.
type KeychainStore struct {
	name    string
	service string
	client  KeyringClient
}

// KeychainOption is a functional option for configuring the store
type KeychainOption func(*KeychainStore)

// WithKeyringClient sets a custom keyring client (for testing)
func WithKeyringClient(client KeyringClient) KeychainOption {
	return func(s *KeychainStore) {
		s.client = client
	}
}

// NewKeychainStore creates a keychain store. With a configured service, ids
// name the account; otherwise ids take the form "service/account".
func NewKeychainStore(name string, cfg map[string]interface{}, opts ...KeychainOption) *KeychainStore {
	s := &KeychainStore{
		name:    name,
		service: configString(cfg, "service"),
		client:  osKeyring{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the store name
func (s *KeychainStore) Name() string {
	return s.name
}

// GetSecretString reads the keychain item identified by id
func (s *KeychainStore) GetSecretString(ctx context.Context, id string) (string, error) {
	service, account, err := s.parseID(id)
	if err != nil {
		return "", err
	}

	secret, err := s.client.Get(service, account)
	if err != nil {
		switch {
		case errors.Is(err, ErrKeychainItemNotFound), errors.Is(err, keyring.ErrNotFound):
			return "", secretstore.NotFoundError{Store: s.name, ID: service + "/" + account}
		case errors.Is(err, ErrKeychainAccessDenied):
			return "", authError(s.name, err)
		}
		return "", fmt.Errorf("keychain query error for %s/%s: %w", service, account, err)
	}

	return secret, nil
}

// Validate has nothing to probe without triggering an unlock prompt
func (s *KeychainStore) Validate(ctx context.Context) error {
	if s.client == nil {
		return secretstore.ValidationError{Store: s.name, Message: "keyring client is not initialised"}
	}
	return nil
}

func (s *KeychainStore) parseID(id string) (string, string, error) {
	if err := validateID(s.name, id); err != nil {
		return "", "", err
	}

	if s.service != "" {
		return s.service, id, nil
	}

	service, account, ok := strings.Cut(id, "/")
	if !ok || service == "" || account == "" {
		return "", "", secretstore.ValidationError{
			Store:   s.name,
			Message: fmt.Sprintf("keychain id must be service/account, got %q", id),
		}
	}
	return service, account, nil
}
