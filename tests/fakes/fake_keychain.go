package fakes

import (
	"sync"

	"github.com/systmms/linepush/internal/providers"
)

// FakeKeychainClient is a test double for providers.KeyringClient
type FakeKeychainClient struct {
	mu sync.Mutex

	// Secrets is a map of service -> account -> value
	Secrets map[string]map[string]string

	// QueryErr is returned by Get() if set (overrides Secrets lookup)
	QueryErr error
}

// NewFakeKeychainClient creates a new fake keychain client
func NewFakeKeychainClient() *FakeKeychainClient {
	return &FakeKeychainClient{
		Secrets: make(map[string]map[string]string),
	}
}

// SetSecret adds a secret to the fake keychain
func (f *FakeKeychainClient) SetSecret(service, account, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Secrets[service] == nil {
		f.Secrets[service] = make(map[string]string)
	}
	f.Secrets[service][account] = value
}

// Get retrieves a secret from the fake keychain
func (f *FakeKeychainClient) Get(service, account string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.QueryErr != nil {
		return "", f.QueryErr
	}
	if accounts, ok := f.Secrets[service]; ok {
		if value, ok := accounts[account]; ok {
			return value, nil
		}
	}
	return "", providers.ErrKeychainItemNotFound
}

var _ providers.KeyringClient = (*FakeKeychainClient)(nil)
