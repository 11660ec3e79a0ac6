package fakes

import (
	"context"
	"sync"

	"github.com/systmms/linepush/internal/providers"
)

// FakeAkeylessClient is a test double for providers.AkeylessClient
type FakeAkeylessClient struct {
	mu sync.Mutex

	// Token is the token returned by Authenticate
	Token string

	// Secrets is a map of path to value
	Secrets map[string]string

	// AuthErr is returned by Authenticate if set
	AuthErr error

	// GetErr is returned by GetSecretValue if set (overrides Secrets lookup)
	GetErr error

	// AuthCallCount tracks how many times Authenticate was called
	AuthCallCount int

	// GetCallCount tracks how many times GetSecretValue was called
	GetCallCount int

	// LastToken is the token passed to the most recent GetSecretValue
	LastToken string
}

// NewFakeAkeylessClient creates a new fake Akeyless client with defaults
func NewFakeAkeylessClient() *FakeAkeylessClient {
	return &FakeAkeylessClient{
		Token:   "fake-akeyless-token",
		Secrets: make(map[string]string),
	}
}

// SetSecret adds a secret to the fake Akeyless
func (f *FakeAkeylessClient) SetSecret(path, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Secrets[path] = value
}

// Authenticate returns the configured token
func (f *FakeAkeylessClient) Authenticate(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.AuthCallCount++
	if f.AuthErr != nil {
		return "", f.AuthErr
	}
	return f.Token, nil
}

// GetSecretValue returns the configured secret
func (f *FakeAkeylessClient) GetSecretValue(ctx context.Context, token, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.GetCallCount++
	f.LastToken = token
	if f.GetErr != nil {
		return "", f.GetErr
	}

	value, ok := f.Secrets[path]
	if !ok {
		return "", providers.ErrAkeylessSecretNotFound
	}
	return value, nil
}

var _ providers.AkeylessClient = (*FakeAkeylessClient)(nil)
