package providers

import (
	"context"
	"os"

	"github.com/systmms/linepush/pkg/secretstore"
)

// EnvStore reads secret payloads from environment variables. The id is the
// variable name, optionally prefixed by the configured prefix.
type EnvStore struct {
	name   string
	prefix string
	lookup func(string) (string, bool)
}

// EnvOption is a functional option for configuring the store
type EnvOption func(*EnvStore)

// WithLookupFunc replaces os.LookupEnv (for testing)
func WithLookupFunc(lookup func(string) (string, bool)) EnvOption {
	return func(s *EnvStore) {
		s.lookup = lookup
	}
}

// NewEnvStore creates an environment variable store
func NewEnvStore(name string, cfg map[string]interface{}, opts ...EnvOption) *EnvStore {
	s := &EnvStore{
		name:   name,
		prefix: configString(cfg, "prefix"),
		lookup: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the store name
func (s *EnvStore) Name() string {
	return s.name
}

// GetSecretString returns the value of the variable named by id
func (s *EnvStore) GetSecretString(ctx context.Context, id string) (string, error) {
	if err := validateID(s.name, id); err != nil {
		return "", err
	}

	key := s.prefix + id
	value, ok := s.lookup(key)
	if !ok {
		return "", secretstore.NotFoundError{Store: s.name, ID: key}
	}
	return value, nil
}

// Validate always succeeds
func (s *EnvStore) Validate(ctx context.Context) error {
	return nil
}
