package providers

import (
	"context"
	"sync/atomic"

	"github.com/systmms/linepush/pkg/secretstore"
)

// LiteralStore serves payloads from configuration. It doesn't fetch from
// external systems, which makes it useful for tests and demos.
type LiteralStore struct {
	name   string
	values map[string]string
	calls  atomic.Int64
}

// NewLiteralStore creates a new literal store with predefined values
func NewLiteralStore(name string, values map[string]string) *LiteralStore {
	if values == nil {
		values = make(map[string]string)
	}
	return &LiteralStore{
		name:   name,
		values: values,
	}
}

// Name returns the store's name
func (l *LiteralStore) Name() string {
	return l.name
}

// GetSecretString returns the configured value for id
func (l *LiteralStore) GetSecretString(ctx context.Context, id string) (string, error) {
	l.calls.Add(1)

	value, exists := l.values[id]
	if !exists {
		return "", secretstore.NotFoundError{Store: l.name, ID: id}
	}
	return value, nil
}

// Validate always succeeds for the literal store
func (l *LiteralStore) Validate(ctx context.Context) error {
	return nil
}

// Calls reports how many lookups the store has served
func (l *LiteralStore) Calls() int64 {
	return l.calls.Load()
}
