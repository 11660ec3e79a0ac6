package token

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/systmms/linepush/internal/logging"
	"github.com/systmms/linepush/internal/secure"
)

// Cache memoises the first successful resolution of a Provider for the life
// of the process. Concurrent first calls share a single lookup.
type Cache struct {
	provider Provider
	logger   *logging.Logger
	group    singleflight.Group

	mu       sync.RWMutex
	resolved bool
	present  bool
	value    *secure.SecureBuffer
	// plain is used only when the enclave could not be created
	plain string
}

// NewCache wraps provider with a process-lifetime cache
func NewCache(provider Provider, logger *logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Discard()
	}
	InitMetrics()
	return &Cache{
		provider: provider,
		logger:   logger,
	}
}

// Resolve returns the cached token, resolving it on first use
func (c *Cache) Resolve(ctx context.Context) (Token, error) {
	if tok, ok := c.cached(); ok {
		return tok, nil
	}

	// The lookup outlives any single caller; each caller waits on its own ctx.
	lookupCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("token", func() (interface{}, error) {
		// Another flight may have filled the cache while we waited.
		if tok, ok := c.cached(); ok {
			return tok, nil
		}

		tok, err := c.provider.Resolve(lookupCtx)
		if err != nil {
			recordLookup(lookupError)
			return Token{}, err
		}

		if err := c.store(tok); err != nil {
			c.logger.Warn("Could not protect cached token in memory: %v", err)
		}

		if tok.Present() {
			recordLookup(lookupFound)
		} else {
			recordLookup(lookupAbsent)
		}
		return tok, nil
	})

	select {
	case <-ctx.Done():
		return Token{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Token{}, res.Err
		}
		if res.Shared {
			c.logger.Debug("Shared in-flight token lookup")
		}
		return res.Val.(Token), nil
	}
}

// Resolved reports whether the cache holds a result
func (c *Cache) Resolved() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resolved
}

func (c *Cache) cached() (Token, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.resolved {
		return Token{}, false
	}
	if !c.present {
		return Absent(), true
	}

	if c.value == nil {
		return New(c.plain), true
	}

	value, err := c.value.String()
	if err != nil {
		c.logger.Error("Failed to open cached token: %v", err)
		return Token{}, false
	}
	return New(value), true
}

// store records tok. When the secure enclave cannot be created the token is
// kept in ordinary memory and the resolution still counts.
func (c *Cache) store(tok Token) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resolved = true
	c.present = tok.Present()
	if !tok.Present() {
		return nil
	}

	buf, err := secure.NewSecureString(tok.Value())
	if err != nil {
		c.plain = tok.Value()
		return err
	}
	c.value = buf
	return nil
}
