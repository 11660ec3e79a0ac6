package secure

import (
	"fmt"
	"sync"

	"github.com/awnumar/memguard"
)

// SecureBuffer provides memory-safe storage for sensitive data.
// It wraps memguard.Enclave so the value is encrypted while not in use.
// A buffer created from empty data holds no enclave and opens to an empty value.
type SecureBuffer struct {
	mu        sync.RWMutex
	enclave   *memguard.Enclave
	destroyed bool
}

// NewSecureBuffer creates a protected buffer from secret bytes.
// memguard wipes data after sealing it; pass a copy if the caller still needs it.
func NewSecureBuffer(data []byte) (*SecureBuffer, error) {
	if len(data) == 0 {
		return &SecureBuffer{}, nil
	}

	enclave := memguard.NewEnclave(data)
	if enclave == nil {
		return nil, fmt.Errorf("failed to seal secret in enclave")
	}

	return &SecureBuffer{enclave: enclave}, nil
}

// NewSecureString seals a copy of s.
func NewSecureString(s string) (*SecureBuffer, error) {
	return NewSecureBuffer([]byte(s))
}

// Open decrypts and returns the protected data in a locked buffer.
// The caller MUST call Destroy() on the returned LockedBuffer when done.
func (s *SecureBuffer) Open() (*memguard.LockedBuffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.destroyed || s.enclave == nil {
		return memguard.NewBufferFromBytes([]byte{}), nil
	}

	return s.enclave.Open()
}

// String decrypts the value and returns a Go string copy of it.
func (s *SecureBuffer) String() (string, error) {
	locked, err := s.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open enclave: %w", err)
	}
	defer locked.Destroy()

	return string(locked.Bytes()), nil
}

// Size returns the plaintext length, or 0 when empty or destroyed.
func (s *SecureBuffer) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.destroyed || s.enclave == nil {
		return 0
	}
	return s.enclave.Size()
}

// Destroy drops the enclave. It is idempotent; Open returns an empty buffer afterwards.
func (s *SecureBuffer) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return
	}
	s.enclave = nil
	s.destroyed = true
}

// Purge wipes all memguard key material. Call once at process exit.
func Purge() {
	memguard.Purge()
}
