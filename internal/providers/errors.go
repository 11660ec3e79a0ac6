package providers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/systmms/linepush/pkg/secretstore"
)

// Keychain sentinel errors
var (
	ErrKeychainItemNotFound = errors.New("keychain item not found")
	ErrKeychainAccessDenied = errors.New("keychain access denied")
)

// Akeyless sentinel errors
var (
	ErrAkeylessSecretNotFound = errors.New("akeyless secret not found")
	ErrAkeylessUnauthorized   = errors.New("akeyless unauthorized")
)

// AkeylessError wraps Akeyless SDK errors with context
type AkeylessError struct {
	Op   string // Operation: "auth", "fetch"
	Path string
	Err  error
}

func (e *AkeylessError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("akeyless %s error for %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("akeyless %s error: %v", e.Op, e.Err)
}

func (e *AkeylessError) Unwrap() error {
	return e.Err
}

// isAuthFailure matches the messages cloud SDKs use for credential problems
// when no typed error is available.
func isAuthFailure(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "AccessDenied") ||
		strings.Contains(errStr, "UnauthorizedOperation") ||
		strings.Contains(errStr, "InvalidUserID") ||
		strings.Contains(errStr, "UnrecognizedClientException") ||
		strings.Contains(errStr, "ExpiredToken") ||
		strings.Contains(errStr, "Forbidden") ||
		strings.Contains(errStr, "failed to retrieve credentials")
}

func authError(store string, err error) secretstore.AuthError {
	return secretstore.AuthError{Store: store, Message: err.Error()}
}

// configString reads an optional string key from a store config block.
func configString(cfg map[string]interface{}, key string) string {
	if cfg == nil {
		return ""
	}
	if s, ok := cfg[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// configBool reads an optional boolean key, returning def when absent.
func configBool(cfg map[string]interface{}, key string, def bool) bool {
	if cfg == nil {
		return def
	}
	if b, ok := cfg[key].(bool); ok {
		return b
	}
	return def
}

func validateID(store, id string) error {
	if strings.TrimSpace(id) == "" {
		return secretstore.ValidationError{Store: store, Message: "secret identifier is empty"}
	}
	return nil
}
