package secretstore

import (
	"context"
)

// SecretStore defines the interface for systems that store and retrieve secrets.
//
// Implementations must be thread-safe and must never log secret payloads.
type SecretStore interface {
	// Name returns the configured name of this store instance.
	Name() string

	// GetSecretString returns the raw payload stored under id.
	//
	// Returns NotFoundError when id does not exist and AuthError when the
	// store rejects the caller's credentials.
	GetSecretString(ctx context.Context, id string) (string, error)

	// Validate checks that the store is reachable and the credentials work.
	Validate(ctx context.Context) error
}

// NotFoundError indicates that a requested secret does not exist in the store.
type NotFoundError struct {
	// Store is the name of the secret store where the secret was not found.
	Store string

	// ID is the secret identifier that could not be found.
	ID string
}

// Error implements the error interface.
func (e NotFoundError) Error() string {
	return "secret not found: " + e.ID + " in store " + e.Store
}

// AuthError indicates that authentication to the secret store failed.
type AuthError struct {
	// Store is the name of the secret store that failed authentication.
	Store string

	// Message provides details about the authentication failure.
	Message string
}

// Error implements the error interface.
func (e AuthError) Error() string {
	return "authentication failed for store " + e.Store + ": " + e.Message
}

// ValidationError indicates that a request or configuration is invalid.
type ValidationError struct {
	// Store is the name of the secret store where validation failed.
	// May be empty for general validation errors.
	Store string

	// Message provides details about what validation failed.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Store == "" {
		return "validation failed: " + e.Message
	}
	return "validation failed for store " + e.Store + ": " + e.Message
}
