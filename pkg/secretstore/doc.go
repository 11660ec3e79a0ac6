// Package secretstore defines the contract between linepush and the systems
// that hold its credentials.
//
// A SecretStore maps a secret identifier (a Secrets Manager name, an SSM
// parameter, a Key Vault secret, an environment variable, ...) to the raw
// payload stored under it. Payloads are usually JSON objects; ExtractField
// pulls a single value, such as the channel access token, out of one:
//
//	payload, err := store.GetSecretString(ctx, "prod/line")
//	if err != nil {
//	    return err
//	}
//	token, err := secretstore.ExtractField(payload, "YOUR_CHANNEL_ACCESS_TOKEN")
//
// # Error Handling
//
// Implementations report failures with the error types in this package:
//   - NotFoundError when the identifier does not exist
//   - AuthError when credentials are missing, invalid or lack permission
//   - ValidationError for malformed identifiers or configuration
//
// Anything else (network failures, throttling) is returned wrapped with %w.
//
// # Concurrency
//
// Implementations must be safe for concurrent use. Callers that want a value
// fetched only once wrap the store in a cache (see internal/token).
package secretstore
