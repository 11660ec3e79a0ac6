package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotSent is returned to CLI callers when the messaging API rejected a push
var ErrNotSent = errors.New("message was not delivered")

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// StoreError enhances secret store errors with context
func StoreError(storeType string, operation string, err error) error {
	return UserError{
		Message:    fmt.Sprintf("%s secret store error during %s", storeType, operation),
		Details:    err.Error(),
		Suggestion: getStoreSuggestion(storeType, err),
		Err:        err,
	}
}

// getStoreSuggestion returns helpful suggestions based on store type and error
func getStoreSuggestion(storeType string, err error) string {
	errStr := err.Error()

	switch storeType {
	case "aws.secretsmanager", "aws":
		if strings.Contains(errStr, "AccessDenied") {
			return "Check IAM permissions for secretsmanager:GetSecretValue"
		}
		if strings.Contains(errStr, "ResourceNotFoundException") || strings.Contains(errStr, "not found") {
			return "Verify the secret name and region. List secrets with: 'aws secretsmanager list-secrets'"
		}
		if strings.Contains(errStr, "credentials") {
			return "Configure AWS credentials: 'aws configure' or set AWS_PROFILE"
		}

	case "aws.ssm":
		if strings.Contains(errStr, "ParameterNotFound") || strings.Contains(errStr, "not found") {
			return "Verify the parameter name. List parameters with: 'aws ssm describe-parameters'"
		}
		if strings.Contains(errStr, "AccessDenied") {
			return "Check IAM permissions: ssm:GetParameter and kms:Decrypt (for SecureString)"
		}

	case "gcp.secretmanager", "gcp":
		if strings.Contains(errStr, "PermissionDenied") || strings.Contains(errStr, "Unauthenticated") {
			return "Run 'gcloud auth application-default login' or grant roles/secretmanager.secretAccessor"
		}
		if strings.Contains(errStr, "NotFound") || strings.Contains(errStr, "not found") {
			return "Verify the secret exists: 'gcloud secrets list'"
		}

	case "azure.keyvault", "azure":
		if strings.Contains(errStr, "Forbidden") || strings.Contains(errStr, "authentication failed") {
			return "Grant the identity 'get' permission on secrets in the Key Vault access policy"
		}
		if strings.Contains(errStr, "not found") {
			return "Verify the secret name: 'az keyvault secret list --vault-name <vault>'"
		}

	case "akeyless":
		if strings.Contains(errStr, "authentication") {
			return "Check access_id and access_key for the Akeyless gateway"
		}

	case "keychain":
		if strings.Contains(errStr, "not found") {
			return "Store the payload first, e.g. with 'secret-tool store' or Keychain Access"
		}

	case "env":
		if strings.Contains(errStr, "not found") {
			return "Export the environment variable that holds the secret payload"
		}
	}

	// Generic suggestions
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return "The operation timed out. Check your network connection and try again"
	}
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host") {
		return "Unable to connect. Check your network and secret store configuration"
	}

	return ""
}

// SimplifyError simplifies complex error messages for users
func SimplifyError(err error) error {
	if err == nil {
		return nil
	}

	// Already a user-friendly error
	var userErr UserError
	if errors.As(err, &userErr) {
		return err
	}
	var cfgErr ConfigError
	if errors.As(err, &cfgErr) {
		return err
	}
	if errors.Is(err, ErrNotSent) {
		return err
	}

	// Unwrap to get the root cause
	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}

	errStr := rootErr.Error()

	if strings.Contains(errStr, "permission denied") {
		return UserError{
			Message:    "Permission denied",
			Suggestion: "Check file permissions or run with appropriate privileges",
			Err:        err,
		}
	}

	if strings.Contains(errStr, "no such file or directory") {
		return UserError{
			Message:    "File or directory not found",
			Suggestion: "Verify the path exists and is spelled correctly",
			Err:        err,
		}
	}

	// yaml.v3 errors start with "yaml: "; file names ending in .yaml must not match
	if strings.HasPrefix(errStr, "yaml: ") {
		return ConfigError{
			Message:    "Invalid YAML format",
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}

	return err
}
