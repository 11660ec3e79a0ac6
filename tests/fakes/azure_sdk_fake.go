package fakes

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
)

// FakeAzureKeyVaultClient is an in-memory Key Vault client
type FakeAzureKeyVaultClient struct {
	mu sync.Mutex

	// Secrets maps "name" or "name/version" to values
	Secrets map[string]string
	// Errors maps secret names to errors to return
	Errors map[string]error
}

// NewFakeAzureKeyVaultClient creates a new mock Azure Key Vault client
func NewFakeAzureKeyVaultClient() *FakeAzureKeyVaultClient {
	return &FakeAzureKeyVaultClient{
		Secrets: make(map[string]string),
		Errors:  make(map[string]error),
	}
}

// AddSecretString adds the latest value of a secret
func (f *FakeAzureKeyVaultClient) AddSecretString(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Secrets[name] = value
}

// AddSecretWithVersion adds a value for a specific version
func (f *FakeAzureKeyVaultClient) AddSecretWithVersion(name, value, version string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Secrets[name+"/"+version] = value
}

// AddError configures the client to fail for a secret
func (f *FakeAzureKeyVaultClient) AddError(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errors[name] = err
}

// GetSecret mocks azsecrets.Client.GetSecret
func (f *FakeAzureKeyVaultClient) GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, exists := f.Errors[name]; exists {
		return azsecrets.GetSecretResponse{}, err
	}

	key := name
	if version != "" {
		key = name + "/" + version
	}

	value, exists := f.Secrets[key]
	if !exists {
		return azsecrets.GetSecretResponse{}, NewAzureResponseError(http.StatusNotFound, "SecretNotFound")
	}

	id := azsecrets.ID(fmt.Sprintf("https://test-vault.vault.azure.net/secrets/%s", key))
	return azsecrets.GetSecretResponse{
		Secret: azsecrets.Secret{
			Value: to.Ptr(value),
			ID:    &id,
		},
	}, nil
}

// NewAzureResponseError builds the error type the Azure SDK returns for HTTP failures
func NewAzureResponseError(statusCode int, errorCode string) *azcore.ResponseError {
	return &azcore.ResponseError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
	}
}
