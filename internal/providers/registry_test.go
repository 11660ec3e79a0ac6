package providers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/linepush/internal/providers"
	"github.com/systmms/linepush/pkg/secretstore"
)

func TestRegistrySupportedTypes(t *testing.T) {
	t.Parallel()

	registry := providers.NewRegistry()
	assert.Equal(t, []string{
		"akeyless",
		"aws.secretsmanager",
		"aws.ssm",
		"azure.keyvault",
		"env",
		"gcp.secretmanager",
		"keychain",
		"literal",
	}, registry.GetSupportedTypes())

	assert.True(t, registry.IsSupported("aws.secretsmanager"))
	assert.False(t, registry.IsSupported("vault"))
}

func TestRegistryCreate(t *testing.T) {
	t.Parallel()

	registry := providers.NewRegistry()

	store, err := registry.Create(context.Background(), "fixtures", "literal", map[string]interface{}{
		"values": map[string]interface{}{"prod/line": linePayload, "ignored": 42},
	})
	require.NoError(t, err)
	assert.Equal(t, "fixtures", store.Name())

	got, err := store.GetSecretString(context.Background(), "prod/line")
	require.NoError(t, err)
	assert.Equal(t, linePayload, got)

	_, err = store.GetSecretString(context.Background(), "ignored")
	assert.Error(t, err)

	_, err = registry.Create(context.Background(), "x", "vault", nil)
	assert.EqualError(t, err, "unknown secret store type: vault")

	_, err = registry.Create(context.Background(), "akeyless", "akeyless", map[string]interface{}{})
	assert.Error(t, err)
}

func TestRegistryCustomFactory(t *testing.T) {
	t.Parallel()

	registry := providers.NewRegistry()
	registry.RegisterFactory("fixture", func(_ context.Context, name string, _ map[string]interface{}) (secretstore.SecretStore, error) {
		return providers.NewLiteralStore(name, map[string]string{"id": "payload"}), nil
	})

	store, err := registry.Create(context.Background(), "f", "fixture", nil)
	require.NoError(t, err)
	got, err := store.GetSecretString(context.Background(), "id")
	require.NoError(t, err)
	assert.Equal(t, "payload", got)
}
