package providers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/systmms/linepush/internal/providers"
	"github.com/systmms/linepush/pkg/secretstore"
	"github.com/systmms/linepush/tests/fakes"
)

func TestKeychainStoreGetSecretString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  map[string]interface{}
		id      string
		want    string
		wantErr interface{}
	}{
		{name: "service and account", id: "linepush/prod", want: linePayload},
		{name: "configured service", config: map[string]interface{}{"service": "linepush"}, id: "prod", want: linePayload},
		{name: "missing item", id: "linepush/staging", wantErr: &secretstore.NotFoundError{}},
		{name: "malformed id", id: "prod", wantErr: &secretstore.ValidationError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := fakes.NewFakeKeychainClient()
			client.SetSecret("linepush", "prod", linePayload)
			store := providers.NewKeychainStore("keychain", tt.config, providers.WithKeyringClient(client))

			got, err := store.GetSecretString(context.Background(), tt.id)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.As(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeychainStoreAccessDenied(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeKeychainClient()
	client.QueryErr = providers.ErrKeychainAccessDenied
	store := providers.NewKeychainStore("keychain", nil, providers.WithKeyringClient(client))

	_, err := store.GetSecretString(context.Background(), "linepush/prod")
	var authErr secretstore.AuthError
	assert.True(t, errors.As(err, &authErr))
}

// Uses the go-keyring in-memory backend, which is process global.
func TestKeychainStoreWithMockKeyring(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set("linepush", "prod", linePayload))

	store := providers.NewKeychainStore("keychain", nil)
	got, err := store.GetSecretString(context.Background(), "linepush/prod")
	require.NoError(t, err)
	assert.Equal(t, linePayload, got)

	_, err = store.GetSecretString(context.Background(), "linepush/missing")
	var notFound secretstore.NotFoundError
	assert.True(t, errors.As(err, &notFound))

	assert.NoError(t, store.Validate(context.Background()))
}
