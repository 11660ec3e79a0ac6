package providers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/linepush/internal/providers"
	"github.com/systmms/linepush/pkg/secretstore"
	"github.com/systmms/linepush/tests/fakes"
)

func TestAWSSSMStoreGetSecretString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  map[string]interface{}
		id      string
		want    string
		wantErr error
	}{
		{
			name: "absolute name",
			id:   "/line/prod/token",
			want: linePayload,
		},
		{
			name:   "relative name with prefix",
			config: map[string]interface{}{"path_prefix": "/line/prod"},
			id:     "token",
			want:   linePayload,
		},
		{
			name:    "missing parameter",
			id:      "/line/prod/other",
			wantErr: secretstore.NotFoundError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := fakes.NewFakeSSMClient()
			client.AddParameter("/line/prod/token", linePayload)

			store, err := providers.NewAWSSSMStore(context.Background(), "ssm", tt.config, providers.WithSSMClient(client))
			require.NoError(t, err)

			got, err := store.GetSecretString(context.Background(), tt.id)
			if tt.wantErr != nil {
				var notFound secretstore.NotFoundError
				assert.True(t, errors.As(err, &notFound))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, aws.ToBool(client.LastInput.WithDecryption))
		})
	}
}

func TestAWSSSMStoreValidate(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeSSMClient()
	store, err := providers.NewAWSSSMStore(context.Background(), "ssm", nil, providers.WithSSMClient(client))
	require.NoError(t, err)
	assert.Equal(t, "ssm", store.Name())
	assert.NoError(t, store.Validate(context.Background()))

	client.DescribeErr = errors.New("ExpiredToken")
	var authErr secretstore.AuthError
	assert.True(t, errors.As(store.Validate(context.Background()), &authErr))
}
