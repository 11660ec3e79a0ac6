package secretstore_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/linepush/pkg/secretstore"
)

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "not found",
			err:  secretstore.NotFoundError{Store: "aws", ID: "prod/line"},
			want: "secret not found: prod/line in store aws",
		},
		{
			name: "auth",
			err:  secretstore.AuthError{Store: "aws", Message: "expired token"},
			want: "authentication failed for store aws: expired token",
		},
		{
			name: "validation with store",
			err:  secretstore.ValidationError{Store: "env", Message: "empty id"},
			want: "validation failed for store env: empty id",
		},
		{
			name: "validation without store",
			err:  secretstore.ValidationError{Message: "bad payload"},
			want: "validation failed: bad payload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestExtractField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		payload     string
		path        string
		want        string
		wantErr     bool
		errContains string
	}{
		{
			name:    "top-level key",
			payload: `{"YOUR_CHANNEL_ACCESS_TOKEN": "abc123", "other": "x"}`,
			path:    "YOUR_CHANNEL_ACCESS_TOKEN",
			want:    "abc123",
		},
		{
			name:    "top-level key containing dots is not split",
			payload: `{"line.token": "dotted"}`,
			path:    "line.token",
			want:    "dotted",
		},
		{
			name:    "dotted path",
			payload: `{"line": {"token": "nested"}}`,
			path:    ".line.token",
			want:    "nested",
		},
		{
			name:    "array index",
			payload: `{"tokens": ["first", "second"]}`,
			path:    ".tokens.1",
			want:    "second",
		},
		{
			name:    "number",
			payload: `{"port": 5432}`,
			path:    "port",
			want:    "5432",
		},
		{
			name:    "boolean",
			payload: `{"enabled": true}`,
			path:    "enabled",
			want:    "true",
		},
		{
			name:    "null is empty",
			payload: `{"token": null}`,
			path:    "token",
			want:    "",
		},
		{
			name:    "object is re-encoded",
			payload: `{"cfg": {"k": "v"}}`,
			path:    "cfg",
			want:    `{"k":"v"}`,
		},
		{
			name:        "missing key",
			payload:     `{"other": "x"}`,
			path:        "YOUR_CHANNEL_ACCESS_TOKEN",
			wantErr:     true,
			errContains: "field 'YOUR_CHANNEL_ACCESS_TOKEN' not found",
		},
		{
			name:        "invalid JSON",
			payload:     `plain-text-token`,
			path:        "token",
			wantErr:     true,
			errContains: "not valid JSON",
		},
		{
			name:        "out of range index",
			payload:     `{"tokens": ["only"]}`,
			path:        ".tokens.3",
			wantErr:     true,
			errContains: "invalid array index",
		},
		{
			name:        "navigate into scalar",
			payload:     `{"token": "abc"}`,
			path:        ".token.inner",
			wantErr:     true,
			errContains: "non-object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := secretstore.ExtractField(tt.payload, tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)

				var validationErr secretstore.ValidationError
				assert.True(t, errors.As(err, &validationErr))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
