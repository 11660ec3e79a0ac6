package secure

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSecureBuffer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     []byte
		wantSize int
	}{
		{
			name:     "creates enclave from bytes",
			data:     []byte("channel-access-token"),
			wantSize: len("channel-access-token"),
		},
		{
			name:     "handles empty data",
			data:     []byte{},
			wantSize: 0,
		},
		{
			name:     "handles binary data",
			data:     []byte{0x00, 0xFF, 0x10, 0x20},
			wantSize: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf, err := NewSecureBuffer(tt.data)
			require.NoError(t, err)
			require.NotNil(t, buf)
			defer buf.Destroy()

			assert.Equal(t, tt.wantSize, buf.Size())
		})
	}
}

func TestSecureBuffer_String(t *testing.T) {
	t.Parallel()

	buf, err := NewSecureString("super-secret-data")
	require.NoError(t, err)
	defer buf.Destroy()

	got, err := buf.String()
	require.NoError(t, err)
	assert.Equal(t, "super-secret-data", got)

	// A second read decrypts again
	again, err := buf.String()
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestSecureBuffer_Open(t *testing.T) {
	t.Parallel()

	buf, err := NewSecureBuffer([]byte("open-me"))
	require.NoError(t, err)
	defer buf.Destroy()

	locked, err := buf.Open()
	require.NoError(t, err)
	defer locked.Destroy()

	assert.Equal(t, []byte("open-me"), locked.Bytes())
}

func TestSecureBuffer_EmptyString(t *testing.T) {
	t.Parallel()

	buf, err := NewSecureString("")
	require.NoError(t, err)

	got, err := buf.String()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSecureBuffer_Destroy(t *testing.T) {
	t.Parallel()

	buf, err := NewSecureString("short-lived")
	require.NoError(t, err)

	buf.Destroy()
	buf.Destroy() // idempotent

	got, err := buf.String()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, buf.Size())
}

func TestSecureBuffer_ConcurrentReads(t *testing.T) {
	t.Parallel()

	buf, err := NewSecureString("shared-token")
	require.NoError(t, err)
	defer buf.Destroy()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := buf.String()
			assert.NoError(t, err)
			assert.Equal(t, "shared-token", got)
		}()
	}
	wg.Wait()
}
