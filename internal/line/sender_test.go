package line_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/linepush/internal/line"
	"github.com/systmms/linepush/internal/logging"
	"github.com/systmms/linepush/internal/providers"
	"github.com/systmms/linepush/internal/token"
)

type capturedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          map[string]interface{}
}

// newLineServer starts a fake push endpoint that replies with status and body
func newLineServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32, chan capturedRequest) {
	t.Helper()

	var hits atomic.Int32
	requests := make(chan capturedRequest, 16)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		raw, _ := io.ReadAll(r.Body)
		var decoded map[string]interface{}
		_ = json.Unmarshal(raw, &decoded)

		requests <- capturedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          decoded,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server, &hits, requests
}

func TestSendContentMessage(t *testing.T) {
	t.Parallel()

	server, hits, requests := newLineServer(t, http.StatusOK, `{}`)
	sender := line.NewSender(token.Static("abc123"), logging.Discard(), line.Config{BaseURL: server.URL})

	ok, err := sender.Send(context.Background(), "U4af4980629", line.Message{Type: line.TypeText, Content: "hello"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(1), hits.Load())

	req := <-requests
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/v2/bot/message/push", req.Path)
	assert.Equal(t, "Bearer abc123", req.Authorization)
	assert.Equal(t, "application/json", req.ContentType)
	assert.Equal(t, map[string]interface{}{
		"to": "U4af4980629",
		"messages": []interface{}{
			map[string]interface{}{"type": "text", "text": "hello"},
		},
	}, req.Body)
}

func TestSendIgnoresEvents(t *testing.T) {
	t.Parallel()

	server, hits, _ := newLineServer(t, http.StatusOK, `{}`)

	var resolved atomic.Int32
	tokens := token.ProviderFunc(func(context.Context) (token.Token, error) {
		resolved.Add(1)
		return token.New("abc123"), nil
	})
	sender := line.NewSender(tokens, logging.Discard(), line.Config{BaseURL: server.URL})

	ok, err := sender.Send(context.Background(), "U4af4980629", line.Message{Type: line.TypeEvent, Content: "participant joined"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int32(0), hits.Load(), "events must not reach the network")
	assert.Equal(t, int32(0), resolved.Load(), "events must not resolve a token")
}

func TestSendResponseHandling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		want    bool
		wantErr bool
		wantLog string
	}{
		{name: "empty object", status: http.StatusOK, body: `{}`, want: true},
		{name: "sent messages", status: http.StatusOK, body: `{"sentMessages":[{"id":"461230966842064897"}]}`, want: true},
		{name: "error field", status: http.StatusOK, body: `{"error":"invalid_request"}`, want: false, wantLog: "rejected"},
		{name: "error field with 4xx", status: http.StatusUnauthorized, body: `{"error":"invalid_token","error_description":"expired"}`, want: false, wantLog: "rejected"},
		{name: "null error field", status: http.StatusOK, body: `{"error":null}`, want: false},
		{name: "non-2xx without error field", status: http.StatusBadRequest, body: `{"message":"The request body has 1 error(s)"}`, want: true, wantLog: "status 400"},
		{name: "not json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantErr: true},
		{name: "json array", status: http.StatusOK, body: `[]`, wantErr: true},
		{name: "json null", status: http.StatusInternalServerError, body: `null`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server, _, _ := newLineServer(t, tt.status, tt.body)
			var logs bytes.Buffer
			sender := line.NewSender(token.Static("abc123"), logging.NewWithWriter(&logs, true, true), line.Config{BaseURL: server.URL})

			ok, err := sender.Send(context.Background(), "U1", line.Message{Type: line.TypeText, Content: "hi"})
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, ok)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			if tt.wantLog != "" {
				assert.Contains(t, logs.String(), tt.wantLog)
			}
			assert.NotContains(t, logs.String(), "abc123")
		})
	}
}

func TestSendWithAbsentToken(t *testing.T) {
	t.Parallel()

	server, hits, requests := newLineServer(t, http.StatusUnauthorized, `{"message":"Authentication failed"}`)

	var logs bytes.Buffer
	store := providers.NewLiteralStore("literal", nil)
	tokens := token.NewCache(token.NewStoreProvider(store, "", "YOUR_CHANNEL_ACCESS_TOKEN", logging.Discard()), nil)
	sender := line.NewSender(tokens, logging.NewWithWriter(&logs, false, true), line.Config{BaseURL: server.URL})

	assert.NotPanics(t, func() {
		_, err := sender.Send(context.Background(), "U1", line.Message{Type: line.TypeText, Content: "hi"})
		assert.NoError(t, err)
	})

	assert.Equal(t, int32(1), hits.Load(), "call is still attempted")
	assert.Equal(t, "Bearer", (<-requests).Authorization[:6])
	assert.Contains(t, logs.String(), "Channel access token not found")
	assert.Equal(t, int64(0), store.Calls())
}

func TestSendSendsEmptyBearerValue(t *testing.T) {
	t.Parallel()

	var header atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header.Store(r.Header.Values("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	sender := line.NewSender(token.None(), logging.Discard(), line.Config{BaseURL: server.URL})
	_, err := sender.Send(context.Background(), "U1", line.Message{Type: line.TypeText, Content: "hi"})
	require.NoError(t, err)

	values := header.Load().([]string)
	require.Len(t, values, 1)
	assert.Contains(t, []string{"Bearer ", "Bearer"}, values[0])
}

func TestSendTokenResolutionError(t *testing.T) {
	t.Parallel()

	server, hits, _ := newLineServer(t, http.StatusOK, `{}`)
	tokens := token.ProviderFunc(func(context.Context) (token.Token, error) {
		return token.Token{}, errors.New("secrets manager unavailable")
	})
	sender := line.NewSender(tokens, logging.Discard(), line.Config{BaseURL: server.URL})

	ok, err := sender.Send(context.Background(), "U1", line.Message{Type: line.TypeText, Content: "hi"})
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "secrets manager unavailable")
	assert.Equal(t, int32(0), hits.Load())
}

func TestSendTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	sender := line.NewSender(token.Static("abc123"), logging.Discard(), line.Config{BaseURL: baseURL})
	ok, err := sender.Send(context.Background(), "U1", line.Message{Type: line.TypeText, Content: "hi"})
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "request failed")
}

func TestSendTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	sender := line.NewSender(token.Static("abc123"), logging.Discard(), line.Config{
		BaseURL: server.URL,
		Timeout: 50 * time.Millisecond,
	})

	ok, err := sender.Send(context.Background(), "U1", line.Message{Type: line.TypeText, Content: "hi"})
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestSendQueriesSecretStoreOnce(t *testing.T) {
	t.Parallel()

	server, hits, _ := newLineServer(t, http.StatusOK, `{}`)
	store := providers.NewLiteralStore("literal", map[string]string{
		"prod/line": `{"YOUR_CHANNEL_ACCESS_TOKEN": "abc123"}`,
	})
	tokens := token.NewCache(token.NewStoreProvider(store, "prod/line", "YOUR_CHANNEL_ACCESS_TOKEN", nil), nil)
	sender := line.NewSender(tokens, logging.Discard(), line.Config{BaseURL: server.URL})

	for i := 0; i < 3; i++ {
		ok, err := sender.Send(context.Background(), "U1", line.Message{Type: line.TypeText, Content: "hi"})
		require.NoError(t, err)
		assert.True(t, ok)
	}

	assert.Equal(t, int64(1), store.Calls())
	assert.Equal(t, int32(3), hits.Load())
}

func TestSenderMetadata(t *testing.T) {
	t.Parallel()

	sender := line.NewSender(token.Static("abc123"), nil, line.Config{BaseURL: "https://api.line.me/"})
	assert.Equal(t, "line", sender.Name())
	assert.Equal(t, "https://api.line.me/v2/bot/message/push", sender.Endpoint())
	assert.True(t, sender.SupportsMessage(line.TypeText))
	assert.True(t, sender.SupportsMessage("IMAGE"))
	assert.False(t, sender.SupportsMessage(line.TypeEvent))
	assert.NoError(t, sender.Validate(context.Background()))

	defaults := line.NewSender(token.None(), nil, line.Config{})
	assert.Equal(t, line.DefaultBaseURL+line.PushPath, defaults.Endpoint())

	bad := line.NewSender(token.None(), nil, line.Config{BaseURL: "ftp://example.com"})
	assert.Error(t, bad.Validate(context.Background()))
}

func TestSendWithoutProviderSendsAbsentToken(t *testing.T) {
	t.Parallel()

	server, hits, requests := newLineServer(t, http.StatusOK, `{}`)
	sender := line.NewSender(nil, nil, line.Config{BaseURL: server.URL})
	require.NoError(t, sender.Validate(context.Background()))

	ok, err := sender.Send(context.Background(), "U1", line.Message{Type: line.TypeText, Content: "hi"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(1), hits.Load())

	req := <-requests
	assert.Equal(t, "Bearer", req.Authorization)
}

func TestSendRecordsMetrics(t *testing.T) {
	t.Parallel()

	server, _, _ := newLineServer(t, http.StatusOK, `{}`)
	sender := line.NewSender(token.Static("abc123"), nil, line.Config{BaseURL: server.URL})
	counter := line.GetMessagesCounter()
	require.NotNil(t, counter)

	before := testutil.ToFloat64(counter.WithLabelValues("ignored"))
	_, _ = sender.Send(context.Background(), "U1", line.Message{Type: line.TypeEvent})
	assert.GreaterOrEqual(t, testutil.ToFloat64(counter.WithLabelValues("ignored")), before+1)
}

func TestMessageJSON(t *testing.T) {
	t.Parallel()

	var msg line.Message
	require.NoError(t, json.Unmarshal([]byte(`{"Type":"EVENT","Content":"typing"}`), &msg))
	assert.True(t, msg.IsEvent())
	assert.Equal(t, "typing", msg.Content)
}
