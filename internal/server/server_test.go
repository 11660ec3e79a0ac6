package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/linepush/internal/line"
	"github.com/systmms/linepush/internal/logging"
	"github.com/systmms/linepush/internal/server"
	"github.com/systmms/linepush/internal/token"
)

type fakeSender struct {
	mu        sync.Mutex
	ok        bool
	err       error
	recipient string
	msg       line.Message
	calls     int
}

func (f *fakeSender) Send(ctx context.Context, recipient string, msg line.Message) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.recipient = recipient
	f.msg = msg
	return f.ok, f.err
}

func post(t *testing.T, handler http.Handler, body string) (*http.Response, server.SendResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/messages", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	resp := rec.Result()
	var decoded server.SendResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHandleSend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		sender      *fakeSender
		body        string
		wantStatus  int
		wantSuccess bool
		wantCalls   int
	}{
		{
			name:        "sent",
			sender:      &fakeSender{ok: true},
			body:        `{"recipient":"U1","message":{"Type":"TEXT","Content":"hi"}}`,
			wantStatus:  http.StatusOK,
			wantSuccess: true,
			wantCalls:   1,
		},
		{
			name:       "not sent",
			sender:     &fakeSender{ok: false},
			body:       `{"recipient":"U1","message":{"Type":"EVENT","Content":"joined"}}`,
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "sender error",
			sender:     &fakeSender{err: errors.New("request failed: connection refused")},
			body:       `{"recipient":"U1","message":{"Type":"TEXT","Content":"hi"}}`,
			wantStatus: http.StatusBadGateway,
			wantCalls:  1,
		},
		{
			name:       "malformed JSON",
			sender:     &fakeSender{ok: true},
			body:       `{"recipient":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing recipient",
			sender:     &fakeSender{ok: true},
			body:       `{"recipient":"  ","message":{"Type":"TEXT","Content":"hi"}}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := server.New(server.Config{}, tt.sender, logging.Discard())
			resp, decoded := post(t, srv.Handler(), tt.body)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantSuccess, decoded.Success)
			assert.Equal(t, tt.wantCalls, tt.sender.calls)
			if tt.wantStatus != http.StatusOK {
				assert.NotEmpty(t, decoded.Error)
			}
		})
	}
}

func TestHandleSendPassesMessage(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{ok: true}
	srv := server.New(server.Config{}, sender, nil)
	_, _ = post(t, srv.Handler(), `{"recipient":" +819012345678 ","message":{"Type":"TEXT","Content":"hello"}}`)

	assert.Equal(t, "+819012345678", sender.recipient)
	assert.Equal(t, line.Message{Type: line.TypeText, Content: "hello"}, sender.msg)
}

func TestHandleSendRejectsGet(t *testing.T) {
	t.Parallel()

	srv := server.New(server.Config{}, &fakeSender{}, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/messages", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()

	srv := server.New(server.Config{MetricsPath: "/internal/metrics"}, &fakeSender{}, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "OK", string(body))

	resp, err = http.Get(ts.URL + "/internal/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "linepush_push_duration_seconds")
}

func TestStartStopWithLineSender(t *testing.T) {
	t.Parallel()

	lineAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(lineAPI.Close)

	sender := line.NewSender(token.Static("abc123"), logging.Discard(), line.Config{BaseURL: lineAPI.URL})
	srv := server.New(server.Config{Addr: "127.0.0.1:0"}, sender, logging.Discard())
	require.NoError(t, srv.Start())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})

	resp, err := http.Post("http://"+srv.Addr()+"/v1/messages", "application/json",
		strings.NewReader(`{"recipient":"U1","message":{"Type":"TEXT","Content":"hi"}}`))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var decoded server.SendResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	assert.True(t, decoded.Success)
}

func TestStopBeforeStart(t *testing.T) {
	t.Parallel()

	srv := server.New(server.Config{Addr: "127.0.0.1:0"}, &fakeSender{}, nil)
	assert.NoError(t, srv.Stop(context.Background()))
	assert.Equal(t, "127.0.0.1:0", srv.Addr())
}
