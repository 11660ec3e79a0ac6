package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// PushRequest is one request received by FakeLineAPI
type PushRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          string
}

// FakeLineAPI is an httptest server standing in for the push endpoint
type FakeLineAPI struct {
	server *httptest.Server

	mu       sync.Mutex
	status   int
	response string
	requests []PushRequest
}

// NewFakeLineAPI starts a server that answers every request with status
// and response. It is closed when the test ends.
func NewFakeLineAPI(t *testing.T, status int, response string) *FakeLineAPI {
	t.Helper()

	api := &FakeLineAPI{status: status, response: response}
	api.server = httptest.NewServer(http.HandlerFunc(api.handle))
	t.Cleanup(api.server.Close)
	return api
}

func (a *FakeLineAPI) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	a.mu.Lock()
	a.requests = append(a.requests, PushRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          string(body),
	})
	status, response := a.status, a.response
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(response))
}

// URL is the base URL to configure the sender with
func (a *FakeLineAPI) URL() string {
	return a.server.URL
}

// Close stops the server; later pushes fail at the transport
func (a *FakeLineAPI) Close() {
	a.server.Close()
}

// Respond changes the reply for subsequent requests
func (a *FakeLineAPI) Respond(status int, response string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status, a.response = status, response
}

// Requests returns a copy of the requests received so far
func (a *FakeLineAPI) Requests() []PushRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]PushRequest(nil), a.requests...)
}

// Count is the number of requests received
func (a *FakeLineAPI) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requests)
}

// Last returns the most recent request
func (a *FakeLineAPI) Last() PushRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.requests) == 0 {
		return PushRequest{}
	}
	return a.requests[len(a.requests)-1]
}
