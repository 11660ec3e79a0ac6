package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/systmms/linepush/internal/line"
	"github.com/systmms/linepush/internal/logging"
)

const maxRequestBytes = 1 << 20

// MessageSender delivers a single outbound message
type MessageSender interface {
	Send(ctx context.Context, recipient string, msg line.Message) (bool, error)
}

// Config holds configuration for the ingress HTTP server.
type Config struct {
	// Addr is the address to listen on.
	Addr string

	// MetricsPath is the path to serve metrics on.
	MetricsPath string

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		MetricsPath:  "/metrics",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
}

// Server accepts outbound messages over HTTP and hands them to a sender.
type Server struct {
	config   Config
	sender   MessageSender
	logger   *logging.Logger
	server   *http.Server
	listener net.Listener
}

// SendRequest is the body of POST /v1/messages
type SendRequest struct {
	Recipient string       `json:"recipient"`
	Message   line.Message `json:"message"`
}

// SendResponse is returned by POST /v1/messages
type SendResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// New creates a new ingress server.
func New(config Config, sender MessageSender, logger *logging.Logger) *Server {
	defaults := DefaultConfig()
	if config.Addr == "" {
		config.Addr = defaults.Addr
	}
	if config.MetricsPath == "" {
		config.MetricsPath = defaults.MetricsPath
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = defaults.ReadTimeout
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = defaults.WriteTimeout
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &Server{
		config: config,
		sender: sender,
		logger: logger,
	}
}

// Handler returns the HTTP routes served by the ingress.
func (s *Server) Handler() http.Handler {
	line.InitMetrics()

	mux := http.NewServeMux()
	mux.Handle(s.config.MetricsPath, promhttp.Handler())
	mux.HandleFunc("/v1/messages", s.handleSend)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	s.listener = listener

	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Ingress server error: %v", err)
		}
	}()

	s.logger.Info("Listening on %s", listener.Addr())
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.config.Addr
	}
	return s.listener.Addr().String()
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, SendResponse{Error: "method not allowed"})
		return
	}

	var req SendRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := decoder.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, SendResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	req.Recipient = strings.TrimSpace(req.Recipient)
	if req.Recipient == "" {
		writeJSON(w, http.StatusBadRequest, SendResponse{Error: "recipient is required"})
		return
	}

	ok, err := s.sender.Send(r.Context(), req.Recipient, req.Message)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, SendResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, SendResponse{Success: ok})
}

func writeJSON(w http.ResponseWriter, status int, body SendResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
