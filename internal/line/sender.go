package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/systmms/linepush/internal/logging"
	"github.com/systmms/linepush/internal/token"
)

const (
	// DefaultBaseURL is the production Messaging API host.
	DefaultBaseURL = "https://api.line.me"
	// PushPath is the push message endpoint.
	PushPath = "/v2/bot/message/push"
	// DefaultTimeout bounds a single push request.
	DefaultTimeout = 30 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 1 << 20
)

// Config holds configuration for the sender.
type Config struct {
	// BaseURL is the API origin (default: https://api.line.me).
	BaseURL string

	// Timeout for the HTTP request (default: 30s). Ignored when HTTPClient is set.
	Timeout time.Duration

	// HTTPClient overrides the client used for requests.
	HTTPClient *http.Client
}

// Sender pushes messages to a LINE user. It is safe for concurrent use.
type Sender struct {
	tokens   token.Provider
	logger   *logging.Logger
	client   *http.Client
	endpoint string
}

// NewSender creates a sender that authenticates with tokens from provider.
func NewSender(tokens token.Provider, logger *logging.Logger, config Config) *Sender {
	if logger == nil {
		logger = logging.Discard()
	}
	if tokens == nil {
		tokens = token.None()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	InitMetrics()

	return &Sender{
		tokens:   tokens,
		logger:   logger,
		client:   client,
		endpoint: strings.TrimRight(config.BaseURL, "/") + PushPath,
	}
}

// Name returns the channel name.
func (s *Sender) Name() string {
	return "line"
}

// Endpoint returns the push URL requests are sent to.
func (s *Sender) Endpoint() string {
	return s.endpoint
}

// SupportsMessage returns false for event records.
func (s *Sender) SupportsMessage(t MessageType) bool {
	return t != TypeEvent
}

// Validate checks the endpoint URL.
func (s *Sender) Validate(ctx context.Context) error {
	parsed, err := url.Parse(s.endpoint)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("invalid URL: %s", s.endpoint)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return fmt.Errorf("invalid URL scheme: %s (must be http or https)", parsed.Scheme)
	}
	return nil
}

// Send pushes msg to recipient. It reports true when the API accepted the
// message, false when the record is an event or the API returned an error
// object. A non-nil error means the outcome is unknown: the token could not
// be resolved, the request failed, or the response was not JSON.
func (s *Sender) Send(ctx context.Context, recipient string, msg Message) (bool, error) {
	if msg.IsEvent() {
		s.logger.Debug("Ignoring event message for %s", recipient)
		recordOutcome(outcomeIgnored)
		return false, nil
	}

	tok, err := s.tokens.Resolve(ctx)
	if err != nil {
		s.logger.Error("Failed to resolve channel access token: %v", err)
		recordOutcome(outcomeError)
		return false, fmt.Errorf("failed to resolve access token: %w", err)
	}
	if !tok.Present() {
		s.logger.Error("Channel access token not found in secret store; sending without credentials")
	}

	payload, err := json.Marshal(pushRequest{
		To:       recipient,
		Messages: []textMessage{{Type: "text", Text: msg.Content}},
	})
	if err != nil {
		recordOutcome(outcomeError)
		return false, fmt.Errorf("failed to build payload: %w", err)
	}

	start := time.Now()
	status, body, err := s.doSend(ctx, tok, payload)
	observeDuration(time.Since(start))
	if err != nil {
		s.logger.Error("LINE push to %s failed: %v", recipient, err)
		recordOutcome(outcomeError)
		return false, err
	}

	var result map[string]json.RawMessage
	if err := json.Unmarshal(body, &result); err != nil {
		s.logger.Error("LINE push to %s returned a non-JSON response (status %d)", recipient, status)
		recordOutcome(outcomeError)
		return false, fmt.Errorf("failed to parse response (status %d): %w", status, err)
	}
	if result == nil {
		s.logger.Error("LINE push to %s returned a null response (status %d)", recipient, status)
		recordOutcome(outcomeError)
		return false, fmt.Errorf("response is not a JSON object (status %d)", status)
	}

	if _, rejected := result["error"]; rejected {
		s.logger.Error("LINE push to %s rejected: %s", recipient, string(body))
		recordOutcome(outcomeRejected)
		return false, nil
	}

	if status < 200 || status >= 300 {
		s.logger.Warn("LINE push to %s returned status %d: %s", recipient, status, string(body))
	} else {
		s.logger.Debug("LINE push to %s accepted", recipient)
	}

	recordOutcome(outcomeSent)
	return true, nil
}

// doSend performs a single HTTP request.
func (s *Sender) doSend(ctx context.Context, tok token.Token, payload []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok.Value())
	req.Header.Set("User-Agent", "linepush/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, body, nil
}
