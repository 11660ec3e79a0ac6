package providers

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	dserrors "github.com/systmms/linepush/internal/errors"
	"github.com/systmms/linepush/pkg/secretstore"
)

const (
	defaultAkeylessGateway = "https://api.akeyless.io"
	// Akeyless tokens last 30 minutes; refresh a little early.
	akeylessTokenTTL = 25 * time.Minute
)

// AkeylessClient is the subset of the Akeyless API used by the store
type AkeylessClient interface {
	Authenticate(ctx context.Context) (string, error)
	GetSecretValue(ctx context.Context, token, path string) (string, error)
}

// AkeylessConfig holds Akeyless-specific configuration
type AkeylessConfig struct {
	GatewayURL string
	AccessID   string
	AccessKey  string
}

// AkeylessStore reads static secrets from Akeyless using API key auth
type AkeylessStore struct {
	name   string
	config AkeylessConfig
	client AkeylessClient

	mu        sync.Mutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

// AkeylessOption is a functional option for configuring the store
type AkeylessOption func(*AkeylessStore)

// WithAkeylessClient sets a custom Akeyless client (for testing)
func WithAkeylessClient(client AkeylessClient) AkeylessOption {
	return func(s *AkeylessStore) {
		s.client = client
	}
}

// NewAkeylessStore creates a new Akeyless store
func NewAkeylessStore(name string, cfg map[string]interface{}, opts ...AkeylessOption) (*AkeylessStore, error) {
	config := AkeylessConfig{
		GatewayURL: configString(cfg, "gateway_url"),
		AccessID:   configString(cfg, "access_id"),
		AccessKey:  configString(cfg, "access_key"),
	}
	if config.GatewayURL == "" {
		config.GatewayURL = defaultAkeylessGateway
	}
	if config.AccessKey == "" {
		config.AccessKey = os.Getenv("AKEYLESS_ACCESS_KEY")
	}
	if config.AccessID == "" {
		return nil, dserrors.ConfigError{
			Field:      "secretStore.access_id",
			Message:    "access_id is required for Akeyless",
			Suggestion: "Set access_id in config; provide access_key or AKEYLESS_ACCESS_KEY",
		}
	}

	s := &AkeylessStore{
		name:   name,
		config: config,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		s.client = newAkeylessSDKClient(config)
	}

	return s, nil
}

// Name returns the store name
func (s *AkeylessStore) Name() string {
	return s.name
}

// GetSecretString fetches the static secret at path id
func (s *AkeylessStore) GetSecretString(ctx context.Context, id string) (string, error) {
	if err := validateID(s.name, id); err != nil {
		return "", err
	}

	path := id
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	token, err := s.getToken(ctx)
	if err != nil {
		return "", err
	}

	value, err := s.client.GetSecretValue(ctx, token, path)
	if err != nil {
		if errors.Is(err, ErrAkeylessSecretNotFound) {
			return "", secretstore.NotFoundError{Store: s.name, ID: path}
		}
		if errors.Is(err, ErrAkeylessUnauthorized) {
			s.clearToken()
			return "", authError(s.name, err)
		}
		return "", &AkeylessError{Op: "fetch", Path: path, Err: err}
	}

	return value, nil
}

// Validate authenticates against the gateway
func (s *AkeylessStore) Validate(ctx context.Context) error {
	_, err := s.getToken(ctx)
	return err
}

func (s *AkeylessStore) getToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expiresAt) {
		return s.token, nil
	}

	token, err := s.client.Authenticate(ctx)
	if err != nil {
		return "", secretstore.AuthError{
			Store:   s.name,
			Message: (&AkeylessError{Op: "auth", Err: err}).Error(),
		}
	}

	s.token = token
	s.expiresAt = s.now().Add(akeylessTokenTTL)
	return token, nil
}

func (s *AkeylessStore) clearToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}
