package commands

import (
	"context"

	"github.com/systmms/linepush/internal/config"
	dserrors "github.com/systmms/linepush/internal/errors"
	"github.com/systmms/linepush/internal/line"
	"github.com/systmms/linepush/internal/logging"
	"github.com/systmms/linepush/internal/secretstores"
	"github.com/systmms/linepush/internal/token"
	"github.com/systmms/linepush/pkg/secretstore"
)

// pipeline is everything needed to push a message
type pipeline struct {
	store  secretstore.SecretStore
	tokens *token.Cache
	sender *line.Sender
}

// loadConfig loads the definition unless a caller already did
func loadConfig(cfg *config.Config) error {
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.Definition != nil {
		return nil
	}
	return cfg.Load()
}

// buildPipeline wires the configured secret store, the token cache and the
// sender. A non-empty override replaces the secret store lookup.
func buildPipeline(ctx context.Context, cfg *config.Config, override string) (*pipeline, error) {
	def := cfg.Definition
	logger := cfg.Logger

	var (
		store    secretstore.SecretStore
		provider token.Provider
	)
	if override != "" {
		logger.Debug("Using channel access token from the command line")
		provider = token.Static(override)
	} else {
		s, err := secretstores.NewRegistry().CreateSecretStore(ctx, def.SecretStore)
		if err != nil {
			return nil, dserrors.StoreError(def.SecretStore.Type, "setup", err)
		}
		store = s
		provider = token.NewStoreProvider(store, def.SecretID(), def.Token.Field, logger)
	}

	tokens := token.NewCache(provider, logger)
	sender := line.NewSender(tokens, logger, line.Config{
		BaseURL: def.Line.BaseURL,
		Timeout: def.LineTimeout(),
	})

	return &pipeline{store: store, tokens: tokens, sender: sender}, nil
}

func loggerOrDiscard(cfg *config.Config) *logging.Logger {
	if cfg.Logger == nil {
		return logging.Discard()
	}
	return cfg.Logger
}
