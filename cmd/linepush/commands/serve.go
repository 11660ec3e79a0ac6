package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/systmms/linepush/internal/config"
	"github.com/systmms/linepush/internal/server"
)

const shutdownTimeout = 10 * time.Second

func NewServeCommand(cfg *config.Config) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP ingress for outbound messages",
		Long: `Run an HTTP server that accepts outbound messages and pushes them to LINE.

Endpoints:
  POST /v1/messages   {"recipient": "...", "message": {"Type": "TEXT", "Content": "..."}}
  GET  /health        liveness check
  GET  /metrics       Prometheus metrics (path configurable with server.metrics_path)

The server runs until it receives SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cfg); err != nil {
				return err
			}
			def := cfg.Definition

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, err := buildPipeline(ctx, cfg, "")
			if err != nil {
				return err
			}

			serverConfig := server.DefaultConfig()
			serverConfig.Addr = def.Server.Addr
			serverConfig.MetricsPath = def.Server.MetricsPath
			if addr != "" {
				serverConfig.Addr = addr
			}
			if wt := writeTimeout(def); wt > serverConfig.WriteTimeout {
				serverConfig.WriteTimeout = wt
			}

			srv := server.New(serverConfig, p.sender, cfg.Logger)
			if err := srv.Start(); err != nil {
				return err
			}

			<-ctx.Done()
			cfg.Logger.Info("Shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Stop(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}

// writeTimeout leaves room for a cold request: one secret lookup followed by
// one push.
func writeTimeout(def *config.Definition) time.Duration {
	return def.StoreTimeout() + def.LineTimeout() + 5*time.Second
}
