package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/systmms/linepush/internal/config"
	dserrors "github.com/systmms/linepush/internal/errors"
)

const doctorTimeout = 30 * time.Second

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	var skipToken bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check secret store connectivity and configuration",
		Long: `Verify that linepush is ready to send.

This command checks:
- Configuration file validity
- Secret store configuration and connectivity
- Push endpoint URL
- Whether a channel access token can be resolved (the value is never printed)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Logger = loggerOrDiscard(cfg)
			cfg.Logger.Info("Checking linepush configuration...")
			if err := loadConfig(cfg); err != nil {
				cfg.Logger.Error("Configuration error: %v", err)
				return err
			}
			def := cfg.Definition
			cfg.Logger.Info("Configuration loaded successfully")

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, cancel := context.WithTimeout(parent, doctorTimeout)
			defer cancel()

			p, err := buildPipeline(ctx, cfg, "")
			if err != nil {
				cfg.Logger.Error("Secret store setup failed: %v", err)
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CHECK\tSTATUS\tDETAIL")

			failed := false
			report := func(check string, err error, detail string) {
				status := "ok"
				if err != nil {
					status = "FAIL"
					detail = err.Error()
					failed = true
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", check, status, detail)
			}

			storeErr := p.store.Validate(ctx)
			if storeErr != nil {
				storeErr = dserrors.StoreError(def.SecretStore.Type, "validate", storeErr)
			}
			report("secret store", storeErr, fmt.Sprintf("%s (%s)", p.store.Name(), def.SecretStore.Type))
			report("endpoint", p.sender.Validate(ctx), p.sender.Endpoint())

			secretID := def.SecretID()
			switch {
			case skipToken:
				fmt.Fprintf(w, "token\tskipped\t\n")
			case secretID == "":
				fmt.Fprintf(w, "token\tabsent\tset $%s or token.secret_id\n", def.Token.SecretEnv)
			default:
				tok, err := p.tokens.Resolve(ctx)
				switch {
				case err != nil:
					report("token", dserrors.StoreError(def.SecretStore.Type, "token lookup", err), "")
				case !tok.Present():
					report("token", fmt.Errorf("field %s is empty in %s", def.Token.Field, secretID), "")
				default:
					report("token", nil, fmt.Sprintf("present (field %s in %s)", def.Token.Field, secretID))
				}
			}

			if err := w.Flush(); err != nil {
				return err
			}

			if failed {
				return dserrors.UserError{
					Message:    "One or more checks failed",
					Suggestion: "Fix the failing checks above and run 'linepush doctor' again",
				}
			}
			cfg.Logger.Info("All checks passed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipToken, "skip-token", false, "Do not resolve the channel access token")

	return cmd
}
