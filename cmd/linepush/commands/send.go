package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/systmms/linepush/internal/config"
	dserrors "github.com/systmms/linepush/internal/errors"
	"github.com/systmms/linepush/internal/line"
)

func NewSendCommand(cfg *config.Config) *cobra.Command {
	var (
		recipient   string
		content     string
		messageType string
		tokenValue  string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Push a single message to a LINE user",
		Long: `Push one message to a LINE user.

The channel access token is read from the configured secret store using the
identifier in $LN_SECRET (or token.secret_id). EVENT messages are accepted
but never delivered.

Examples:
  # Send a text message
  linepush send --to U4af4980629 --content "Build finished"

  # Machine-readable result
  linepush send --to U4af4980629 --content "Deploy done" --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(recipient) == "" {
				return dserrors.UserError{
					Message:    "Recipient is required",
					Suggestion: "Use --to <user-id> to specify the LINE user",
				}
			}

			msgType := line.MessageType(strings.ToUpper(messageType))
			if msgType != line.TypeText && msgType != line.TypeEvent {
				return dserrors.UserError{
					Message:    fmt.Sprintf("Unknown message type '%s'", messageType),
					Suggestion: "Use --type TEXT or --type EVENT",
				}
			}

			if err := loadConfig(cfg); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			p, err := buildPipeline(ctx, cfg, tokenValue)
			if err != nil {
				return err
			}

			ok, sendErr := p.sender.Send(ctx, recipient, line.Message{Type: msgType, Content: content})

			if jsonOutput {
				output := map[string]interface{}{
					"recipient": recipient,
					"type":      string(msgType),
					"success":   ok,
				}
				if sendErr != nil {
					output["error"] = sendErr.Error()
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(output); err != nil {
					return fmt.Errorf("failed to encode result: %w", err)
				}
			}

			if sendErr != nil {
				return sendErr
			}
			if !ok && msgType == line.TypeEvent {
				if !jsonOutput {
					cfg.Logger.Warn("EVENT messages are ignored; nothing was sent")
				}
				return nil
			}
			if !ok {
				if !jsonOutput {
					cfg.Logger.Error("Message to %s was not delivered", recipient)
				}
				return dserrors.ErrNotSent
			}

			if !jsonOutput {
				cfg.Logger.Info("Message sent to %s", recipient)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&recipient, "to", "", "LINE user id of the recipient (required)")
	cmd.Flags().StringVar(&content, "content", "", "Message text")
	cmd.Flags().StringVar(&messageType, "type", string(line.TypeText), "Message type (TEXT or EVENT)")
	cmd.Flags().StringVar(&tokenValue, "token", "", "Channel access token, bypassing the secret store")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result as JSON")

	return cmd
}
