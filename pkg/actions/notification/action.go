// Package notification provides the send_notification action: renders the
// message template and hands it to the configured notifier.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/flowkan/flowkan/pkg/models"
	"github.com/flowkan/flowkan/pkg/notifier"
	"github.com/flowkan/flowkan/pkg/template"
)

// ErrRecipientsRequired is returned when the config lists no recipients.
var ErrRecipientsRequired = errors.New("missing or empty 'recipients' in configuration")

const defaultNotificationType = "info"

type Action struct {
	Recipients       []string
	Message          string
	NotificationType string

	notifier notifier.Notifier
}

func NewAction(config map[string]any, n notifier.Notifier) (*Action, error) {
	recipients, err := parseRecipients(config["recipients"])
	if err != nil {
		return nil, err
	}

	message, _ := config["message"].(string)

	notificationType, _ := config["notification_type"].(string)
	if notificationType == "" {
		notificationType = defaultNotificationType
	}

	return &Action{
		Recipients:       recipients,
		Message:          message,
		NotificationType: notificationType,
		notifier:         n,
	}, nil
}

func parseRecipients(raw any) ([]string, error) {
	switch value := raw.(type) {
	case []string:
		if len(value) == 0 {
			return nil, ErrRecipientsRequired
		}

		return value, nil
	case []any:
		recipients := make([]string, 0, len(value))

		for _, entry := range value {
			recipient, ok := entry.(string)
			if !ok {
				return nil, fmt.Errorf("recipient %v is not a string: %w", entry, ErrRecipientsRequired)
			}

			recipients = append(recipients, recipient)
		}

		if len(recipients) == 0 {
			return nil, ErrRecipientsRequired
		}

		return recipients, nil
	default:
		return nil, ErrRecipientsRequired
	}
}

func (a *Action) Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", "send_notification")

	message := template.Render(a.Message, template.CardVars(executionCtx.Card))

	err := a.notifier.Send(ctx, notifier.Notification{
		Recipients: a.Recipients,
		Message:    message,
		Type:       a.NotificationType,
	})
	if err != nil {
		return nil, fmt.Errorf("notification dispatch failed: %w", err)
	}

	logger.InfoContext(ctx, "Notification dispatched", "recipients", a.Recipients)

	return map[string]any{
		"recipients": a.Recipients,
		"message":    message,
	}, nil
}
