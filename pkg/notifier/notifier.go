// Package notifier defines the outbound notification contract. The concrete
// transport (email, push, chat) is supplied by the hosting environment; the
// slog notifier is the default stub.
package notifier

import (
	"context"
	"log/slog"
)

// Notification is one dispatch request, message already rendered.
type Notification struct {
	Recipients []string `json:"recipients"`
	Message    string   `json:"message"`
	Type       string   `json:"notification_type"`
}

type Notifier interface {
	Send(ctx context.Context, notification Notification) error
}

// SlogNotifier logs notifications instead of delivering them.
type SlogNotifier struct {
	logger *slog.Logger
}

func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger.With("module", "notifier")}
}

func (n *SlogNotifier) Send(ctx context.Context, notification Notification) error {
	n.logger.InfoContext(ctx, "Dispatching notification",
		"recipients", notification.Recipients,
		"notification_type", notification.Type,
		"message", notification.Message,
	)

	return nil
}
