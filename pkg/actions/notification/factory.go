package notification

import (
	"github.com/flowkan/flowkan/pkg/models"
	"github.com/flowkan/flowkan/pkg/notifier"
	"github.com/flowkan/flowkan/pkg/protocol"
)

// ActionFactory creates send_notification actions bound to one notifier.
type ActionFactory struct {
	notifier notifier.Notifier
}

func NewActionFactory(n notifier.Notifier) *ActionFactory {
	return &ActionFactory{notifier: n}
}

func (*ActionFactory) ID() string {
	return string(models.ActionSendNotification)
}

func (*ActionFactory) Name() string {
	return "Send Notification"
}

func (*ActionFactory) Description() string {
	return "Dispatches a notification to the configured recipients. The message supports the {{cardTitle}} placeholder."
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config, f.notifier)
}

func (*ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"recipients": map[string]any{
				"type":        "array",
				"description": "Recipient identifiers the transport understands.",
				"items":       map[string]any{"type": "string"},
				"minItems":    1,
			},
			"message": map[string]any{
				"type":        "string",
				"description": "Message body. {{cardTitle}} is replaced with the triggering card's title.",
			},
			"notification_type": map[string]any{
				"type":        "string",
				"description": "Transport hint, e.g. info or alert.",
				"default":     defaultNotificationType,
			},
		},
		"required": []string{"recipients"},
	}
}
