package webhook

import (
	"github.com/flowkan/flowkan/pkg/models"
	"github.com/flowkan/flowkan/pkg/protocol"
)

// ActionFactory creates webhook_call actions.
type ActionFactory struct{}

func NewActionFactory() *ActionFactory {
	return &ActionFactory{}
}

func (*ActionFactory) ID() string {
	return string(models.ActionWebhookCall)
}

func (*ActionFactory) Name() string {
	return "Webhook Call"
}

func (*ActionFactory) Description() string {
	return "Sends an HTTP request with a JSON projection of the triggering card."
}

func (*ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config)
}

func (*ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "Endpoint to call.",
				"minLength":   1,
			},
			"method": map[string]any{
				"type":        "string",
				"description": "HTTP method.",
				"default":     "POST",
				"enum":        []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			},
			"headers": map[string]any{
				"type":        "object",
				"description": "Extra request headers.",
			},
			"payload": map[string]any{
				"type":        "object",
				"description": "Fields merged into the top level of the JSON body.",
			},
		},
		"required": []string{"url"},
	}
}
