package createcard

import (
	"github.com/flowkan/flowkan/pkg/models"
	"github.com/flowkan/flowkan/pkg/protocol"
)

// ActionFactory creates create_card actions.
type ActionFactory struct{}

func NewActionFactory() *ActionFactory {
	return &ActionFactory{}
}

func (*ActionFactory) ID() string {
	return string(models.ActionCreateCard)
}

func (*ActionFactory) Name() string {
	return "Create Card"
}

func (*ActionFactory) Description() string {
	return "Synthesizes a new card from a template. Title and description support the {{triggerCard}} placeholder."
}

func (*ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config)
}

func (*ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"template": map[string]any{
				"type":        "object",
				"description": "Template for the new card.",
				"properties": map[string]any{
					"title": map[string]any{
						"type":        "string",
						"description": "Title of the new card. {{triggerCard}} is replaced with the triggering card's title.",
					},
					"description": map[string]any{
						"type": "string",
					},
					"column_id": map[string]any{
						"type":        "string",
						"description": "Column the new card is created in.",
						"minLength":   1,
					},
					"priority": map[string]any{
						"type":    "string",
						"default": defaultPriority,
					},
					"tags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				"required": []string{"column_id"},
			},
		},
		"required": []string{"template"},
	}
}
