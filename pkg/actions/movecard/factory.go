package movecard

import (
	"github.com/flowkan/flowkan/pkg/models"
	"github.com/flowkan/flowkan/pkg/protocol"
)

// ActionFactory creates move_card actions.
type ActionFactory struct{}

func NewActionFactory() *ActionFactory {
	return &ActionFactory{}
}

func (*ActionFactory) ID() string {
	return string(models.ActionMoveCard)
}

func (*ActionFactory) Name() string {
	return "Move Card"
}

func (*ActionFactory) Description() string {
	return "Emits a command moving the triggering card to a target column."
}

func (*ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config)
}

func (*ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"target_column": map[string]any{
				"type":        "string",
				"description": "Id of the column the card should be moved to.",
				"minLength":   1,
			},
		},
		"required": []string{"target_column"},
	}
}
