package updateproperty

import (
	"github.com/flowkan/flowkan/pkg/models"
	"github.com/flowkan/flowkan/pkg/protocol"
)

// ActionFactory creates update_property actions.
type ActionFactory struct{}

func NewActionFactory() *ActionFactory {
	return &ActionFactory{}
}

func (*ActionFactory) ID() string {
	return string(models.ActionUpdateProperty)
}

func (*ActionFactory) Name() string {
	return "Update Property"
}

func (*ActionFactory) Description() string {
	return "Emits a command patching one property of the triggering card."
}

func (*ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config)
}

func (*ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"property": map[string]any{
				"type":        "string",
				"description": "Card property to patch.",
				"minLength":   1,
			},
			"value": map[string]any{
				"description": "New value for the property.",
			},
		},
		"required": []string{"property"},
	}
}
