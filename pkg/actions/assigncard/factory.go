package assigncard

import (
	"github.com/flowkan/flowkan/pkg/models"
	"github.com/flowkan/flowkan/pkg/protocol"
)

// ActionFactory creates assign_card actions.
type ActionFactory struct{}

func NewActionFactory() *ActionFactory {
	return &ActionFactory{}
}

func (*ActionFactory) ID() string {
	return string(models.ActionAssignCard)
}

func (*ActionFactory) Name() string {
	return "Assign Card"
}

func (*ActionFactory) Description() string {
	return "Emits a command assigning the triggering card to an assignee picked by strategy."
}

func (*ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config)
}

func (*ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"strategy": map[string]any{
				"type":        "string",
				"description": "How to pick the assignee.",
				"default":     string(models.StrategyRoundRobin),
				"enum": []string{
					string(models.StrategyRoundRobin),
					string(models.StrategyLeastLoaded),
					string(models.StrategyBySkill),
				},
			},
		},
	}
}
