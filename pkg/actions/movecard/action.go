// Package movecard provides the move_card action: a command telling the board
// layer to move the triggering card to another column.
package movecard

import (
	"context"
	"errors"
	"log/slog"

	"github.com/flowkan/flowkan/pkg/models"
)

// ErrTargetColumnRequired is returned when the config has no target column.
var ErrTargetColumnRequired = errors.New("missing or invalid 'target_column' in configuration")

type Action struct {
	TargetColumn string
}

func NewAction(config map[string]any) (*Action, error) {
	targetColumn, ok := config["target_column"].(string)
	if !ok || targetColumn == "" {
		return nil, ErrTargetColumnRequired
	}

	return &Action{TargetColumn: targetColumn}, nil
}

func (a *Action) Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", "move_card")
	logger.InfoContext(ctx, "Emitting move command", "card_id", executionCtx.Card.ID, "target_column", a.TargetColumn)

	return map[string]any{
		"card_id":       executionCtx.Card.ID,
		"target_column": a.TargetColumn,
	}, nil
}
