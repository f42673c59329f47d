// Package updateproperty provides the update_property action: a generic
// property patch command for the triggering card.
package updateproperty

import (
	"context"
	"errors"
	"log/slog"

	"github.com/flowkan/flowkan/pkg/models"
)

// ErrPropertyRequired is returned when the config names no property.
var ErrPropertyRequired = errors.New("missing or invalid 'property' in configuration")

type Action struct {
	Property string
	Value    any
}

func NewAction(config map[string]any) (*Action, error) {
	property, ok := config["property"].(string)
	if !ok || property == "" {
		return nil, ErrPropertyRequired
	}

	return &Action{
		Property: property,
		Value:    config["value"],
	}, nil
}

func (a *Action) Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", "update_property")
	logger.InfoContext(ctx, "Emitting property patch command", "card_id", executionCtx.Card.ID, "property", a.Property)

	return map[string]any{
		"card_id":  executionCtx.Card.ID,
		"property": a.Property,
		"value":    a.Value,
	}, nil
}
