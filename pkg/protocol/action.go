// Package protocol defines the contracts between the engine and action implementations.
package protocol

import (
	"context"
	"log/slog"

	"github.com/flowkan/flowkan/pkg/models"
)

// Action is one executable rule action. Execute returns a type-specific output
// map: a command for the hosting board layer to apply (move/assign/update/
// create) or a dispatch receipt (notification/webhook). Actions never mutate
// the board snapshot.
type Action interface {
	Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (map[string]any, error)
}

// ActionFactory builds actions of one kind from a raw config map.
type ActionFactory interface {
	// ID returns the action type this factory produces, e.g. "move_card".
	ID() string
	// Name returns a human-readable name for tooling.
	Name() string
	// Description returns a brief description for tooling.
	Description() string
	// Schema returns the JSON Schema the config map must satisfy.
	Schema() map[string]any
	// Create builds an action from a validated config map.
	Create(config map[string]any) (Action, error)
}
