// Package createcard provides the create_card action: synthesizes a follow-up
// card from a template and emits it as a creation command.
package createcard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flowkan/flowkan/pkg/models"
	"github.com/flowkan/flowkan/pkg/template"
)

// ErrTemplateRequired is returned when the config has no card template.
var ErrTemplateRequired = errors.New("missing or invalid 'template' in configuration")

// ErrColumnRequired is returned when the template names no target column.
var ErrColumnRequired = errors.New("missing or invalid 'column_id' in card template")

const defaultPriority = "medium"

type Action struct {
	Title       string
	Description string
	ColumnID    string
	Priority    string
	Tags        []string
}

func NewAction(config map[string]any) (*Action, error) {
	templateConfig, ok := config["template"].(map[string]any)
	if !ok {
		return nil, ErrTemplateRequired
	}

	columnID, ok := templateConfig["column_id"].(string)
	if !ok || columnID == "" {
		return nil, ErrColumnRequired
	}

	title, _ := templateConfig["title"].(string)
	description, _ := templateConfig["description"].(string)

	priority, _ := templateConfig["priority"].(string)
	if priority == "" {
		priority = defaultPriority
	}

	var tags []string

	if rawTags, ok := templateConfig["tags"].([]any); ok {
		for _, rawTag := range rawTags {
			if tag, ok := rawTag.(string); ok {
				tags = append(tags, tag)
			}
		}
	}

	return &Action{
		Title:       title,
		Description: description,
		ColumnID:    columnID,
		Priority:    priority,
		Tags:        tags,
	}, nil
}

// Execute builds the new card. {{triggerCard}} in title and description is
// replaced with the triggering card's title; the assignee is inherited and
// numeric fields start at zero. The caller inserts the card into the column.
func (a *Action) Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", "create_card")

	vars := template.CardVars(executionCtx.Card)

	card := &models.KanbanCard{
		ID:          uuid.New().String(),
		Title:       template.Render(a.Title, vars),
		Description: template.Render(a.Description, vars),
		Status:      a.ColumnID,
		Priority:    a.Priority,
		Tags:        a.Tags,
		Assignee:    executionCtx.Card.Assignee,
		CreatedAt:   time.Now().UTC(),
	}

	logger.InfoContext(ctx, "Emitting create command", "new_card_id", card.ID, "target_column", a.ColumnID)

	return map[string]any{
		"card":          card,
		"target_column": a.ColumnID,
	}, nil
}
