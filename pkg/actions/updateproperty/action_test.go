package updateproperty_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowkan/flowkan/pkg/actions/updateproperty"
	"github.com/flowkan/flowkan/pkg/models"
)

func TestNewAction_RequiresProperty(t *testing.T) {
	t.Parallel()

	_, err := updateproperty.NewAction(map[string]any{})
	assert.ErrorIs(t, err, updateproperty.ErrPropertyRequired)

	_, err = updateproperty.NewAction(map[string]any{"property": ""})
	assert.ErrorIs(t, err, updateproperty.ErrPropertyRequired)
}

func TestExecute_EmitsPatchCommand(t *testing.T) {
	t.Parallel()

	action, err := updateproperty.NewAction(map[string]any{"property": "priority", "value": "urgent"})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	executionCtx := models.ExecutionContext{Card: &models.KanbanCard{ID: "card-3"}}

	output, err := action.Execute(context.Background(), executionCtx, logger)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"card_id": "card-3", "property": "priority", "value": "urgent"}, output)
}

func TestExecute_NilValueIsAllowed(t *testing.T) {
	t.Parallel()

	action, err := updateproperty.NewAction(map[string]any{"property": "assignee"})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	executionCtx := models.ExecutionContext{Card: &models.KanbanCard{ID: "card-3"}}

	output, err := action.Execute(context.Background(), executionCtx, logger)
	require.NoError(t, err)
	assert.Nil(t, output["value"])
}
