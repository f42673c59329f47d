package main

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowkan/flowkan/pkg/channels/gochannel"
	"github.com/flowkan/flowkan/pkg/cmd"
	"github.com/flowkan/flowkan/pkg/eventbus"
	"github.com/flowkan/flowkan/pkg/events"
	"github.com/flowkan/flowkan/pkg/models"
	"github.com/flowkan/flowkan/pkg/persistence/memory"
)

func newTestWorker(t *testing.T) (*WorkerManager, *memory.Persistence) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	p := memory.NewPersistence()

	return NewWorkerManager("worker-test", p, bus, logger, cmd.NewRegistry(logger, nil), ""), p
}

func movedEvent(card *models.KanbanCard, board *models.KanbanBoard) *events.CardMoved {
	return &events.CardMoved{
		CardEvent: events.CardEvent{
			BaseEvent: events.BaseEvent{ID: "evt-1", Type: events.CardMovedEvent},
			Card:      card,
			Board:     board,
		},
		FromColumn: "todo",
	}
}

func TestHandleCardMoved_ProcessesRules(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	worker, p := newTestWorker(t)

	rule := &models.WorkflowRule{
		ID:        "rule-1",
		Name:      "Move onward",
		Trigger:   models.RuleTrigger{Type: models.TriggerCardMoved},
		IsEnabled: true,
		Actions: []*models.WorkflowAction{
			{Type: models.ActionMoveCard, Config: map[string]any{"target_column": "review"}},
		},
	}
	require.NoError(t, p.RuleRepository().Save(ctx, rule))

	card := &models.KanbanCard{ID: "c1", Title: "One", Status: "in-progress"}
	board := &models.KanbanBoard{Columns: []*models.KanbanColumn{{ID: "in-progress", Cards: []*models.KanbanCard{card}}}}

	require.NoError(t, worker.handleCardMoved(ctx, movedEvent(card, board)))

	executions, err := p.ExecutionRepository().List(ctx)
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, models.ExecutionSuccess, executions[0].Status)
}

func TestHandleCardMoved_IgnoresWrongPayloadType(t *testing.T) {
	t.Parallel()

	worker, p := newTestWorker(t)

	// Wrong concrete type is dropped, not retried.
	require.NoError(t, worker.handleCardMoved(context.Background(), &events.CardCreated{}))

	executions, err := p.ExecutionRepository().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, executions)
}

func TestHandleCardMoved_MissingSnapshotIsDropped(t *testing.T) {
	t.Parallel()

	worker, p := newTestWorker(t)

	event := movedEvent(&models.KanbanCard{ID: "c1"}, nil)
	require.NoError(t, worker.handleCardMoved(context.Background(), event))

	executions, err := p.ExecutionRepository().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, executions)
}

func TestBoardCache(t *testing.T) {
	t.Parallel()

	cache := &boardCache{}

	_, err := cache.Board(context.Background())
	assert.ErrorIs(t, err, errNoBoardSnapshot)

	board := &models.KanbanBoard{}
	cache.Set(board)

	got, err := cache.Board(context.Background())
	require.NoError(t, err)
	assert.Same(t, board, got)

	// A nil snapshot never clobbers the cached board.
	cache.Set(nil)

	got, err = cache.Board(context.Background())
	require.NoError(t, err)
	assert.Same(t, board, got)
}

func TestHandleCardMoved_CachesBoardForSweeper(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	worker, _ := newTestWorker(t)

	card := &models.KanbanCard{ID: "c1", Status: "todo"}
	board := &models.KanbanBoard{Columns: []*models.KanbanColumn{{ID: "todo", Cards: []*models.KanbanCard{card}}}}

	require.NoError(t, worker.handleCardMoved(ctx, movedEvent(card, board)))

	cached, err := worker.boards.Board(ctx)
	require.NoError(t, err)
	assert.Same(t, board, cached)
}
