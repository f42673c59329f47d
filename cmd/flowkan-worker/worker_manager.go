package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/flowkan/flowkan/pkg/engine"
	"github.com/flowkan/flowkan/pkg/eventbus"
	"github.com/flowkan/flowkan/pkg/events"
	"github.com/flowkan/flowkan/pkg/models"
	"github.com/flowkan/flowkan/pkg/persistence"
	"github.com/flowkan/flowkan/pkg/registry"
	"github.com/flowkan/flowkan/pkg/sources/scheduler"
)

var errNoBoardSnapshot = errors.New("no board snapshot received yet")

// boardCache remembers the board snapshot of the last handled event so the
// due-date sweeper can scan it between board events.
type boardCache struct {
	mu    sync.RWMutex
	board *models.KanbanBoard
}

func (c *boardCache) Set(board *models.KanbanBoard) {
	if board == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.board = board
}

func (c *boardCache) Board(_ context.Context) (*models.KanbanBoard, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.board == nil {
		return nil, errNoBoardSnapshot
	}

	return c.board, nil
}

type WorkerManager struct {
	id            string
	logger        *slog.Logger
	persistence   persistence.Persistence
	registry      *registry.Registry
	eventBus      eventbus.EventBus
	engine        *engine.Engine
	boards        *boardCache
	sweepSchedule string
}

func NewWorkerManager(
	id string,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	registry *registry.Registry,
	sweepSchedule string,
) *WorkerManager {
	workerLogger := logger.With("module", "flowkan-worker", "worker_id", id)

	return &WorkerManager{
		id:            id,
		logger:        workerLogger,
		persistence:   persistence,
		registry:      registry,
		eventBus:      eventBus,
		engine:        engine.New(workerLogger, persistence, registry, eventBus),
		boards:        &boardCache{},
		sweepSchedule: sweepSchedule,
	}
}

func (w *WorkerManager) Start(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Starting worker manager")

	handlers := map[events.EventType]eventbus.EventHandler{
		events.CardCreatedEvent: w.handleCardCreated,
		events.CardMovedEvent:   w.handleCardMoved,
		events.CardUpdatedEvent: w.handleCardUpdated,
		events.CardDueEvent:     w.handleCardDue,
	}

	for eventType, handler := range handlers {
		err := w.eventBus.Handle(eventType, handler)
		if err != nil {
			return err
		}
	}

	err := w.eventBus.Subscribe(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	sweeper, err := scheduler.NewSweeper(w.sweepSchedule, w.boards, w.eventBus, w.logger)
	if err != nil {
		return err
	}

	err = sweeper.Start(ctx)
	if err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "Worker started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	w.logger.InfoContext(ctx, "Shutting down worker...")
	sweeper.Stop()

	return nil
}

func (w *WorkerManager) handleCardCreated(ctx context.Context, event any) error {
	cardEvent, ok := event.(*events.CardCreated)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for CardCreated")

		return nil
	}

	return w.process(ctx, models.TriggerCardCreated, cardEvent.CardEvent)
}

func (w *WorkerManager) handleCardMoved(ctx context.Context, event any) error {
	cardEvent, ok := event.(*events.CardMoved)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for CardMoved")

		return nil
	}

	return w.process(ctx, models.TriggerCardMoved, cardEvent.CardEvent)
}

func (w *WorkerManager) handleCardUpdated(ctx context.Context, event any) error {
	cardEvent, ok := event.(*events.CardUpdated)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for CardUpdated")

		return nil
	}

	return w.process(ctx, models.TriggerCardUpdated, cardEvent.CardEvent)
}

func (w *WorkerManager) handleCardDue(ctx context.Context, event any) error {
	cardEvent, ok := event.(*events.CardDue)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for CardDue")

		return nil
	}

	return w.process(ctx, models.TriggerCardDue, cardEvent.CardEvent)
}

func (w *WorkerManager) process(ctx context.Context, triggerType models.TriggerType, event events.CardEvent) error {
	if event.Card == nil || event.Board == nil {
		w.logger.ErrorContext(ctx, "Card event missing card or board snapshot", "event_id", event.ID)

		return nil
	}

	w.boards.Set(event.Board)

	logger := w.logger.With(
		"event_id", event.ID,
		"trigger_type", triggerType,
		"card_id", event.Card.ID,
	)
	logger.InfoContext(ctx, "Processing card event")

	executions, err := w.engine.ProcessCardEvent(ctx, triggerType, event.Card, event.Board)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to process card event", "error", err)

		return err
	}

	logger.InfoContext(ctx, "Card event processed", "executions", len(executions))

	return nil
}
