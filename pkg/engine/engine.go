// Package engine orchestrates rule processing: a board event selects enabled
// rules by trigger type, conditions are evaluated against the card and board
// snapshot, actions run sequentially, and one audit record is appended per
// rule per event.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/flowkan/flowkan/pkg/conditions"
	"github.com/flowkan/flowkan/pkg/eventbus"
	"github.com/flowkan/flowkan/pkg/events"
	"github.com/flowkan/flowkan/pkg/models"
	"github.com/flowkan/flowkan/pkg/otelhelper"
	"github.com/flowkan/flowkan/pkg/persistence"
	"github.com/flowkan/flowkan/pkg/registry"
)

// Engine owns the rule list and the audit log through its persistence handle;
// all mutations go through its public operations.
type Engine struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	evaluator   *conditions.Evaluator
	publisher   eventbus.EventPublisher
	tracer      trace.Tracer
	workerID    string

	// Serializes batches: concurrent events queue on the lock and run in
	// arrival order instead of being dropped.
	mu sync.Mutex
}

// New creates an engine. The publisher may be nil; then automation.completed
// events are not emitted.
func New(logger *slog.Logger, p persistence.Persistence, reg *registry.Registry, publisher eventbus.EventPublisher) *Engine {
	return &Engine{
		logger:      logger.With("module", "engine"),
		persistence: p,
		registry:    reg,
		evaluator:   conditions.NewEvaluator(),
		publisher:   publisher,
		tracer:      otel.Tracer("flowkan/engine"),
		workerID:    uuid.New().String(),
	}
}

// SetEvaluator swaps the condition evaluator, used by tests to pin the clock.
func (e *Engine) SetEvaluator(evaluator *conditions.Evaluator) {
	e.evaluator = evaluator
}

// ProcessCardEvent runs all enabled rules matching the event type and returns
// the audit batch produced by this call. Rule and action failures land in the
// audit records; the returned error is reserved for infrastructure failures
// (rule load, audit append).
func (e *Engine) ProcessCardEvent(
	ctx context.Context,
	eventType models.TriggerType,
	card *models.KanbanCard,
	board *models.KanbanBoard,
) ([]*models.AutomationExecution, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, span := e.tracer.Start(ctx, "engine.process_card_event", trace.WithAttributes(
		attribute.String(otelhelper.EventTypeKey, string(eventType)),
		attribute.String(otelhelper.CardIDKey, card.ID),
	))
	defer span.End()

	logger := e.logger.With("event_type", string(eventType), "card_id", card.ID)
	logger.InfoContext(ctx, "Processing board event")

	rules, err := e.persistence.RuleRepository().List(ctx)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	batch := make([]*models.AutomationExecution, 0)

	for _, rule := range rules {
		if !rule.IsEnabled || rule.Trigger.Type != eventType {
			continue
		}

		execution := e.processRule(ctx, rule, eventType, card, board, logger)

		err = e.persistence.ExecutionRepository().Append(ctx, execution)
		if err != nil {
			otelhelper.SetError(span, err)

			return nil, fmt.Errorf("failed to append execution for rule %s: %w", rule.ID, err)
		}

		batch = append(batch, execution)
	}

	e.publishCompleted(ctx, eventType, card, batch, logger)

	logger.InfoContext(ctx, "Board event processed", "executions", len(batch))

	return batch, nil
}

func (e *Engine) processRule(
	ctx context.Context,
	rule *models.WorkflowRule,
	eventType models.TriggerType,
	card *models.KanbanCard,
	board *models.KanbanBoard,
	logger *slog.Logger,
) *models.AutomationExecution {
	ctx, span := e.tracer.Start(ctx, "engine.process_rule", trace.WithAttributes(
		attribute.String(otelhelper.RuleIDKey, rule.ID),
	))
	defer span.End()

	logger = logger.With("rule_id", rule.ID, "rule_name", rule.Name)

	start := time.Now()

	execution := &models.AutomationExecution{
		ID:         uuid.New().String(),
		RuleID:     rule.ID,
		CardID:     card.ID,
		ExecutedAt: start.UTC(),
	}

	if !e.evaluator.Evaluate(rule.Conditions, card, board) {
		execution.Status = models.ExecutionSkipped
		execution.DurationMS = time.Since(start).Milliseconds()

		logger.InfoContext(ctx, "Conditions not met, rule skipped")

		return execution
	}

	executionCtx := models.ExecutionContext{
		ID:        execution.ID,
		RuleID:    rule.ID,
		EventType: eventType,
		Card:      card,
		Board:     board,
	}

	results, err := e.executeActions(ctx, rule.Actions, executionCtx, logger)
	execution.Result = results
	execution.DurationMS = time.Since(start).Milliseconds()

	switch {
	case err != nil:
		execution.Status = models.ExecutionError
		execution.Error = err.Error()

		otelhelper.SetError(span, err)
		logger.ErrorContext(ctx, "Rule execution aborted", "error", err)
	case firstActionError(results) != "":
		execution.Status = models.ExecutionError
		execution.Error = firstActionError(results)

		logger.WarnContext(ctx, "Rule executed with failed actions", "error", execution.Error)
	default:
		execution.Status = models.ExecutionSuccess

		logger.InfoContext(ctx, "Rule executed", "actions", len(results))
	}

	return execution
}

// executeActions runs actions strictly sequentially in list order. A failure
// is recorded in that action's result slot and the remaining actions still
// run; there is no rollback. Only context cancellation aborts the loop.
func (e *Engine) executeActions(
	ctx context.Context,
	actions []*models.WorkflowAction,
	executionCtx models.ExecutionContext,
	logger *slog.Logger,
) ([]*models.ActionResult, error) {
	results := make([]*models.ActionResult, 0, len(actions))

	for _, definition := range actions {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("action loop aborted: %w", err)
		}

		result := &models.ActionResult{Type: definition.Type}

		action, err := e.registry.CreateAction(string(definition.Type), definition.Config)
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)

			continue
		}

		output, err := action.Execute(ctx, executionCtx, logger)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Output = output
		}

		results = append(results, result)
	}

	return results, nil
}

func firstActionError(results []*models.ActionResult) string {
	for _, result := range results {
		if result.Error != "" {
			return result.Error
		}
	}

	return ""
}

func (e *Engine) publishCompleted(
	ctx context.Context,
	eventType models.TriggerType,
	card *models.KanbanCard,
	batch []*models.AutomationExecution,
	logger *slog.Logger,
) {
	if e.publisher == nil || len(batch) == 0 {
		return
	}

	event := events.AutomationCompleted{
		BaseEvent: events.BaseEvent{
			ID:        uuid.New().String(),
			Type:      events.AutomationCompletedEvent,
			Timestamp: time.Now().UTC(),
			WorkerID:  e.workerID,
		},
		EventType:  eventType,
		CardID:     card.ID,
		Executions: batch,
	}

	err := e.publisher.Publish(ctx, card.ID, event)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to publish automation.completed event", "error", err)
	}
}
