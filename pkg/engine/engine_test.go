package engine_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowkan/flowkan/pkg/actions/assigncard"
	"github.com/flowkan/flowkan/pkg/actions/createcard"
	"github.com/flowkan/flowkan/pkg/actions/movecard"
	"github.com/flowkan/flowkan/pkg/actions/notification"
	"github.com/flowkan/flowkan/pkg/actions/updateproperty"
	"github.com/flowkan/flowkan/pkg/actions/webhook"
	"github.com/flowkan/flowkan/pkg/conditions"
	"github.com/flowkan/flowkan/pkg/engine"
	"github.com/flowkan/flowkan/pkg/models"
	"github.com/flowkan/flowkan/pkg/notifier"
	"github.com/flowkan/flowkan/pkg/persistence/memory"
	"github.com/flowkan/flowkan/pkg/registry"
)

type capturingNotifier struct {
	sent []notifier.Notification
}

func (n *capturingNotifier) Send(_ context.Context, notification notifier.Notification) error {
	n.sent = append(n.sent, notification)

	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func newTestEngine(t *testing.T, n notifier.Notifier) (*engine.Engine, *memory.Persistence) {
	t.Helper()

	logger := testLogger()

	reg := registry.NewRegistry(logger)
	reg.RegisterAction(movecard.NewActionFactory())
	reg.RegisterAction(assigncard.NewActionFactory())
	reg.RegisterAction(updateproperty.NewActionFactory())
	reg.RegisterAction(notification.NewActionFactory(n))
	reg.RegisterAction(webhook.NewActionFactory())
	reg.RegisterAction(createcard.NewActionFactory())

	p := memory.NewPersistence()

	return engine.New(logger, p, reg, nil), p
}

func boardWithColumn(columnID string, cardCount int) (*models.KanbanBoard, *models.KanbanCard) {
	cards := make([]*models.KanbanCard, 0, cardCount)
	for i := 0; i < cardCount; i++ {
		cards = append(cards, &models.KanbanCard{
			ID:     string(rune('a' + i)),
			Status: columnID,
		})
	}

	card := &models.KanbanCard{ID: "trigger-card", Title: "Fix login bug", Status: columnID}
	cards = append(cards, card)

	board := &models.KanbanBoard{
		Columns: []*models.KanbanColumn{{ID: columnID, Cards: cards}},
	}

	return board, card
}

func crowdedColumnRule() *models.WorkflowRule {
	return &models.WorkflowRule{
		ID:        "rule-crowded",
		Name:      "Warn on crowded column",
		Trigger:   models.RuleTrigger{Type: models.TriggerCardMoved},
		IsEnabled: true,
		Conditions: []*models.WorkflowCondition{
			{Type: models.ConditionColumnState, Operator: models.OperatorGreaterThan, Value: 5.0},
		},
		Actions: []*models.WorkflowAction{
			{Type: models.ActionSendNotification, Config: map[string]any{
				"recipients": []any{"team"},
				"message":    "Column holding {{cardTitle}} is over capacity",
			}},
		},
	}
}

func TestProcessCardEvent_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	captured := &capturingNotifier{}
	eng, p := newTestEngine(t, captured)

	require.NoError(t, p.RuleRepository().Save(ctx, crowdedColumnRule()))

	// Six cards in the column, the condition (> 5) passes.
	board, card := boardWithColumn("in-progress", 5)

	batch, err := eng.ProcessCardEvent(ctx, models.TriggerCardMoved, card, board)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	execution := batch[0]
	assert.Equal(t, models.ExecutionSuccess, execution.Status)
	assert.Equal(t, "rule-crowded", execution.RuleID)
	assert.Equal(t, "trigger-card", execution.CardID)
	assert.Empty(t, execution.Error)
	require.Len(t, execution.Result, 1)
	assert.Equal(t, models.ActionSendNotification, execution.Result[0].Type)

	require.Len(t, captured.sent, 1)
	assert.Equal(t, []string{"team"}, captured.sent[0].Recipients)
	assert.Equal(t, "Column holding Fix login bug is over capacity", captured.sent[0].Message)

	// The batch also landed in the audit log.
	stored, err := p.ExecutionRepository().List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestProcessCardEvent_ConditionsFailSkips(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	captured := &capturingNotifier{}
	eng, p := newTestEngine(t, captured)

	require.NoError(t, p.RuleRepository().Save(ctx, crowdedColumnRule()))

	// Three cards in the column, the condition (> 5) fails.
	board, card := boardWithColumn("in-progress", 2)

	batch, err := eng.ProcessCardEvent(ctx, models.TriggerCardMoved, card, board)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	assert.Equal(t, models.ExecutionSkipped, batch[0].Status)
	assert.Empty(t, batch[0].Result)
	assert.Empty(t, captured.sent)
}

func TestProcessCardEvent_FiltersByTriggerAndEnabled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	eng, p := newTestEngine(t, &capturingNotifier{})

	wrongTrigger := crowdedColumnRule()
	wrongTrigger.ID = "rule-wrong-trigger"
	wrongTrigger.Trigger.Type = models.TriggerCardCreated
	require.NoError(t, p.RuleRepository().Save(ctx, wrongTrigger))

	disabled := crowdedColumnRule()
	disabled.ID = "rule-disabled"
	disabled.IsEnabled = false
	require.NoError(t, p.RuleRepository().Save(ctx, disabled))

	board, card := boardWithColumn("in-progress", 5)

	batch, err := eng.ProcessCardEvent(ctx, models.TriggerCardMoved, card, board)
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestProcessCardEvent_WebhookFailureRecordsError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	captured := &capturingNotifier{}
	eng, p := newTestEngine(t, captured)

	// A server that is already closed produces a network failure.
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	rule := &models.WorkflowRule{
		ID:        "rule-webhook",
		Name:      "Webhook then notify",
		Trigger:   models.RuleTrigger{Type: models.TriggerCardMoved},
		IsEnabled: true,
		Actions: []*models.WorkflowAction{
			{Type: models.ActionWebhookCall, Config: map[string]any{"url": server.URL}},
			{Type: models.ActionSendNotification, Config: map[string]any{
				"recipients": []any{"team"},
				"message":    "after webhook",
			}},
		},
	}
	require.NoError(t, p.RuleRepository().Save(ctx, rule))

	board, card := boardWithColumn("in-progress", 0)

	// The action failure stays inside the audit record; the call itself succeeds.
	batch, err := eng.ProcessCardEvent(ctx, models.TriggerCardMoved, card, board)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	execution := batch[0]
	assert.Equal(t, models.ExecutionError, execution.Status)
	assert.NotEmpty(t, execution.Error)
	require.Len(t, execution.Result, 2)
	assert.NotEmpty(t, execution.Result[0].Error)

	// The failing webhook did not abort the notification that follows it.
	assert.Empty(t, execution.Result[1].Error)
	assert.Len(t, captured.sent, 1)
}

func TestProcessCardEvent_UnknownActionTypeRecordsError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	eng, p := newTestEngine(t, &capturingNotifier{})

	rule := crowdedColumnRule()
	rule.Conditions = nil
	rule.Actions = []*models.WorkflowAction{{Type: "teleport_card", Config: map[string]any{}}}
	require.NoError(t, p.RuleRepository().Save(ctx, rule))

	board, card := boardWithColumn("in-progress", 0)

	batch, err := eng.ProcessCardEvent(ctx, models.TriggerCardMoved, card, board)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, models.ExecutionError, batch[0].Status)
	require.Len(t, batch[0].Result, 1)
	assert.Contains(t, batch[0].Result[0].Error, "not registered")
}

func TestProcessCardEvent_DurationRecorded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	eng, p := newTestEngine(t, &capturingNotifier{})

	require.NoError(t, p.RuleRepository().Save(ctx, crowdedColumnRule()))

	board, card := boardWithColumn("in-progress", 2)

	batch, err := eng.ProcessCardEvent(ctx, models.TriggerCardMoved, card, board)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.GreaterOrEqual(t, batch[0].DurationMS, int64(0))
	assert.False(t, batch[0].ExecutedAt.IsZero())
}

func TestProcessCardEvent_TimeConditionWithPinnedClock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	eng, p := newTestEngine(t, &capturingNotifier{})

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	eng.SetEvaluator(conditions.NewEvaluatorAt(func() time.Time { return now }))

	rule := &models.WorkflowRule{
		ID:        "rule-overdue",
		Name:      "Escalate overdue cards",
		Trigger:   models.RuleTrigger{Type: models.TriggerCardDue},
		IsEnabled: true,
		Conditions: []*models.WorkflowCondition{
			{Type: models.ConditionTimeCondition, Operator: models.OperatorGreaterThan, Value: 60.0},
		},
		Actions: []*models.WorkflowAction{
			{Type: models.ActionUpdateProperty, Config: map[string]any{"property": "priority", "value": "urgent"}},
		},
	}
	require.NoError(t, p.RuleRepository().Save(ctx, rule))

	dueDate := now.Add(-2 * time.Hour)
	card := &models.KanbanCard{ID: "c1", Title: "Stale", Status: "todo", DueDate: &dueDate}
	board := &models.KanbanBoard{Columns: []*models.KanbanColumn{{ID: "todo", Cards: []*models.KanbanCard{card}}}}

	batch, err := eng.ProcessCardEvent(ctx, models.TriggerCardDue, card, board)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, models.ExecutionSuccess, batch[0].Status)

	// Thirty minutes overdue does not clear the 60 minute threshold.
	closeDue := now.Add(-30 * time.Minute)
	card.DueDate = &closeDue

	batch, err = eng.ProcessCardEvent(ctx, models.TriggerCardDue, card, board)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, models.ExecutionSkipped, batch[0].Status)
}

func TestRuleCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	eng, _ := newTestEngine(t, &capturingNotifier{})

	rule := &models.WorkflowRule{
		Name:      "Escalate overdue cards",
		Trigger:   models.RuleTrigger{Type: models.TriggerCardDue},
		IsEnabled: true,
	}

	created, err := eng.AddRule(ctx, rule)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	createdAt := created.CreatedAt

	time.Sleep(5 * time.Millisecond)

	update := &models.WorkflowRule{
		ID:        created.ID,
		Name:      "Escalate overdue cards hard",
		Trigger:   models.RuleTrigger{Type: models.TriggerCardDue},
		IsEnabled: false,
	}

	updated, err := eng.UpdateRule(ctx, update)
	require.NoError(t, err)
	assert.Equal(t, "Escalate overdue cards hard", updated.Name)
	assert.Equal(t, createdAt, updated.CreatedAt)

	rules, err := eng.Rules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 1)

	require.NoError(t, eng.DeleteRule(ctx, created.ID))

	rules, err = eng.Rules(ctx)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestDeleteRule_KeepsPastExecutions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	eng, p := newTestEngine(t, &capturingNotifier{})

	rule := crowdedColumnRule()
	require.NoError(t, p.RuleRepository().Save(ctx, rule))

	board, card := boardWithColumn("in-progress", 5)

	_, err := eng.ProcessCardEvent(ctx, models.TriggerCardMoved, card, board)
	require.NoError(t, err)

	require.NoError(t, eng.DeleteRule(ctx, rule.ID))

	// The audit log keeps referencing the deleted rule's id.
	executions, err := eng.ExecutionsByRule(ctx, rule.ID)
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, rule.ID, executions[0].RuleID)

	require.NoError(t, eng.ClearExecutions(ctx))

	executions, err = eng.Executions(ctx)
	require.NoError(t, err)
	assert.Empty(t, executions)
}

func TestProcessCardEvent_MultipleRulesInOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	eng, p := newTestEngine(t, &capturingNotifier{})

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	move := &models.WorkflowRule{
		ID:        "rule-move",
		Name:      "Move to review",
		Trigger:   models.RuleTrigger{Type: models.TriggerCardMoved},
		IsEnabled: true,
		CreatedAt: base,
		Actions: []*models.WorkflowAction{
			{Type: models.ActionMoveCard, Config: map[string]any{"target_column": "review"}},
		},
	}
	patch := &models.WorkflowRule{
		ID:        "rule-patch",
		Name:      "Bump priority",
		Trigger:   models.RuleTrigger{Type: models.TriggerCardMoved},
		IsEnabled: true,
		CreatedAt: base.Add(time.Minute),
		Actions: []*models.WorkflowAction{
			{Type: models.ActionUpdateProperty, Config: map[string]any{"property": "priority", "value": "high"}},
		},
	}

	require.NoError(t, p.RuleRepository().Save(ctx, patch))
	require.NoError(t, p.RuleRepository().Save(ctx, move))

	board, card := boardWithColumn("in-progress", 0)

	batch, err := eng.ProcessCardEvent(ctx, models.TriggerCardMoved, card, board)
	require.NoError(t, err)
	require.Len(t, batch, 2)

	// Rules run in creation order.
	assert.Equal(t, "rule-move", batch[0].RuleID)
	assert.Equal(t, "rule-patch", batch[1].RuleID)
	assert.Equal(t, models.ExecutionSuccess, batch[0].Status)
	assert.Equal(t, models.ExecutionSuccess, batch[1].Status)
}
