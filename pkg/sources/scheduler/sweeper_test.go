package scheduler_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowkan/flowkan/pkg/eventbus"
	"github.com/flowkan/flowkan/pkg/events"
	"github.com/flowkan/flowkan/pkg/models"
	"github.com/flowkan/flowkan/pkg/sources/scheduler"
)

type staticBoardProvider struct {
	board *models.KanbanBoard
	err   error
}

func (p *staticBoardProvider) Board(_ context.Context) (*models.KanbanBoard, error) {
	return p.board, p.err
}

type capturingPublisher struct {
	published []eventbus.Event
	err       error
}

func (p *capturingPublisher) Publish(_ context.Context, _ string, event eventbus.Event) error {
	if p.err != nil {
		return p.err
	}

	p.published = append(p.published, event)

	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestNewSweeper_Validation(t *testing.T) {
	t.Parallel()

	_, err := scheduler.NewSweeper("", nil, &capturingPublisher{}, testLogger())
	assert.ErrorIs(t, err, scheduler.ErrBoardProviderRequired)

	_, err = scheduler.NewSweeper("not a schedule", &staticBoardProvider{}, &capturingPublisher{}, testLogger())
	assert.Error(t, err)

	sweeper, err := scheduler.NewSweeper("", &staticBoardProvider{}, &capturingPublisher{}, testLogger())
	require.NoError(t, err)
	assert.NotNil(t, sweeper)
}

func TestSweep_PublishesOverdueCards(t *testing.T) {
	t.Parallel()

	now := time.Now()
	overdue := now.Add(-2 * time.Hour)
	future := now.Add(2 * time.Hour)
	doneOverdue := now.Add(-time.Hour)

	board := &models.KanbanBoard{
		Columns: []*models.KanbanColumn{
			{
				ID: "in-progress",
				Cards: []*models.KanbanCard{
					{ID: "c1", Title: "Overdue", Status: "in-progress", DueDate: &overdue},
					{ID: "c2", Title: "On time", Status: "in-progress", DueDate: &future},
					{ID: "c3", Title: "No due date", Status: "in-progress"},
				},
			},
			{
				ID: "done",
				Cards: []*models.KanbanCard{
					{ID: "c4", Title: "Finished late", Status: "done", DueDate: &doneOverdue},
				},
			},
		},
	}

	publisher := &capturingPublisher{}
	sweeper, err := scheduler.NewSweeper("", &staticBoardProvider{board: board}, publisher, testLogger())
	require.NoError(t, err)

	published := sweeper.Sweep(context.Background())
	assert.Equal(t, 1, published)
	require.Len(t, publisher.published, 1)

	event, ok := publisher.published[0].(events.CardDue)
	require.True(t, ok)
	assert.Equal(t, events.CardDueEvent, event.GetType())
	assert.Equal(t, "c1", event.Card.ID)
	assert.Greater(t, event.OverdueMinutes, 100.0)
	assert.NotNil(t, event.Board)
}

func TestSweep_BoardProviderFailure(t *testing.T) {
	t.Parallel()

	provider := &staticBoardProvider{err: errors.New("no snapshot yet")}
	publisher := &capturingPublisher{}

	sweeper, err := scheduler.NewSweeper("", provider, publisher, testLogger())
	require.NoError(t, err)

	assert.Equal(t, 0, sweeper.Sweep(context.Background()))
	assert.Empty(t, publisher.published)
}

func TestSweep_PublisherFailureSkipsCard(t *testing.T) {
	t.Parallel()

	overdue := time.Now().Add(-time.Hour)
	board := &models.KanbanBoard{
		Columns: []*models.KanbanColumn{
			{ID: "todo", Cards: []*models.KanbanCard{{ID: "c1", Status: "todo", DueDate: &overdue}}},
		},
	}

	publisher := &capturingPublisher{err: errors.New("bus down")}
	sweeper, err := scheduler.NewSweeper("", &staticBoardProvider{board: board}, publisher, testLogger())
	require.NoError(t, err)

	assert.Equal(t, 0, sweeper.Sweep(context.Background()))
}
