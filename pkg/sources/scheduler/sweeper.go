// Package scheduler publishes card_due board events on a cron schedule so
// time_condition rules fire without board traffic.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/flowkan/flowkan/pkg/eventbus"
	"github.com/flowkan/flowkan/pkg/events"
	"github.com/flowkan/flowkan/pkg/models"
)

const defaultSchedule = "*/5 * * * *"

// ErrBoardProviderRequired is returned when no board provider is configured.
var ErrBoardProviderRequired = errors.New("board provider is required")

// BoardProvider supplies the current board snapshot at sweep time.
type BoardProvider interface {
	Board(ctx context.Context) (*models.KanbanBoard, error)
}

// Sweeper scans the board on each tick and publishes one card_due event per
// card whose due date has passed.
type Sweeper struct {
	schedule  string
	boards    BoardProvider
	publisher eventbus.EventPublisher
	logger    *slog.Logger
	cron      *cron.Cron
	now       func() time.Time
}

func NewSweeper(schedule string, boards BoardProvider, publisher eventbus.EventPublisher, logger *slog.Logger) (*Sweeper, error) {
	if boards == nil {
		return nil, ErrBoardProviderRequired
	}

	if schedule == "" {
		schedule = defaultSchedule
	}

	_, err := cron.ParseStandard(schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule: %w", err)
	}

	return &Sweeper{
		schedule:  schedule,
		boards:    boards,
		publisher: publisher,
		logger:    logger.With("module", "due_sweeper", "schedule", schedule),
		now:       time.Now,
	}, nil
}

func (s *Sweeper) Start(ctx context.Context) error {
	s.cron = cron.New()

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.Sweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule due sweep: %w", err)
	}

	s.cron.Start()
	s.logger.InfoContext(ctx, "Due-date sweeper started")

	return nil
}

func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep publishes events for overdue cards and returns how many were emitted.
func (s *Sweeper) Sweep(ctx context.Context) int {
	board, err := s.boards.Board(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load board snapshot", "error", err)

		return 0
	}

	now := s.now()
	published := 0

	for _, column := range board.Columns {
		for _, card := range column.Cards {
			if card.DueDate == nil || card.Status == models.DoneColumnID || !card.DueDate.Before(now) {
				continue
			}

			event := events.CardDue{
				CardEvent: events.CardEvent{
					BaseEvent: events.BaseEvent{
						ID:        uuid.New().String(),
						Type:      events.CardDueEvent,
						Timestamp: now.UTC(),
					},
					Card:  card,
					Board: board,
				},
				OverdueMinutes: now.Sub(*card.DueDate).Minutes(),
			}

			err = s.publisher.Publish(ctx, card.ID, event)
			if err != nil {
				s.logger.ErrorContext(ctx, "Failed to publish card_due event", "card_id", card.ID, "error", err)

				continue
			}

			published++
		}
	}

	if published > 0 {
		s.logger.InfoContext(ctx, "Due sweep completed", "events", published)
	}

	return published
}
