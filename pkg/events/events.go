// Package events defines the board event types flowing through the event bus.
package events

import (
	"time"

	"github.com/flowkan/flowkan/pkg/models"
)

type EventType string

// Topic carries all board and automation events.
const Topic = "flowkan.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	CardCreatedEvent EventType = "board.card.created"
	CardMovedEvent   EventType = "board.card.moved"
	CardUpdatedEvent EventType = "board.card.updated"
	CardDueEvent     EventType = "board.card.due"

	AutomationCompletedEvent EventType = "automation.completed"
)

// TriggerType maps a board event type to the rule trigger it fires. The empty
// string means the event triggers no rules (automation results themselves).
func (t EventType) TriggerType() models.TriggerType {
	switch t {
	case CardCreatedEvent:
		return models.TriggerCardCreated
	case CardMovedEvent:
		return models.TriggerCardMoved
	case CardUpdatedEvent:
		return models.TriggerCardUpdated
	case CardDueEvent:
		return models.TriggerCardDue
	case AutomationCompletedEvent:
		return ""
	default:
		return ""
	}
}

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	WorkerID  string         `json:"worker_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// CardEvent is the shared payload of board events: the affected card plus the
// board snapshot taken at event time.
type CardEvent struct {
	BaseEvent

	Card  *models.KanbanCard  `json:"card"`
	Board *models.KanbanBoard `json:"board"`
}

type CardCreated struct {
	CardEvent
}

func (CardCreated) GetType() EventType {
	return CardCreatedEvent
}

type CardMoved struct {
	CardEvent

	FromColumn string `json:"from_column,omitempty"`
}

func (CardMoved) GetType() EventType {
	return CardMovedEvent
}

type CardUpdated struct {
	CardEvent

	ChangedFields []string `json:"changed_fields,omitempty"`
}

func (CardUpdated) GetType() EventType {
	return CardUpdatedEvent
}

type CardDue struct {
	CardEvent

	OverdueMinutes float64 `json:"overdue_minutes"`
}

func (CardDue) GetType() EventType {
	return CardDueEvent
}

// AutomationCompleted reports one processed batch so collaborating processes
// can apply the resulting commands to their board state.
type AutomationCompleted struct {
	BaseEvent

	EventType  models.TriggerType            `json:"trigger_event_type"`
	CardID     string                        `json:"card_id"`
	Executions []*models.AutomationExecution `json:"executions"`
}

func (AutomationCompleted) GetType() EventType {
	return AutomationCompletedEvent
}
