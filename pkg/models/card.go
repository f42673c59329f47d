// Package models defines the core domain models for kanban workflow automation.
package models

import "time"

// DoneColumnID is the terminal column. Cards sitting there do not count
// towards an assignee's active workload.
const DoneColumnID = "done"

// KanbanCard is a single card on the board. The engine reads cards and emits
// commands; it never mutates board state directly.
type KanbanCard struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"       validate:"required"`
	Description    string     `json:"description,omitempty"`
	Status         string     `json:"status"` // id of the column holding the card
	Priority       string     `json:"priority,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	Assignee       string     `json:"assignee,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	EstimatedHours float64    `json:"estimated_hours"`
	CompletedHours float64    `json:"completed_hours"`
	Attachments    int        `json:"attachments"`
	Comments       int        `json:"comments"`
}

// Property resolves a card field by its wire name for card_property conditions.
// Unknown fields report false rather than an error so malformed conditions
// never fire a rule.
func (c *KanbanCard) Property(field string) (any, bool) {
	switch field {
	case "id":
		return c.ID, true
	case "title":
		return c.Title, true
	case "description":
		return c.Description, true
	case "status":
		return c.Status, true
	case "priority":
		return c.Priority, true
	case "tags":
		return c.Tags, true
	case "assignee":
		return c.Assignee, true
	case "due_date":
		if c.DueDate == nil {
			return nil, true
		}

		return c.DueDate.Format(time.RFC3339), true
	case "created_at":
		return c.CreatedAt.Format(time.RFC3339), true
	case "estimated_hours":
		return c.EstimatedHours, true
	case "completed_hours":
		return c.CompletedHours, true
	case "attachments":
		return c.Attachments, true
	case "comments":
		return c.Comments, true
	default:
		return nil, false
	}
}

// ReferenceTime is the instant time_condition measures elapsed minutes from:
// the due date when set, otherwise the creation time. The zero time signals a
// card with neither, which must never satisfy a time condition.
func (c *KanbanCard) ReferenceTime() time.Time {
	if c.DueDate != nil {
		return *c.DueDate
	}

	return c.CreatedAt
}
