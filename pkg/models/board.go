package models

import "sort"

// KanbanColumn holds an ordered list of cards.
type KanbanColumn struct {
	ID    string        `json:"id"`
	Title string        `json:"title"`
	Cards []*KanbanCard `json:"cards"`
}

// KanbanBoard is the read-only snapshot of the whole board handed to the
// engine alongside each event. Evaluator and assignment strategies derive
// everything they need from it.
type KanbanBoard struct {
	Columns []*KanbanColumn `json:"columns"`
}

// ColumnCardCount returns how many cards sit in the column with the given id.
func (b *KanbanBoard) ColumnCardCount(columnID string) int {
	for _, column := range b.Columns {
		if column.ID == columnID {
			return len(column.Cards)
		}
	}

	return 0
}

// TotalCards counts cards across all columns.
func (b *KanbanBoard) TotalCards() int {
	total := 0
	for _, column := range b.Columns {
		total += len(column.Cards)
	}

	return total
}

// AssigneeWorkload counts cards assigned to the given assignee across all columns.
func (b *KanbanBoard) AssigneeWorkload(assignee string) int {
	count := 0

	for _, column := range b.Columns {
		for _, card := range column.Cards {
			if card.Assignee == assignee {
				count++
			}
		}
	}

	return count
}

// ActiveCardCount counts cards of the given assignee that are not in the
// terminal done column.
func (b *KanbanBoard) ActiveCardCount(assignee string) int {
	count := 0

	for _, column := range b.Columns {
		for _, card := range column.Cards {
			if card.Assignee == assignee && card.Status != DoneColumnID {
				count++
			}
		}
	}

	return count
}

// Assignees returns the deduplicated, name-sorted list of all non-empty
// assignees on the board. Sorting keeps assignment strategies deterministic.
func (b *KanbanBoard) Assignees() []string {
	seen := make(map[string]struct{})

	for _, column := range b.Columns {
		for _, card := range column.Cards {
			if card.Assignee != "" {
				seen[card.Assignee] = struct{}{}
			}
		}
	}

	assignees := make([]string, 0, len(seen))
	for assignee := range seen {
		assignees = append(assignees, assignee)
	}

	sort.Strings(assignees)

	return assignees
}
