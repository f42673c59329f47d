package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowkan/flowkan/pkg/models"
)

func sampleBoard() *models.KanbanBoard {
	return &models.KanbanBoard{
		Columns: []*models.KanbanColumn{
			{
				ID: "backlog",
				Cards: []*models.KanbanCard{
					{ID: "c1", Status: "backlog", Assignee: "carol"},
					{ID: "c2", Status: "backlog"},
				},
			},
			{
				ID: "in-progress",
				Cards: []*models.KanbanCard{
					{ID: "c3", Status: "in-progress", Assignee: "alice"},
					{ID: "c4", Status: "in-progress", Assignee: "bob"},
				},
			},
			{
				ID: "done",
				Cards: []*models.KanbanCard{
					{ID: "c5", Status: "done", Assignee: "alice"},
				},
			},
		},
	}
}

func TestBoardCounts(t *testing.T) {
	t.Parallel()

	board := sampleBoard()

	assert.Equal(t, 2, board.ColumnCardCount("backlog"))
	assert.Equal(t, 0, board.ColumnCardCount("missing"))
	assert.Equal(t, 5, board.TotalCards())
	assert.Equal(t, 2, board.AssigneeWorkload("alice"))
	assert.Equal(t, 0, board.AssigneeWorkload("nobody"))
}

func TestBoardActiveCardCount_ExcludesDone(t *testing.T) {
	t.Parallel()

	board := sampleBoard()

	assert.Equal(t, 1, board.ActiveCardCount("alice"))
	assert.Equal(t, 1, board.ActiveCardCount("bob"))
}

func TestBoardAssignees_SortedAndDeduplicated(t *testing.T) {
	t.Parallel()

	board := sampleBoard()

	assert.Equal(t, []string{"alice", "bob", "carol"}, board.Assignees())
}

func TestBoardAssignees_EmptyBoard(t *testing.T) {
	t.Parallel()

	board := &models.KanbanBoard{}

	assert.Empty(t, board.Assignees())
	assert.Equal(t, 0, board.TotalCards())
}
