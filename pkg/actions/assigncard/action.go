// Package assigncard provides the assign_card action and its three assignment
// strategies over the board snapshot.
package assigncard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/flowkan/flowkan/pkg/models"
)

type Action struct {
	Strategy models.AssignmentStrategy
}

func NewAction(config map[string]any) (*Action, error) {
	strategy, _ := config["strategy"].(string)
	if strategy == "" {
		strategy = string(models.StrategyRoundRobin)
	}

	switch models.AssignmentStrategy(strategy) {
	case models.StrategyRoundRobin, models.StrategyLeastLoaded, models.StrategyBySkill:
	default:
		return nil, fmt.Errorf("unknown assignment strategy '%s'", strategy)
	}

	return &Action{Strategy: models.AssignmentStrategy(strategy)}, nil
}

func (a *Action) Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", "assign_card", "strategy", string(a.Strategy))

	assignee := a.resolveAssignee(executionCtx.Card, executionCtx.Board)

	logger.InfoContext(ctx, "Emitting assign command", "card_id", executionCtx.Card.ID, "assignee", assignee)

	return map[string]any{
		"card_id":  executionCtx.Card.ID,
		"assignee": assignee,
	}, nil
}

func (a *Action) resolveAssignee(card *models.KanbanCard, board *models.KanbanBoard) string {
	assignees := board.Assignees()
	if len(assignees) == 0 {
		return models.Unassigned
	}

	switch a.Strategy {
	case models.StrategyLeastLoaded:
		return leastLoaded(assignees, board)
	case models.StrategyBySkill:
		return bySkill(assignees, card)
	case models.StrategyRoundRobin:
		return assignees[board.TotalCards()%len(assignees)]
	default:
		return assignees[board.TotalCards()%len(assignees)]
	}
}

// leastLoaded picks the assignee with the fewest cards outside the done
// column. Assignees arrive sorted by name, so ties break deterministically on
// the first minimum.
func leastLoaded(assignees []string, board *models.KanbanBoard) string {
	best := assignees[0]
	bestCount := board.ActiveCardCount(best)

	for _, assignee := range assignees[1:] {
		count := board.ActiveCardCount(assignee)
		if count < bestCount {
			best = assignee
			bestCount = count
		}
	}

	return best
}

// bySkill picks the first assignee whose name contains one of the card's tags
// as a case-insensitive substring, falling back to the first known assignee.
func bySkill(assignees []string, card *models.KanbanCard) string {
	for _, assignee := range assignees {
		name := strings.ToLower(assignee)
		for _, tag := range card.Tags {
			if tag != "" && strings.Contains(name, strings.ToLower(tag)) {
				return assignee
			}
		}
	}

	return assignees[0]
}
