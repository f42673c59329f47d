package models

import "time"

// ExecutionStatus is the outcome of one rule evaluated against one event.
type ExecutionStatus string

const (
	ExecutionSuccess ExecutionStatus = "success"
	ExecutionSkipped ExecutionStatus = "skipped"
	ExecutionError   ExecutionStatus = "error"
)

// ActionResult is one action's slot in an execution result: either a
// type-tagged output map (a command for the caller to apply, or a dispatch
// receipt) or an error message. Never both.
type ActionResult struct {
	Type   ActionType     `json:"type"`
	Output map[string]any `json:"output,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// AutomationExecution is an append-only audit record. One is created per
// (rule, triggering event) pair and never mutated afterwards. RuleID may
// dangle once the rule is deleted; readers must tolerate that.
type AutomationExecution struct {
	ID         string          `json:"id"`
	RuleID     string          `json:"rule_id"`
	CardID     string          `json:"card_id"`
	Status     ExecutionStatus `json:"status"`
	ExecutedAt time.Time       `json:"executed_at"`
	DurationMS int64           `json:"duration_ms"`
	Result     []*ActionResult `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// ExecutionContext is the value handed to each action: the triggering card,
// the board snapshot and identifiers for audit correlation.
type ExecutionContext struct {
	ID        string       `json:"id"`
	RuleID    string       `json:"rule_id"`
	EventType TriggerType  `json:"event_type"`
	Card      *KanbanCard  `json:"card"`
	Board     *KanbanBoard `json:"board"`
}
