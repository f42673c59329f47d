package models

import "time"

// TriggerType is the board event kind a rule listens for.
type TriggerType string

const (
	TriggerCardCreated TriggerType = "card_created"
	TriggerCardMoved   TriggerType = "card_moved"
	TriggerCardUpdated TriggerType = "card_updated"
	TriggerCardDue     TriggerType = "card_due"
)

// RuleTrigger binds a rule to a board event type.
type RuleTrigger struct {
	Type TriggerType `json:"type" validate:"required"`
}

// WorkflowRule is a trigger + conditions + actions automation unit. Identity
// is ID; everything except ID and CreatedAt may change through an explicit
// update. Deletion is hard, past executions keep referencing the id.
type WorkflowRule struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"    validate:"required,min=3"`
	Trigger    RuleTrigger          `json:"trigger" validate:"required"`
	Conditions []*WorkflowCondition `json:"conditions"`
	Actions    []*WorkflowAction    `json:"actions"`
	IsEnabled  bool                 `json:"is_enabled"`
	CreatedAt  time.Time            `json:"created_at"`
}

// ConditionType selects how a condition's field value is derived.
type ConditionType string

const (
	ConditionCardProperty     ConditionType = "card_property"
	ConditionTimeCondition    ConditionType = "time_condition"
	ConditionColumnState      ConditionType = "column_state"
	ConditionAssigneeWorkload ConditionType = "assignee_workload"
)

// ConditionOperator compares the derived field value against the condition value.
type ConditionOperator string

const (
	OperatorEquals      ConditionOperator = "equals"
	OperatorNotEquals   ConditionOperator = "not_equals"
	OperatorContains    ConditionOperator = "contains"
	OperatorGreaterThan ConditionOperator = "greater_than"
	OperatorLessThan    ConditionOperator = "less_than"
	OperatorIn          ConditionOperator = "in"
	OperatorNotIn       ConditionOperator = "not_in"
)

// LogicalOperator chains a condition with the one following it.
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "AND"
	LogicalOr  LogicalOperator = "OR"
)

// WorkflowCondition is a predicate owned by its rule. Order in the list is
// meaningful: each condition's LogicalOperator combines it with the next one.
type WorkflowCondition struct {
	Type            ConditionType     `json:"type"     validate:"required"`
	Field           string            `json:"field,omitempty"`
	Operator        ConditionOperator `json:"operator" validate:"required"`
	Value           any               `json:"value"`
	LogicalOperator LogicalOperator   `json:"logical_operator,omitempty"`
}

// ActionType identifies the action kind; the set is closed.
type ActionType string

const (
	ActionMoveCard         ActionType = "move_card"
	ActionAssignCard       ActionType = "assign_card"
	ActionUpdateProperty   ActionType = "update_property"
	ActionSendNotification ActionType = "send_notification"
	ActionWebhookCall      ActionType = "webhook_call"
	ActionCreateCard       ActionType = "create_card"
)

// WorkflowAction is one side effect of a rule, executed in list order.
type WorkflowAction struct {
	Type   ActionType     `json:"type" validate:"required"`
	Config map[string]any `json:"config"`
}

// AssignmentStrategy picks the assignee for assign_card actions.
type AssignmentStrategy string

const (
	StrategyRoundRobin  AssignmentStrategy = "round_robin"
	StrategyLeastLoaded AssignmentStrategy = "least_loaded"
	StrategyBySkill     AssignmentStrategy = "by_skill"
)

// Unassigned is what assignment strategies fall back to when the board has no
// known assignees.
const Unassigned = "Unassigned"
