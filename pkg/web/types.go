// Package web provides the HTTP API for rule management and board event ingestion.
package web

import "github.com/flowkan/flowkan/pkg/models"

// CreateRuleRequest is the request body for creating a rule.
type CreateRuleRequest struct {
	Name       string                      `json:"name"       validate:"required,min=3"`
	Trigger    models.RuleTrigger          `json:"trigger"    validate:"required"`
	Conditions []*models.WorkflowCondition `json:"conditions" validate:"dive"`
	Actions    []*models.WorkflowAction    `json:"actions"    validate:"dive"`
	IsEnabled  *bool                       `json:"is_enabled"`
}

// UpdateRuleRequest is the request body for updating a rule. Absent fields
// keep their stored values.
type UpdateRuleRequest struct {
	Name       *string                     `json:"name,omitempty" validate:"omitempty,min=3"`
	Trigger    *models.RuleTrigger         `json:"trigger,omitempty"`
	Conditions []*models.WorkflowCondition `json:"conditions,omitempty" validate:"omitempty,dive"`
	Actions    []*models.WorkflowAction    `json:"actions,omitempty"    validate:"omitempty,dive"`
	IsEnabled  *bool                       `json:"is_enabled,omitempty"`
}

// ProcessEventRequest is the request body for board event ingestion: the event
// type, the affected card and the full board snapshot.
type ProcessEventRequest struct {
	EventType models.TriggerType  `json:"event_type" validate:"required,oneof=card_created card_moved card_updated card_due"`
	Card      *models.KanbanCard  `json:"card"       validate:"required"`
	Board     *models.KanbanBoard `json:"board"      validate:"required"`
}

// ProcessEventResponse returns the audit batch the event produced.
type ProcessEventResponse struct {
	Executions []*models.AutomationExecution `json:"executions"`
}

// RegisteredActionResponse describes one registered action type for tooling.
type RegisteredActionResponse struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"schema"`
}
