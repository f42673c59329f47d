package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flowkan/flowkan/pkg/models"
)

// AddRule stamps id and creation time and persists the rule.
func (e *Engine) AddRule(ctx context.Context, rule *models.WorkflowRule) (*models.WorkflowRule, error) {
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}

	rule.CreatedAt = time.Now().UTC()

	err := e.persistence.RuleRepository().Save(ctx, rule)
	if err != nil {
		return nil, fmt.Errorf("failed to save rule: %w", err)
	}

	return rule, nil
}

// UpdateRule replaces an existing rule's mutable parts. Identity and creation
// time are preserved from the stored rule.
func (e *Engine) UpdateRule(ctx context.Context, rule *models.WorkflowRule) (*models.WorkflowRule, error) {
	existing, err := e.persistence.RuleRepository().GetByID(ctx, rule.ID)
	if err != nil {
		return nil, err
	}

	rule.CreatedAt = existing.CreatedAt

	err = e.persistence.RuleRepository().Save(ctx, rule)
	if err != nil {
		return nil, fmt.Errorf("failed to save rule: %w", err)
	}

	return rule, nil
}

// DeleteRule removes the rule. Past executions referencing it are kept; their
// rule id is allowed to dangle.
func (e *Engine) DeleteRule(ctx context.Context, id string) error {
	return e.persistence.RuleRepository().Delete(ctx, id)
}

func (e *Engine) Rules(ctx context.Context) ([]*models.WorkflowRule, error) {
	return e.persistence.RuleRepository().List(ctx)
}

func (e *Engine) Rule(ctx context.Context, id string) (*models.WorkflowRule, error) {
	return e.persistence.RuleRepository().GetByID(ctx, id)
}

func (e *Engine) Executions(ctx context.Context) ([]*models.AutomationExecution, error) {
	return e.persistence.ExecutionRepository().List(ctx)
}

func (e *Engine) ExecutionsByRule(ctx context.Context, ruleID string) ([]*models.AutomationExecution, error) {
	return e.persistence.ExecutionRepository().ListByRule(ctx, ruleID)
}

func (e *Engine) ClearExecutions(ctx context.Context) error {
	return e.persistence.ExecutionRepository().Clear(ctx)
}

// HealthCheck reports the health of the underlying storage.
func (e *Engine) HealthCheck(ctx context.Context) error {
	return e.persistence.HealthCheck(ctx)
}
