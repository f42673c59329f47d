// Package persistence provides the storage abstraction for rules and the
// execution audit log.
package persistence

import (
	"context"

	"github.com/flowkan/flowkan/pkg/models"
)

// RuleRepository stores workflow rules. Save is an upsert; Delete is hard and
// does not touch past executions referencing the rule.
type RuleRepository interface {
	List(ctx context.Context) ([]*models.WorkflowRule, error)
	GetByID(ctx context.Context, id string) (*models.WorkflowRule, error)
	Save(ctx context.Context, rule *models.WorkflowRule) error
	Delete(ctx context.Context, id string) error
}

// ExecutionRepository is the append-only audit log. Entries are never mutated;
// Clear drops the whole log on explicit caller request.
type ExecutionRepository interface {
	List(ctx context.Context) ([]*models.AutomationExecution, error)
	ListByRule(ctx context.Context, ruleID string) ([]*models.AutomationExecution, error)
	Append(ctx context.Context, execution *models.AutomationExecution) error
	Clear(ctx context.Context) error
}

type Persistence interface {
	RuleRepository() RuleRepository
	ExecutionRepository() ExecutionRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
