// Package memory provides in-memory persistence, used by tests and embedded callers.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/flowkan/flowkan/pkg/models"
	"github.com/flowkan/flowkan/pkg/persistence"
)

// Persistence keeps rules and executions in process memory behind a mutex.
type Persistence struct {
	mu         sync.RWMutex
	rules      map[string]*models.WorkflowRule
	executions []*models.AutomationExecution
}

func NewPersistence() *Persistence {
	return &Persistence{
		rules: make(map[string]*models.WorkflowRule),
	}
}

func (p *Persistence) RuleRepository() persistence.RuleRepository {
	return &ruleRepository{persistence: p}
}

func (p *Persistence) ExecutionRepository() persistence.ExecutionRepository {
	return &executionRepository{persistence: p}
}

func (p *Persistence) HealthCheck(_ context.Context) error {
	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	return nil
}

type ruleRepository struct {
	persistence *Persistence
}

func (r *ruleRepository) List(_ context.Context) ([]*models.WorkflowRule, error) {
	r.persistence.mu.RLock()
	defer r.persistence.mu.RUnlock()

	rules := make([]*models.WorkflowRule, 0, len(r.persistence.rules))
	for _, rule := range r.persistence.rules {
		rules = append(rules, rule)
	}

	sort.Slice(rules, func(i, j int) bool {
		if rules[i].CreatedAt.Equal(rules[j].CreatedAt) {
			return rules[i].ID < rules[j].ID
		}

		return rules[i].CreatedAt.Before(rules[j].CreatedAt)
	})

	return rules, nil
}

func (r *ruleRepository) GetByID(_ context.Context, id string) (*models.WorkflowRule, error) {
	r.persistence.mu.RLock()
	defer r.persistence.mu.RUnlock()

	rule, ok := r.persistence.rules[id]
	if !ok {
		return nil, persistence.NewRuleError("GetByID", id, persistence.ErrRuleNotFound)
	}

	return rule, nil
}

func (r *ruleRepository) Save(_ context.Context, rule *models.WorkflowRule) error {
	r.persistence.mu.Lock()
	defer r.persistence.mu.Unlock()

	r.persistence.rules[rule.ID] = rule

	return nil
}

func (r *ruleRepository) Delete(_ context.Context, id string) error {
	r.persistence.mu.Lock()
	defer r.persistence.mu.Unlock()

	if _, ok := r.persistence.rules[id]; !ok {
		return persistence.NewRuleError("Delete", id, persistence.ErrRuleNotFound)
	}

	delete(r.persistence.rules, id)

	return nil
}

type executionRepository struct {
	persistence *Persistence
}

func (r *executionRepository) List(_ context.Context) ([]*models.AutomationExecution, error) {
	r.persistence.mu.RLock()
	defer r.persistence.mu.RUnlock()

	executions := make([]*models.AutomationExecution, len(r.persistence.executions))
	copy(executions, r.persistence.executions)

	return executions, nil
}

func (r *executionRepository) ListByRule(_ context.Context, ruleID string) ([]*models.AutomationExecution, error) {
	r.persistence.mu.RLock()
	defer r.persistence.mu.RUnlock()

	executions := make([]*models.AutomationExecution, 0)

	for _, execution := range r.persistence.executions {
		if execution.RuleID == ruleID {
			executions = append(executions, execution)
		}
	}

	return executions, nil
}

func (r *executionRepository) Append(_ context.Context, execution *models.AutomationExecution) error {
	r.persistence.mu.Lock()
	defer r.persistence.mu.Unlock()

	r.persistence.executions = append(r.persistence.executions, execution)

	return nil
}

func (r *executionRepository) Clear(_ context.Context) error {
	r.persistence.mu.Lock()
	defer r.persistence.mu.Unlock()

	r.persistence.executions = nil

	return nil
}
