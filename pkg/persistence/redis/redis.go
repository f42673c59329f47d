// Package redis provides Redis-backed persistence: rules in a hash keyed by
// rule id, the execution log in a list.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/flowkan/flowkan/pkg/models"
	"github.com/flowkan/flowkan/pkg/persistence"
)

const (
	rulesKey      = "flowkan:rules"
	executionsKey = "flowkan:executions"
)

// Persistence implements persistence.Persistence on a Redis connection.
type Persistence struct {
	client        redis.UniversalClient
	ruleRepo      *RuleRepository
	executionRepo *ExecutionRepository
}

func NewPersistence(ctx context.Context, redisURL string) (*Persistence, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	err = client.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Persistence{
		client:        client,
		ruleRepo:      &RuleRepository{client: client},
		executionRepo: &ExecutionRepository{client: client},
	}, nil
}

func (p *Persistence) RuleRepository() persistence.RuleRepository {
	return p.ruleRepo
}

func (p *Persistence) ExecutionRepository() persistence.ExecutionRepository {
	return p.executionRepo
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	err := p.client.Close()
	if err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}

// RuleRepository stores rules as JSON fields of one hash.
type RuleRepository struct {
	client redis.UniversalClient
}

func (r *RuleRepository) List(ctx context.Context) ([]*models.WorkflowRule, error) {
	entries, err := r.client.HGetAll(ctx, rulesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}

	rules := make([]*models.WorkflowRule, 0, len(entries))

	for id, body := range entries {
		var rule models.WorkflowRule

		err = json.Unmarshal([]byte(body), &rule)
		if err != nil {
			return nil, persistence.NewRuleError("List", id, err)
		}

		rules = append(rules, &rule)
	}

	sortRules(rules)

	return rules, nil
}

func (r *RuleRepository) GetByID(ctx context.Context, id string) (*models.WorkflowRule, error) {
	body, err := r.client.HGet(ctx, rulesKey, id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, persistence.NewRuleError("GetByID", id, persistence.ErrRuleNotFound)
		}

		return nil, persistence.NewRuleError("GetByID", id, err)
	}

	var rule models.WorkflowRule

	err = json.Unmarshal([]byte(body), &rule)
	if err != nil {
		return nil, persistence.NewRuleError("GetByID", id, err)
	}

	return &rule, nil
}

func (r *RuleRepository) Save(ctx context.Context, rule *models.WorkflowRule) error {
	body, err := json.Marshal(rule)
	if err != nil {
		return persistence.NewRuleError("Save", rule.ID, err)
	}

	err = r.client.HSet(ctx, rulesKey, rule.ID, body).Err()
	if err != nil {
		return persistence.NewRuleError("Save", rule.ID, err)
	}

	return nil
}

func (r *RuleRepository) Delete(ctx context.Context, id string) error {
	removed, err := r.client.HDel(ctx, rulesKey, id).Result()
	if err != nil {
		return persistence.NewRuleError("Delete", id, err)
	}

	if removed == 0 {
		return persistence.NewRuleError("Delete", id, persistence.ErrRuleNotFound)
	}

	return nil
}

// Hash iteration order is random; present rules in creation order.
func sortRules(rules []*models.WorkflowRule) {
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].CreatedAt.Equal(rules[j].CreatedAt) {
			return rules[i].ID < rules[j].ID
		}

		return rules[i].CreatedAt.Before(rules[j].CreatedAt)
	})
}

// ExecutionRepository appends audit records to a list, preserving arrival order.
type ExecutionRepository struct {
	client redis.UniversalClient
}

func (r *ExecutionRepository) List(ctx context.Context) ([]*models.AutomationExecution, error) {
	entries, err := r.client.LRange(ctx, executionsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}

	executions := make([]*models.AutomationExecution, 0, len(entries))

	for _, body := range entries {
		var execution models.AutomationExecution

		err = json.Unmarshal([]byte(body), &execution)
		if err != nil {
			return nil, fmt.Errorf("failed to decode execution: %w", err)
		}

		executions = append(executions, &execution)
	}

	return executions, nil
}

func (r *ExecutionRepository) ListByRule(ctx context.Context, ruleID string) ([]*models.AutomationExecution, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	executions := make([]*models.AutomationExecution, 0)

	for _, execution := range all {
		if execution.RuleID == ruleID {
			executions = append(executions, execution)
		}
	}

	return executions, nil
}

func (r *ExecutionRepository) Append(ctx context.Context, execution *models.AutomationExecution) error {
	body, err := json.Marshal(execution)
	if err != nil {
		return fmt.Errorf("failed to encode execution %s: %w", execution.ID, err)
	}

	err = r.client.RPush(ctx, executionsKey, body).Err()
	if err != nil {
		return fmt.Errorf("failed to append execution %s: %w", execution.ID, err)
	}

	return nil
}

func (r *ExecutionRepository) Clear(ctx context.Context) error {
	err := r.client.Del(ctx, executionsKey).Err()
	if err != nil {
		return fmt.Errorf("failed to clear executions: %w", err)
	}

	return nil
}
