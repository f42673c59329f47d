package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/flowkan/flowkan/pkg/models"
)

// ExecutionRepository stores audit records as JSONB rows. Rows are only ever
// inserted or bulk-deleted by Clear.
type ExecutionRepository struct {
	db *sql.DB
}

func (r *ExecutionRepository) List(ctx context.Context) ([]*models.AutomationExecution, error) {
	return r.query(ctx,
		`SELECT data FROM automation_executions ORDER BY executed_at, id`)
}

func (r *ExecutionRepository) ListByRule(ctx context.Context, ruleID string) ([]*models.AutomationExecution, error) {
	return r.query(ctx,
		`SELECT data FROM automation_executions WHERE rule_id = $1 ORDER BY executed_at, id`, ruleID)
}

func (r *ExecutionRepository) query(ctx context.Context, query string, args ...any) ([]*models.AutomationExecution, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	executions := make([]*models.AutomationExecution, 0)

	for rows.Next() {
		var body []byte

		err = rows.Scan(&body)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution row: %w", err)
		}

		var execution models.AutomationExecution

		err = json.Unmarshal(body, &execution)
		if err != nil {
			return nil, fmt.Errorf("failed to decode execution: %w", err)
		}

		executions = append(executions, &execution)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate executions: %w", err)
	}

	return executions, nil
}

func (r *ExecutionRepository) Append(ctx context.Context, execution *models.AutomationExecution) error {
	body, err := json.Marshal(execution)
	if err != nil {
		return fmt.Errorf("failed to encode execution %s: %w", execution.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO automation_executions (id, rule_id, executed_at, data)
		VALUES ($1, $2, $3, $4)`,
		execution.ID, execution.RuleID, execution.ExecutedAt, body)
	if err != nil {
		return fmt.Errorf("failed to append execution %s: %w", execution.ID, err)
	}

	return nil
}

func (r *ExecutionRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM automation_executions`)
	if err != nil {
		return fmt.Errorf("failed to clear executions: %w", err)
	}

	return nil
}
