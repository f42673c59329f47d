package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/flowkan/flowkan/pkg/models"
	"github.com/flowkan/flowkan/pkg/persistence"
)

// RuleRepository stores rules as JSONB rows.
type RuleRepository struct {
	db *sql.DB
}

func (r *RuleRepository) List(ctx context.Context) ([]*models.WorkflowRule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT data FROM workflow_rules ORDER BY created_at, id`)
	if err != nil {
		return nil, persistence.NewRuleError("List", "", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	rules := make([]*models.WorkflowRule, 0)

	for rows.Next() {
		var body []byte

		err = rows.Scan(&body)
		if err != nil {
			return nil, persistence.NewRuleError("List", "", err)
		}

		var rule models.WorkflowRule

		err = json.Unmarshal(body, &rule)
		if err != nil {
			return nil, persistence.NewRuleError("List", "", err)
		}

		rules = append(rules, &rule)
	}

	if err = rows.Err(); err != nil {
		return nil, persistence.NewRuleError("List", "", err)
	}

	return rules, nil
}

func (r *RuleRepository) GetByID(ctx context.Context, id string) (*models.WorkflowRule, error) {
	var body []byte

	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM workflow_rules WHERE id = $1`, id).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewRuleError("GetByID", id, persistence.ErrRuleNotFound)
		}

		return nil, persistence.NewRuleError("GetByID", id, err)
	}

	var rule models.WorkflowRule

	err = json.Unmarshal(body, &rule)
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

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO workflow_rules (id, created_at, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		rule.ID, rule.CreatedAt, body)
	if err != nil {
		return persistence.NewRuleError("Save", rule.ID, err)
	}

	return nil
}

func (r *RuleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM workflow_rules WHERE id = $1`, id)
	if err != nil {
		return persistence.NewRuleError("Delete", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.NewRuleError("Delete", id, err)
	}

	if affected == 0 {
		return persistence.NewRuleError("Delete", id, persistence.ErrRuleNotFound)
	}

	return nil
}
