package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/flowkan/flowkan/pkg/models"
	"github.com/flowkan/flowkan/pkg/persistence"
)

const dirPerm = 0o755

// RuleRepository stores one <id>.json per rule under <root>/rules.
type RuleRepository struct {
	root string
}

func NewRuleRepository(root string) *RuleRepository {
	return &RuleRepository{root: root}
}

func (r *RuleRepository) rulesDir() string {
	return path.Join(r.root, "rules")
}

func (r *RuleRepository) List(ctx context.Context) ([]*models.WorkflowRule, error) {
	root := os.DirFS(r.rulesDir())

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list rule files: %w", err)
	}

	rules := make([]*models.WorkflowRule, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		rule, err := r.GetByID(ctx, file[:len(file)-5])
		if err != nil {
			return nil, err
		}

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

func (r *RuleRepository) GetByID(_ context.Context, id string) (*models.WorkflowRule, error) {
	body, err := os.ReadFile(path.Join(r.rulesDir(), id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
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

func (r *RuleRepository) Save(_ context.Context, rule *models.WorkflowRule) error {
	err := os.MkdirAll(r.rulesDir(), dirPerm)
	if err != nil {
		return persistence.NewRuleError("Save", rule.ID, err)
	}

	body, err := json.MarshalIndent(rule, "", "  ")
	if err != nil {
		return persistence.NewRuleError("Save", rule.ID, err)
	}

	err = os.WriteFile(path.Join(r.rulesDir(), rule.ID+".json"), body, 0o600)
	if err != nil {
		return persistence.NewRuleError("Save", rule.ID, err)
	}

	return nil
}

func (r *RuleRepository) Delete(_ context.Context, id string) error {
	err := os.Remove(path.Join(r.rulesDir(), id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return persistence.NewRuleError("Delete", id, persistence.ErrRuleNotFound)
		}

		return persistence.NewRuleError("Delete", id, err)
	}

	return nil
}
