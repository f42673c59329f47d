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
)

// ExecutionRepository stores one <id>.json per audit record under
// <root>/executions. Records are written once and never rewritten.
type ExecutionRepository struct {
	root string
}

func NewExecutionRepository(root string) *ExecutionRepository {
	return &ExecutionRepository{root: root}
}

func (r *ExecutionRepository) executionsDir() string {
	return path.Join(r.root, "executions")
}

func (r *ExecutionRepository) List(_ context.Context) ([]*models.AutomationExecution, error) {
	root := os.DirFS(r.executionsDir())

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list execution files: %w", err)
	}

	executions := make([]*models.AutomationExecution, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		body, err := os.ReadFile(path.Join(r.executionsDir(), file))
		if err != nil {
			return nil, fmt.Errorf("failed to read execution file %s: %w", file, err)
		}

		var execution models.AutomationExecution

		err = json.Unmarshal(body, &execution)
		if err != nil {
			return nil, fmt.Errorf("failed to decode execution file %s: %w", file, err)
		}

		executions = append(executions, &execution)
	}

	sort.Slice(executions, func(i, j int) bool {
		if executions[i].ExecutedAt.Equal(executions[j].ExecutedAt) {
			return executions[i].ID < executions[j].ID
		}

		return executions[i].ExecutedAt.Before(executions[j].ExecutedAt)
	})

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

func (r *ExecutionRepository) Append(_ context.Context, execution *models.AutomationExecution) error {
	err := os.MkdirAll(r.executionsDir(), dirPerm)
	if err != nil {
		return fmt.Errorf("failed to create executions directory: %w", err)
	}

	body, err := json.MarshalIndent(execution, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode execution %s: %w", execution.ID, err)
	}

	err = os.WriteFile(path.Join(r.executionsDir(), execution.ID+".json"), body, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write execution %s: %w", execution.ID, err)
	}

	return nil
}

func (r *ExecutionRepository) Clear(_ context.Context) error {
	err := os.RemoveAll(r.executionsDir())
	if err != nil {
		return fmt.Errorf("failed to clear executions: %w", err)
	}

	return nil
}
