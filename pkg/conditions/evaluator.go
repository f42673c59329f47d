// Package conditions decides whether a rule fires for a given card and board
// snapshot. Malformed conditions deny instead of erroring, so a bad rule never
// takes down a batch.
package conditions

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/flowkan/flowkan/pkg/models"
)

// Evaluator computes the admit/deny decision for a rule's condition list.
type Evaluator struct {
	now func() time.Time
}

func NewEvaluator() *Evaluator {
	return &Evaluator{now: time.Now}
}

// NewEvaluatorAt pins the clock, used by tests and replays of time_condition
// rules.
func NewEvaluatorAt(now func() time.Time) *Evaluator {
	return &Evaluator{now: now}
}

// Evaluate folds the condition list left to right. The running result seeds
// true under AND, so an empty list always admits. Each condition's
// LogicalOperator combines it with the condition that follows it, not with the
// one before.
func (e *Evaluator) Evaluate(conditions []*models.WorkflowCondition, card *models.KanbanCard, board *models.KanbanBoard) bool {
	result := true
	operator := models.LogicalAnd

	for _, condition := range conditions {
		outcome := e.evaluateCondition(condition, card, board)

		if operator == models.LogicalOr {
			result = result || outcome
		} else {
			result = result && outcome
		}

		operator = condition.LogicalOperator
		if operator == "" {
			operator = models.LogicalAnd
		}
	}

	return result
}

func (e *Evaluator) evaluateCondition(condition *models.WorkflowCondition, card *models.KanbanCard, board *models.KanbanBoard) bool {
	fieldValue, ok := e.resolveFieldValue(condition, card, board)
	if !ok {
		return false
	}

	return compare(condition.Operator, fieldValue, condition.Value)
}

// resolveFieldValue derives the value a condition compares against. The
// second return reports whether the condition type and field are known; an
// unknown pair denies.
func (e *Evaluator) resolveFieldValue(condition *models.WorkflowCondition, card *models.KanbanCard, board *models.KanbanBoard) (any, bool) {
	switch condition.Type {
	case models.ConditionCardProperty:
		return card.Property(condition.Field)
	case models.ConditionTimeCondition:
		reference := card.ReferenceTime()
		if reference.IsZero() {
			return nil, false
		}

		return e.now().Sub(reference).Minutes(), true
	case models.ConditionColumnState:
		if board == nil {
			return nil, false
		}

		return board.ColumnCardCount(card.Status), true
	case models.ConditionAssigneeWorkload:
		if board == nil {
			return nil, false
		}

		return board.AssigneeWorkload(card.Assignee), true
	default:
		return nil, false
	}
}

func compare(operator models.ConditionOperator, fieldValue, conditionValue any) bool {
	switch operator {
	case models.OperatorEquals:
		return looseEquals(fieldValue, conditionValue)
	case models.OperatorNotEquals:
		return !looseEquals(fieldValue, conditionValue)
	case models.OperatorContains:
		return contains(fieldValue, conditionValue)
	case models.OperatorGreaterThan:
		left, leftOK := toNumber(fieldValue)
		right, rightOK := toNumber(conditionValue)

		return leftOK && rightOK && left > right
	case models.OperatorLessThan:
		left, leftOK := toNumber(fieldValue)
		right, rightOK := toNumber(conditionValue)

		return leftOK && rightOK && left < right
	case models.OperatorIn:
		return member(fieldValue, conditionValue)
	case models.OperatorNotIn:
		candidates, ok := conditionValue.([]any)
		if !ok {
			return false
		}

		for _, candidate := range candidates {
			if looseEquals(fieldValue, candidate) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// looseEquals normalizes both sides to float64 when they are numeric, so a
// JSON-decoded 3 matches an int field. Everything else falls through to deep
// equality.
func looseEquals(left, right any) bool {
	leftNumber, leftOK := toNumber(left)
	rightNumber, rightOK := toNumber(right)

	if leftOK && rightOK {
		return leftNumber == rightNumber
	}

	return reflect.DeepEqual(left, right)
}

func contains(fieldValue, conditionValue any) bool {
	haystack := strings.ToLower(stringify(fieldValue))
	needle := strings.ToLower(stringify(conditionValue))

	return strings.Contains(haystack, needle)
}

func member(fieldValue, conditionValue any) bool {
	candidates, ok := conditionValue.([]any)
	if !ok {
		return false
	}

	for _, candidate := range candidates {
		if looseEquals(fieldValue, candidate) {
			return true
		}
	}

	return false
}

func toNumber(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		parsed, err := strconv.ParseFloat(typed, 64)
		if err != nil {
			return 0, false
		}

		return parsed, true
	default:
		return 0, false
	}
}

func stringify(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case []string:
		return strings.Join(typed, ",")
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, stringify(item))
		}

		return strings.Join(parts, ",")
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return ""
	}
}
