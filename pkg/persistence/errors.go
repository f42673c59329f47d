package persistence

import (
	"errors"
	"fmt"
)

// ErrRuleNotFound indicates no rule exists for the given identifier.
var ErrRuleNotFound = errors.New("rule not found")

// RuleError wraps rule storage errors with operation context.
type RuleError struct {
	Op     string
	RuleID string
	Err    error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s operation failed for rule %s: %v", e.Op, e.RuleID, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

func NewRuleError(op, ruleID string, err error) *RuleError {
	return &RuleError{Op: op, RuleID: ruleID, Err: err}
}

// IsRuleNotFound checks whether an error indicates a missing rule.
func IsRuleNotFound(err error) bool {
	return errors.Is(err, ErrRuleNotFound)
}
