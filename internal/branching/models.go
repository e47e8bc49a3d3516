package branching

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// WorkflowBranch is a conditional edge from a workflow step.
//
// Branches for the same (WorkflowID, ParentStepID) pair form a total
// evaluation order by (Priority desc, ID asc); exactly one or zero
// branches is selected per evaluation.
//
// Branches are authored externally and read-only to this engine.
// Deactivation (IsActive=false) removes a branch from candidate
// evaluation without deleting history.
type WorkflowBranch struct {
	ID           string `json:"id" db:"id"`
	WorkflowID   string `json:"workflow_id" db:"workflow_id"`
	ParentStepID string `json:"parent_step_id" db:"parent_step_id"`

	ConditionType     ConditionType `json:"condition_type" db:"condition_type"`
	ConditionOperator Operator      `json:"condition_operator" db:"condition_operator"`

	// ConditionValue is the expected value: scalar, string, or set.
	// Stored as JSON; numbers decode as float64, sets as []any.
	ConditionValue any `json:"condition_value" db:"condition_value"`

	// BranchSteps is the step list executed when this branch is selected.
	// Opaque to the engine; the workflow runner interprets it.
	BranchSteps json.RawMessage `json:"branch_steps,omitempty" db:"branch_steps"`

	BranchName string `json:"branch_name,omitempty" db:"branch_name"`

	// Priority orders evaluation: higher evaluated first.
	Priority int  `json:"priority" db:"priority"`
	IsActive bool `json:"is_active" db:"is_active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Rule is a single declarative condition test, as authored through the
// configuration UI. It is validated before persistence and never mutated
// except by full replacement.
type Rule struct {
	Field       ConditionType `json:"field"`
	Operator    Operator      `json:"operator"`
	Values      any           `json:"values"`
	Description string        `json:"description,omitempty"`
}

var ErrInvalidRule = errors.New("branching: invalid rule")

// Validate enforces the authoring invariants: field and operator are
// known, set operators receive a set, and numeric operators receive a
// value convertible to a number.
func (r Rule) Validate() error {
	if !r.Field.Known() {
		return fmt.Errorf("%w: unknown field %q", ErrInvalidRule, r.Field)
	}
	if !r.Operator.Known() {
		return fmt.Errorf("%w: unknown operator %q", ErrInvalidRule, r.Operator)
	}

	switch r.Operator {
	case OpInArray, OpNotInArray:
		if _, ok := asSequence(r.Values); !ok {
			return fmt.Errorf("%w: operator %q requires a set value", ErrInvalidRule, r.Operator)
		}
	case OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual:
		if _, ok := toFloat(r.Values); !ok {
			return fmt.Errorf("%w: operator %q requires a numeric value", ErrInvalidRule, r.Operator)
		}
	}
	return nil
}
