package branching

import (
	"context"
	"errors"

	"outreach-platform/pkg/logger"
)

// Selector is the conditional-branching evaluator: given a workflow step
// and an evaluation context, it picks the branch to execute next.
//
// Stateless per call; safe for concurrent use across tenants and leads.
// The selector performs exactly one store read per call and no writes —
// retries, timeouts, and backoff belong to the caller.
type Selector struct {
	store Store
}

func NewSelector(store Store) *Selector {
	return &Selector{store: store}
}

// SelectBranch evaluates active branches for (workflowID, stepID) in
// descending-priority order and returns the first match, or nil when no
// branch matches (the caller falls back to its default path).
//
// Failure semantics:
//   - store faults propagate (wrapped in ErrStoreUnavailable, retryable);
//   - a fault inside a single branch's condition is logged and treated
//     as a non-match, so one malformed branch cannot block its siblings.
func (s *Selector) SelectBranch(ctx context.Context, workflowID, stepID string, ec EvalContext) (*WorkflowBranch, error) {
	if s.store == nil {
		return nil, errors.New("branching: store not configured")
	}

	branches, err := s.store.LoadActiveBranches(ctx, workflowID, stepID)
	if err != nil {
		return nil, err
	}
	orderBranches(branches)

	log := logger.From(ctx)
	for i := range branches {
		b := branches[i]
		if s.branchMatches(ctx, b, ec) {
			log.Debug("branch selected",
				"workflow_id", workflowID, "step_id", stepID,
				"branch_id", b.ID, "priority", b.Priority)
			return &b, nil
		}
	}

	log.Debug("no branch matched", "workflow_id", workflowID, "step_id", stepID,
		"candidates", len(branches))
	return nil, nil
}

// branchMatches evaluates one branch's condition, isolating any fault to
// a logged non-match.
func (s *Selector) branchMatches(ctx context.Context, b WorkflowBranch, ec EvalContext) (matched bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.From(ctx).Error("branch condition evaluation fault",
				"branch_id", b.ID, "condition_type", string(b.ConditionType), "panic", r)
			matched = false
		}
	}()

	actual, ok := Extract(b.ConditionType, ec)
	if !ok {
		return false
	}
	return Compare(actual, b.ConditionOperator, b.ConditionValue)
}
