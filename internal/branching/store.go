package branching

import (
	"context"
	"errors"
	"sort"
)

// Store loads candidate branches for a workflow step.
//
// Implementations must return only IsActive rows, ordered by
// (Priority desc, ID asc). The selector re-sorts defensively so the
// evaluation-order invariant never depends on a particular store.
//
// Transport-level failures must wrap ErrStoreUnavailable so callers can
// distinguish retryable faults from a genuine no-match.
type Store interface {
	LoadActiveBranches(ctx context.Context, workflowID, stepID string) ([]WorkflowBranch, error)
}

// ErrStoreUnavailable marks retryable branch-store failures.
var ErrStoreUnavailable = errors.New("branching: branch store unavailable")

// orderBranches enforces the deterministic evaluation order:
// descending priority, ties broken by ascending ID.
func orderBranches(branches []WorkflowBranch) {
	sort.SliceStable(branches, func(i, j int) bool {
		if branches[i].Priority != branches[j].Priority {
			return branches[i].Priority > branches[j].Priority
		}
		return branches[i].ID < branches[j].ID
	})
}
