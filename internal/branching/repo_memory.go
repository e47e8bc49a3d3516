package branching

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory branch store useful for tests and early
// development. Not intended for production.
type MemoryStore struct {
	mu       sync.RWMutex
	branches []WorkflowBranch
}

func NewMemoryStore(branches ...WorkflowBranch) *MemoryStore {
	s := &MemoryStore{}
	s.branches = append(s.branches, branches...)
	return s
}

func (s *MemoryStore) Add(b WorkflowBranch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.branches = append(s.branches, b)
}

func (s *MemoryStore) LoadActiveBranches(ctx context.Context, workflowID, stepID string) ([]WorkflowBranch, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []WorkflowBranch
	for _, b := range s.branches {
		if !b.IsActive {
			continue
		}
		if b.WorkflowID != workflowID || b.ParentStepID != stepID {
			continue
		}
		out = append(out, b)
	}
	orderBranches(out)
	return out, nil
}
