package branching

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"outreach-platform/internal/leads"
)

type failingStore struct{ err error }

func (s failingStore) LoadActiveBranches(ctx context.Context, workflowID, stepID string) ([]WorkflowBranch, error) {
	return nil, s.err
}

func urgencyContext() EvalContext {
	return EvalContext{
		Lead: leads.Lead{Urgency: "urgent", Status: "new"},
		Time: TimeContext{Now: time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)},
	}
}

func TestSelectBranch_HighestPriorityMatchWins(t *testing.T) {
	store := NewMemoryStore(
		WorkflowBranch{
			ID: "b-urgency", WorkflowID: "wf", ParentStepID: "step-1",
			ConditionType: CondUrgency, ConditionOperator: OpEquals, ConditionValue: "urgent",
			Priority: 10, IsActive: true,
		},
		WorkflowBranch{
			ID: "b-status", WorkflowID: "wf", ParentStepID: "step-1",
			ConditionType: CondLeadStatus, ConditionOperator: OpEquals, ConditionValue: "new",
			Priority: 5, IsActive: true,
		},
	)
	sel := NewSelector(store)

	got, err := sel.SelectBranch(context.Background(), "wf", "step-1", urgencyContext())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got == nil || got.ID != "b-urgency" {
		t.Fatalf("expected the priority-10 urgency branch, got %+v", got)
	}
}

func TestSelectBranch_ShortCircuitsOnFirstMatch(t *testing.T) {
	// Lower-priority branch also matches; it must never be reached.
	store := NewMemoryStore(
		WorkflowBranch{
			ID: "low", WorkflowID: "wf", ParentStepID: "s",
			ConditionType: CondUrgency, ConditionOperator: OpEquals, ConditionValue: "urgent",
			Priority: 1, IsActive: true,
		},
		WorkflowBranch{
			ID: "high", WorkflowID: "wf", ParentStepID: "s",
			ConditionType: CondUrgency, ConditionOperator: OpEquals, ConditionValue: "urgent",
			Priority: 9, IsActive: true,
		},
	)
	sel := NewSelector(store)

	got, err := sel.SelectBranch(context.Background(), "wf", "s", urgencyContext())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got == nil || got.ID != "high" {
		t.Fatalf("expected the higher-priority branch, got %+v", got)
	}
}

func TestSelectBranch_PriorityTieBreaksByID(t *testing.T) {
	store := NewMemoryStore(
		WorkflowBranch{
			ID: "b", WorkflowID: "wf", ParentStepID: "s",
			ConditionType: CondUrgency, ConditionOperator: OpEquals, ConditionValue: "urgent",
			Priority: 5, IsActive: true,
		},
		WorkflowBranch{
			ID: "a", WorkflowID: "wf", ParentStepID: "s",
			ConditionType: CondUrgency, ConditionOperator: OpEquals, ConditionValue: "urgent",
			Priority: 5, IsActive: true,
		},
	)
	sel := NewSelector(store)

	got, err := sel.SelectBranch(context.Background(), "wf", "s", urgencyContext())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got == nil || got.ID != "a" {
		t.Fatalf("expected stable ascending-id tie break, got %+v", got)
	}
}

func TestSelectBranch_Deterministic(t *testing.T) {
	store := NewMemoryStore(
		WorkflowBranch{
			ID: "x", WorkflowID: "wf", ParentStepID: "s",
			ConditionType: CondLeadStatus, ConditionOperator: OpEquals, ConditionValue: "new",
			Priority: 3, IsActive: true,
		},
		WorkflowBranch{
			ID: "y", WorkflowID: "wf", ParentStepID: "s",
			ConditionType: CondUrgency, ConditionOperator: OpEquals, ConditionValue: "urgent",
			Priority: 3, IsActive: true,
		},
	)
	sel := NewSelector(store)
	ec := urgencyContext()

	first, err := sel.SelectBranch(context.Background(), "wf", "s", ec)
	if err != nil || first == nil {
		t.Fatalf("setup: %v %+v", err, first)
	}
	for i := 0; i < 20; i++ {
		got, err := sel.SelectBranch(context.Background(), "wf", "s", ec)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if got == nil || got.ID != first.ID {
			t.Fatalf("selection not deterministic: %q then %+v", first.ID, got)
		}
	}
}

func TestSelectBranch_NoMatchReturnsNil(t *testing.T) {
	store := NewMemoryStore(
		WorkflowBranch{
			ID: "b1", WorkflowID: "wf", ParentStepID: "s",
			ConditionType: CondUrgency, ConditionOperator: OpEquals, ConditionValue: "low",
			Priority: 1, IsActive: true,
		},
	)
	sel := NewSelector(store)

	got, err := sel.SelectBranch(context.Background(), "wf", "s", urgencyContext())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil when nothing matches, got %+v", got)
	}
}

func TestSelectBranch_InactiveBranchesIgnored(t *testing.T) {
	store := NewMemoryStore(
		WorkflowBranch{
			ID: "off", WorkflowID: "wf", ParentStepID: "s",
			ConditionType: CondUrgency, ConditionOperator: OpEquals, ConditionValue: "urgent",
			Priority: 99, IsActive: false,
		},
	)
	sel := NewSelector(store)

	got, err := sel.SelectBranch(context.Background(), "wf", "s", urgencyContext())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != nil {
		t.Fatalf("inactive branch must not be selected, got %+v", got)
	}
}

func TestSelectBranch_MalformedBranchFallsThrough(t *testing.T) {
	// Invalid regex never aborts evaluation; the next branch still runs.
	store := NewMemoryStore(
		WorkflowBranch{
			ID: "bad-regex", WorkflowID: "wf", ParentStepID: "s",
			ConditionType: CondUrgency, ConditionOperator: OpRegexMatch, ConditionValue: `([unclosed`,
			Priority: 10, IsActive: true,
		},
		WorkflowBranch{
			ID: "fallback", WorkflowID: "wf", ParentStepID: "s",
			ConditionType: CondLeadStatus, ConditionOperator: OpEquals, ConditionValue: "new",
			Priority: 1, IsActive: true,
		},
	)
	sel := NewSelector(store)

	got, err := sel.SelectBranch(context.Background(), "wf", "s", urgencyContext())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got == nil || got.ID != "fallback" {
		t.Fatalf("expected fallback branch after malformed sibling, got %+v", got)
	}
}

func TestSelectBranch_NullExtractionIsNonMatch(t *testing.T) {
	store := NewMemoryStore(
		WorkflowBranch{
			ID: "age", WorkflowID: "wf", ParentStepID: "s",
			ConditionType: CondLeadAgeHours, ConditionOperator: OpGreaterThan, ConditionValue: float64(1),
			Priority: 5, IsActive: true,
		},
	)
	sel := NewSelector(store)

	// Lead has no creation instant, so lead_age_hours extracts nothing.
	got, err := sel.SelectBranch(context.Background(), "wf", "s", urgencyContext())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != nil {
		t.Fatalf("null extraction must evaluate false, got %+v", got)
	}
}

func TestSelectBranch_StoreFaultPropagates(t *testing.T) {
	cause := fmt.Errorf("%w: connection refused", ErrStoreUnavailable)
	sel := NewSelector(failingStore{err: cause})

	_, err := sel.SelectBranch(context.Background(), "wf", "s", urgencyContext())
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected retryable store error, got %v", err)
	}
}
