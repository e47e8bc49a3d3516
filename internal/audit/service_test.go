package audit

import (
	"context"
	"testing"
)

func TestAppend_RequiresTenantAndType(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if err := svc.Append(context.Background(), Event{Type: EventTypeBranchSelected}); err != ErrInvalidEvent {
		t.Fatalf("expected ErrInvalidEvent without tenant, got %v", err)
	}
	if err := svc.Append(context.Background(), Event{TenantID: "tn"}); err != ErrInvalidEvent {
		t.Fatalf("expected ErrInvalidEvent without type, got %v", err)
	}
}

func TestLogBranchDecision(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.LogBranchDecision(context.Background(), "tn", "wf", "step", "lead", "branch-1"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := svc.LogBranchDecision(context.Background(), "tn", "wf", "step", "lead", ""); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	events := repo.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != EventTypeBranchSelected || events[0].BranchID != "branch-1" {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[1].Type != EventTypeBranchNoMatch {
		t.Fatalf("unexpected second event: %+v", events[1])
	}
	if events[0].ID == "" || events[0].CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp to be filled: %+v", events[0])
	}
}
