package quota

import (
	"context"
	"testing"
	"time"
)

func TestReserve_ValidatesArguments(t *testing.T) {
	svc := NewService(nil)

	if _, _, err := svc.Reserve(context.Background(), "tn", "c", 5, 100); err == nil {
		t.Fatalf("expected error with nil redis client")
	}

	// Argument checks fire before any Redis access.
	if _, _, err := svc.Reserve(context.Background(), "", "c", 5, 100); err == nil {
		t.Fatalf("expected error without tenant id")
	}
}

func TestScriptsCompile(t *testing.T) {
	if reserveScript == nil || releaseScript == nil {
		t.Fatalf("expected scripts to be initialized")
	}
}

func TestDayKeyAndTTL(t *testing.T) {
	svc := NewService(nil)
	at := time.Date(2025, 3, 3, 23, 0, 0, 0, time.UTC)

	key := svc.dayKey("tn", "camp", at)
	if key != "quota:tn:camp:2025-03-03" {
		t.Fatalf("unexpected key %q", key)
	}

	if got := secondsUntilEndOfDay(at); got != 3600 {
		t.Fatalf("expected 3600s until midnight, got %d", got)
	}
}
