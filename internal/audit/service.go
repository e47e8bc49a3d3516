package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for decision events.
//
// It MUST be append-only. No Update/Delete methods are provided by design.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records engine decisions for later inspection.
//
// Callers should treat recording as best-effort: a failed append is a
// logged nuisance, not a reason to fail the evaluation that produced it.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.TenantID == "" {
		return ErrInvalidEvent
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// LogBranchDecision records the outcome of one branch evaluation.
// branchID is empty when no branch matched.
func (s *Service) LogBranchDecision(ctx context.Context, tenantID, workflowID, stepID, leadID, branchID string) error {
	typ := EventTypeBranchSelected
	msg := "branch selected"
	if branchID == "" {
		typ = EventTypeBranchNoMatch
		msg = "no branch matched"
	}
	return s.Append(ctx, Event{
		TenantID:   tenantID,
		Type:       typ,
		WorkflowID: workflowID,
		StepID:     stepID,
		LeadID:     leadID,
		BranchID:   branchID,
		Message:    msg,
	})
}

// LogSchedulePreview records that a schedule projection was produced.
func (s *Service) LogSchedulePreview(ctx context.Context, tenantID, campaignID string, metadata string) error {
	return s.Append(ctx, Event{
		TenantID:   tenantID,
		Type:       EventTypeSchedulePreviewed,
		CampaignID: campaignID,
		Message:    "schedule previewed",
		Metadata:   metadata,
	})
}
