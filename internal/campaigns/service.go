package campaigns

import (
	"context"
	"errors"
	"fmt"
	"time"

	"outreach-platform/internal/hours"
	"outreach-platform/internal/scheduling"
)

// Repository is the read contract the preview service needs.
type Repository interface {
	GetByID(ctx context.Context, tenantID, campaignID string) (Campaign, error)
	CountAudience(ctx context.Context, tenantID, campaignID string) (int, error)
}

var ErrNotFound = errors.New("campaigns: campaign not found")

// Preview is the full schedule projection for one campaign.
type Preview struct {
	CampaignID    string              `json:"campaign_id"`
	TotalContacts int                 `json:"total_contacts"`
	Schedule      scheduling.Schedule `json:"schedule"`
	Summary       scheduling.Summary  `json:"summary"`
}

// Service resolves persisted campaigns into schedule projections.
type Service struct {
	repo  Repository
	hours hours.Source
	clock func() time.Time
}

func NewService(repo Repository, src hours.Source) *Service {
	return &Service{repo: repo, hours: src, clock: time.Now}
}

// PreviewSchedule loads a campaign, counts its audience, and runs the
// day planner against the tenant's business hours. A tenant without a
// configured calendar falls back to the always-open default so previews
// never fail on missing settings.
func (s *Service) PreviewSchedule(ctx context.Context, tenantID, campaignID string) (Preview, error) {
	if s.repo == nil {
		return Preview{}, errors.New("campaigns: repository not configured")
	}
	if tenantID == "" || campaignID == "" {
		return Preview{}, fmt.Errorf("campaigns: %w", scheduling.ErrInvalidRequest)
	}

	c, err := s.repo.GetByID(ctx, tenantID, campaignID)
	if err != nil {
		return Preview{}, err
	}

	total, err := s.repo.CountAudience(ctx, tenantID, campaignID)
	if err != nil {
		return Preview{}, err
	}

	cfg := hours.DefaultConfig()
	if s.hours != nil {
		loaded, err := s.hours.GetBusinessHours(ctx, tenantID)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, hours.ErrNotConfigured):
			// keep the default
		default:
			return Preview{}, err
		}
	}

	start := c.StartDatetime
	if start.IsZero() {
		start = s.clock().UTC()
	}

	req := scheduling.ScheduleRequest{
		TotalContacts:        total,
		StartDate:            start,
		BatchSize:            c.BatchSize,
		DailyLimit:           c.DailyLimit,
		BatchIntervalMinutes: c.BatchIntervalMinutes,
		RespectBusinessHours: c.RespectBusinessHours,
	}

	sched, err := scheduling.Plan(req, cfg)
	if err != nil {
		return Preview{}, err
	}

	return Preview{
		CampaignID:    c.ID,
		TotalContacts: total,
		Schedule:      sched,
		Summary:       scheduling.Summarize(sched, total),
	}, nil
}
