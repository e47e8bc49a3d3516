package scheduling

import (
	"time"

	"outreach-platform/internal/hours"
)

// ScheduleRequest asks for a day-by-day distribution of a contact
// population, derived from a campaign's pacing settings.
type ScheduleRequest struct {
	TotalContacts        int       `json:"total_contacts"`
	StartDate            time.Time `json:"start_date"`
	BatchSize            int       `json:"batch_size"`
	DailyLimit           int       `json:"daily_limit"`
	BatchIntervalMinutes int       `json:"batch_interval_minutes"`
	RespectBusinessHours bool      `json:"respect_business_hours"`
}

// DayPlan is the projected workload for one calendar day of a campaign.
type DayPlan struct {
	Date          time.Time      `json:"date"`
	DayOfWeek     string         `json:"day_of_week"`
	ContactsCount int            `json:"contacts_count"`
	BatchesCount  int            `json:"batches_count"`
	BusinessHours hours.DayHours `json:"business_hours"`

	// Estimated times are "HH:MM" strings; the end time wraps at 24h.
	EstimatedStartTime string `json:"estimated_start_time"`
	EstimatedEndTime   string `json:"estimated_end_time"`
}

// Schedule is the planner's output: an ordered day sequence plus the
// capacity-exceeded condition when the safety day-cap was hit.
//
// The schedule is a projection only — advisory for display/preview.
// Live dispatch re-derives pacing from the authoritative, lock-protected
// counters (see internal/quota).
type Schedule struct {
	Days []DayPlan `json:"days"`

	// Incomplete is true when the day-cap was reached with contacts
	// still unscheduled; Remaining carries the unscheduled count.
	Incomplete bool `json:"incomplete"`
	Remaining  int  `json:"remaining,omitempty"`
}

// Summary aggregates a schedule for display. Derived, never stored.
type Summary struct {
	TotalDays               int        `json:"total_days"`
	TotalBatches            int        `json:"total_batches"`
	ContactsPerDay          int        `json:"contacts_per_day"`
	EstimatedCompletionDate *time.Time `json:"estimated_completion_date,omitempty"`
}
