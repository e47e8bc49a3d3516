package campaigns

import "time"

// Campaign is a tenant-scoped outreach campaign with its pacing settings.
//
// The engine reads these rows to derive schedule projections; campaign
// lifecycle (creation, audience building, dispatch) is owned elsewhere.
type Campaign struct {
	ID       string `json:"id" db:"id"`
	TenantID string `json:"tenant_id" db:"tenant_id"`

	Name    string `json:"name" db:"name"`
	Channel string `json:"channel" db:"channel"`
	Status  Status `json:"status" db:"status"`

	// Pacing settings consumed by the batch day planner.
	BatchSize            int  `json:"batch_size" db:"batch_size"`
	DailyLimit           int  `json:"daily_limit" db:"daily_limit"`
	BatchIntervalMinutes int  `json:"batch_interval_minutes" db:"batch_interval_minutes"`
	RespectBusinessHours bool `json:"respect_business_hours" db:"respect_business_hours"`

	StartDatetime time.Time `json:"start_datetime" db:"start_datetime"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusSending   Status = "sending"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
)
