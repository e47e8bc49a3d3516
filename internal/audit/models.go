package audit

import "time"

// Event is an immutable, append-only record of an engine decision.
//
// Invariants:
// - Events are never updated or deleted.
// - tenant_id is required for tenancy isolation.
// - Recording is best-effort; never block evaluation or planning on audit failures.
//
// Storage recommendation (Postgres):
// - Table decision_events with an INSERT-only policy.
// - Optional: partition by time for retention.

type Event struct {
	ID       string `json:"id" db:"id"`
	TenantID string `json:"tenant_id" db:"tenant_id"`

	// Type indicates the business category of the record.
	Type EventType `json:"type" db:"type"`

	// Target identifiers (optional, depending on the event type).
	WorkflowID string `json:"workflow_id,omitempty" db:"workflow_id"`
	StepID     string `json:"step_id,omitempty" db:"step_id"`
	BranchID   string `json:"branch_id,omitempty" db:"branch_id"`
	LeadID     string `json:"lead_id,omitempty" db:"lead_id"`
	CampaignID string `json:"campaign_id,omitempty" db:"campaign_id"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	// Metadata is optional JSON for full details.
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeBranchSelected    EventType = "branch_selected"
	EventTypeBranchNoMatch     EventType = "branch_no_match"
	EventTypeSchedulePreviewed EventType = "schedule_previewed"
)
