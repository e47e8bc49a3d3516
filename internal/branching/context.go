package branching

import (
	"time"

	"outreach-platform/internal/leads"
)

// EvalContext is the ephemeral bundle of data consulted when testing a
// branch condition. It is constructed by the caller per evaluation and
// never persisted by the engine.
type EvalContext struct {
	Lead leads.Lead

	Execution Execution

	// PriorStep is the result of the previously executed step, when any.
	PriorStep *StepResult

	// Call is the live call-analysis result for the current step, when any.
	// call_outcome prefers this and falls back to PriorStep.
	Call *CallAnalysis

	// Email holds engagement signals for the most recent outbound email.
	Email *EmailEngagement

	Time TimeContext
}

// Execution is the current workflow execution record.
type Execution struct {
	ID         string `json:"id"`
	WorkflowID string `json:"workflow_id"`
	Status     string `json:"status"`
	RetryCount int    `json:"retry_count"`
}

// StepResult is the outcome of a prior workflow step.
type StepResult struct {
	StepID string `json:"step_id"`
	Status string `json:"status"`
	Result string `json:"result"`
}

// CallAnalysis is the summarized outcome of a voice interaction.
type CallAnalysis struct {
	Outcome         string `json:"outcome"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	Sentiment       string `json:"sentiment,omitempty"`
}

// EmailEngagement carries open/click signals from the email channel.
type EmailEngagement struct {
	Opened     bool `json:"opened"`
	Clicked    bool `json:"clicked"`
	OpenCount  int  `json:"open_count,omitempty"`
	ClickCount int  `json:"click_count,omitempty"`
}

// TimeContext pins the evaluation to an instant and the tenant's declared
// send window. BusinessStart/BusinessEnd are "HH:MM" strings; the
// business_hours condition checks only these, independent of weekday.
type TimeContext struct {
	Now           time.Time `json:"now"`
	BusinessStart string    `json:"business_start"`
	BusinessEnd   string    `json:"business_end"`
	Timezone      string    `json:"timezone"`
}

// LocalNow returns Now in the tenant's timezone, falling back to Now
// unchanged when the identifier does not resolve.
func (t TimeContext) LocalNow() time.Time {
	if t.Timezone == "" {
		return t.Now
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return t.Now
	}
	return t.Now.In(loc)
}
