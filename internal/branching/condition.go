package branching

import (
	"log/slog"

	"outreach-platform/internal/hours"
	"outreach-platform/internal/leads"
)

// ConditionType is the closed set of runtime signals a branch condition
// may test. Unknown types extract nothing and are logged, never fatal —
// the catch-all is explicit, not a silent default.
type ConditionType string

const (
	CondLeadScore          ConditionType = "lead_score"
	CondUrgency            ConditionType = "urgency"
	CondPestType           ConditionType = "pest_type"
	CondLeadSource         ConditionType = "lead_source"
	CondLeadStatus         ConditionType = "lead_status"
	CondLeadAgeHours       ConditionType = "lead_age_hours"
	CondCallOutcome        ConditionType = "call_outcome"
	CondEmailOpened        ConditionType = "email_opened"
	CondEmailClicked       ConditionType = "email_clicked"
	CondTimeBased          ConditionType = "time_based"
	CondBusinessHours      ConditionType = "business_hours"
	CondPreviousStepResult ConditionType = "previous_step_result"
	CondExecutionStatus    ConditionType = "execution_status"
	CondRetryCount         ConditionType = "retry_count"
	CondCompanySize        ConditionType = "company_size"
	CondContactedCompanies ConditionType = "contacted_other_companies"
)

// Known reports whether ct is a member of the condition-type set.
func (ct ConditionType) Known() bool {
	switch ct {
	case CondLeadScore, CondUrgency, CondPestType, CondLeadSource, CondLeadStatus,
		CondLeadAgeHours, CondCallOutcome, CondEmailOpened, CondEmailClicked,
		CondTimeBased, CondBusinessHours, CondPreviousStepResult,
		CondExecutionStatus, CondRetryCount, CondCompanySize, CondContactedCompanies:
		return true
	}
	return false
}

// Day-part buckets for the time_based condition.
const (
	DayPartMorning   = "morning"   // [06:00, 12:00)
	DayPartAfternoon = "afternoon" // [12:00, 17:00)
	DayPartEvening   = "evening"   // [17:00, 21:00)
	DayPartNight     = "night"     // everything else
)

// Extract produces the concrete runtime value a condition type tests,
// given the evaluation context.
//
// ok=false means the value is genuinely unavailable (missing prior step,
// unknown creation instant, unrecognized type); the owning branch then
// evaluates false. Present-but-empty lead attributes extract as their
// value so is_empty/is_not_empty remain meaningful.
func Extract(ct ConditionType, ec EvalContext) (value any, ok bool) {
	switch ct {
	case CondLeadScore:
		return leads.Score(ec.Lead), true

	case CondUrgency:
		return ec.Lead.Urgency, true
	case CondPestType:
		return ec.Lead.PestType, true
	case CondLeadSource:
		return ec.Lead.Source, true
	case CondLeadStatus:
		return ec.Lead.Status, true

	case CondLeadAgeHours:
		if ec.Lead.CreatedAt.IsZero() {
			return nil, false
		}
		age := ec.Time.Now.Sub(ec.Lead.CreatedAt)
		return int(age.Hours()), true

	case CondCallOutcome:
		// Prefer the live call-analysis result; fall back to the prior step.
		if ec.Call != nil && ec.Call.Outcome != "" {
			return ec.Call.Outcome, true
		}
		if ec.PriorStep != nil && ec.PriorStep.Result != "" {
			return ec.PriorStep.Result, true
		}
		return nil, false

	case CondEmailOpened:
		if ec.Email == nil {
			return nil, false
		}
		return ec.Email.Opened, true
	case CondEmailClicked:
		if ec.Email == nil {
			return nil, false
		}
		return ec.Email.Clicked, true

	case CondTimeBased:
		return dayPart(ec.Time.LocalNow().Hour()), true

	case CondBusinessHours:
		// Hour-granularity check against the context's declared window,
		// independent of the weekday flags used by day planning.
		return hours.WithinClockWindow(ec.Time.LocalNow(), ec.Time.BusinessStart, ec.Time.BusinessEnd), true

	case CondPreviousStepResult:
		if ec.PriorStep == nil {
			return nil, false
		}
		return ec.PriorStep.Result, true

	case CondExecutionStatus:
		return ec.Execution.Status, true

	case CondRetryCount:
		return ec.Execution.RetryCount, true

	case CondCompanySize:
		if ec.Lead.HomeSize > 0 {
			return "residential", true
		}
		return "commercial", true

	case CondContactedCompanies:
		return ec.Lead.ContactedOtherCompanies, true
	}

	slog.Warn("branching: unrecognized condition type", "condition_type", string(ct))
	return nil, false
}

func dayPart(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return DayPartMorning
	case hour >= 12 && hour < 17:
		return DayPartAfternoon
	case hour >= 17 && hour < 21:
		return DayPartEvening
	default:
		return DayPartNight
	}
}
