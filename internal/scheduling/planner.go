package scheduling

import (
	"errors"
	"fmt"
	"math"
	"time"

	"outreach-platform/internal/hours"
)

// MaxPlanDays bounds runaway plans when the daily limit is small
// relative to the population and many days are non-working.
const MaxPlanDays = 365

var ErrInvalidRequest = errors.New("scheduling: invalid request")

// Validate rejects inputs that would otherwise loop forever or divide
// by zero; callers must not retry without correcting the request.
func (r ScheduleRequest) Validate() error {
	if r.TotalContacts < 0 {
		return fmt.Errorf("%w: total_contacts must be >= 0, got %d", ErrInvalidRequest, r.TotalContacts)
	}
	if r.BatchSize < 1 {
		return fmt.Errorf("%w: batch_size must be >= 1, got %d", ErrInvalidRequest, r.BatchSize)
	}
	if r.DailyLimit < 1 {
		return fmt.Errorf("%w: daily_limit must be >= 1, got %d", ErrInvalidRequest, r.DailyLimit)
	}
	if r.BatchIntervalMinutes < 0 {
		return fmt.Errorf("%w: batch_interval_minutes must be >= 0, got %d", ErrInvalidRequest, r.BatchIntervalMinutes)
	}
	if r.StartDate.IsZero() {
		return fmt.Errorf("%w: start_date is required", ErrInvalidRequest)
	}
	return nil
}

// Plan distributes the contact population across calendar days starting
// at req.StartDate, honoring the per-day quota, intra-day batch pacing,
// and — when requested — the tenant's business-hours weekday flags.
//
// Pure function of its inputs: no I/O, no retries, safe for repeated
// live-preview invocation. Invariants (cap not hit):
//
//	sum(ContactsCount) == TotalContacts
//	ContactsCount <= DailyLimit on every day
//	BatchesCount == ceil(ContactsCount / BatchSize)
func Plan(req ScheduleRequest, cfg hours.BusinessHoursConfig) (Schedule, error) {
	if err := req.Validate(); err != nil {
		return Schedule{}, err
	}
	if req.TotalContacts == 0 {
		return Schedule{}, nil
	}

	remaining := req.TotalContacts
	cursor := req.StartDate

	var out Schedule
	for dayIndex := 0; remaining > 0 && dayIndex < MaxPlanDays; dayIndex++ {
		if !req.RespectBusinessHours || hours.IsWorkingDay(cursor, cfg) {
			contactsToday := remaining
			if contactsToday > req.DailyLimit {
				contactsToday = req.DailyLimit
			}
			batchesToday := ceilDiv(contactsToday, req.BatchSize)

			window := windowForDate(cursor, cfg)
			out.Days = append(out.Days, DayPlan{
				Date:               cursor,
				DayOfWeek:          cursor.Weekday().String(),
				ContactsCount:      contactsToday,
				BatchesCount:       batchesToday,
				BusinessHours:      window,
				EstimatedStartTime: window.Start,
				EstimatedEndTime:   estimatedEnd(window.Start, batchesToday, req.BatchIntervalMinutes),
			})
			remaining -= contactsToday
		}
		cursor = cursor.AddDate(0, 0, 1)
	}

	if remaining > 0 {
		out.Incomplete = true
		out.Remaining = remaining
	}
	return out, nil
}

// Summarize derives display aggregates from a schedule.
func Summarize(s Schedule, totalContacts int) Summary {
	sum := Summary{TotalDays: len(s.Days)}
	for _, d := range s.Days {
		sum.TotalBatches += d.BatchesCount
	}
	if sum.TotalDays > 0 {
		sum.ContactsPerDay = int(math.Round(float64(totalContacts) / float64(sum.TotalDays)))
		last := s.Days[len(s.Days)-1].Date
		sum.EstimatedCompletionDate = &last
	}
	return sum
}

// windowForDate resolves the day's send window, falling back to the
// default 09:00-17:00 when the weekday is disabled or unparseable.
// The fallback matters for RespectBusinessHours=false plans, which emit
// days the config would otherwise disable.
func windowForDate(date time.Time, cfg hours.BusinessHoursConfig) hours.DayHours {
	if day, ok := hours.HoursForDate(date, cfg); ok {
		if _, _, err := hours.ParseClock(day.Start); err == nil {
			if _, _, err := hours.ParseClock(day.End); err == nil {
				return day
			}
		}
	}
	return hours.DayHours{Enabled: true, Start: hours.DefaultStart, End: hours.DefaultEnd}
}

// estimatedEnd adds batches*interval minutes to the "HH:MM" start,
// wrapping at 24h with modulo minute/hour arithmetic.
func estimatedEnd(start string, batches, intervalMinutes int) string {
	h, m, err := hours.ParseClock(start)
	if err != nil {
		h, m = 9, 0
	}
	total := h*60 + m + batches*intervalMinutes
	total %= 24 * 60
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
