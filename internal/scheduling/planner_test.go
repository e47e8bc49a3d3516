package scheduling

import (
	"errors"
	"testing"
	"time"

	"outreach-platform/internal/hours"
)

func monday() time.Time {
	return time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC) // a Monday
}

func fiveDayWeek() hours.BusinessHoursConfig {
	return hours.BusinessHoursConfig{
		Timezone: "UTC",
		Days: map[string]hours.DayHours{
			"monday":    {Enabled: true, Start: "09:00", End: "17:00"},
			"tuesday":   {Enabled: true, Start: "09:00", End: "17:00"},
			"wednesday": {Enabled: true, Start: "09:00", End: "17:00"},
			"thursday":  {Enabled: true, Start: "09:00", End: "17:00"},
			"friday":    {Enabled: true, Start: "09:00", End: "17:00"},
			"saturday":  {Enabled: false},
			"sunday":    {Enabled: false},
		},
	}
}

func TestPlan_SplitsPopulationAcrossDays(t *testing.T) {
	// 25 contacts, 10/day, batches of 5 -> [10,10,5] with batches [2,2,1].
	req := ScheduleRequest{
		TotalContacts: 25, StartDate: monday(),
		BatchSize: 5, DailyLimit: 10, BatchIntervalMinutes: 30,
	}
	s, err := Plan(req, hours.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Incomplete {
		t.Fatalf("expected complete plan")
	}
	if len(s.Days) != 3 {
		t.Fatalf("expected 3 day plans, got %d", len(s.Days))
	}

	wantContacts := []int{10, 10, 5}
	wantBatches := []int{2, 2, 1}
	for i, d := range s.Days {
		if d.ContactsCount != wantContacts[i] {
			t.Fatalf("day %d: contacts %d, want %d", i, d.ContactsCount, wantContacts[i])
		}
		if d.BatchesCount != wantBatches[i] {
			t.Fatalf("day %d: batches %d, want %d", i, d.BatchesCount, wantBatches[i])
		}
		if !d.Date.Equal(monday().AddDate(0, 0, i)) {
			t.Fatalf("day %d: date %v", i, d.Date)
		}
	}
}

func TestPlan_ConservesContactsAndRespectsLimit(t *testing.T) {
	req := ScheduleRequest{
		TotalContacts: 137, StartDate: monday(),
		BatchSize: 8, DailyLimit: 23, BatchIntervalMinutes: 15,
	}
	s, err := Plan(req, hours.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	sum := 0
	for _, d := range s.Days {
		if d.ContactsCount > req.DailyLimit {
			t.Fatalf("day %v exceeds daily limit: %d", d.Date, d.ContactsCount)
		}
		want := (d.ContactsCount + req.BatchSize - 1) / req.BatchSize
		if d.BatchesCount != want {
			t.Fatalf("day %v: batches %d, want ceil=%d", d.Date, d.BatchesCount, want)
		}
		sum += d.ContactsCount
	}
	if sum != req.TotalContacts {
		t.Fatalf("contacts not conserved: %d != %d", sum, req.TotalContacts)
	}
}

func TestPlan_ZeroContactsIsEmpty(t *testing.T) {
	req := ScheduleRequest{TotalContacts: 0, StartDate: monday(), BatchSize: 5, DailyLimit: 10}
	s, err := Plan(req, hours.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(s.Days) != 0 || s.Incomplete {
		t.Fatalf("expected empty complete schedule, got %+v", s)
	}

	sum := Summarize(s, 0)
	if sum.TotalDays != 0 || sum.ContactsPerDay != 0 || sum.EstimatedCompletionDate != nil {
		t.Fatalf("expected zero summary, got %+v", sum)
	}
}

func TestPlan_SkipsNonWorkingDays(t *testing.T) {
	// Friday start, 30 contacts at 10/day on a 5-day week:
	// Fri 10, (skip Sat/Sun), Mon 10, Tue 10.
	friday := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	req := ScheduleRequest{
		TotalContacts: 30, StartDate: friday,
		BatchSize: 10, DailyLimit: 10, RespectBusinessHours: true,
	}
	s, err := Plan(req, fiveDayWeek())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(s.Days) != 3 {
		t.Fatalf("expected 3 working days, got %d", len(s.Days))
	}

	wantDays := []time.Weekday{time.Friday, time.Monday, time.Tuesday}
	for i, d := range s.Days {
		if d.Date.Weekday() != wantDays[i] {
			t.Fatalf("day %d: weekday %s, want %s", i, d.Date.Weekday(), wantDays[i])
		}
	}
}

func TestPlan_IgnoresBusinessHoursWhenDisabled(t *testing.T) {
	saturday := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	req := ScheduleRequest{
		TotalContacts: 5, StartDate: saturday,
		BatchSize: 5, DailyLimit: 10, RespectBusinessHours: false,
	}
	s, err := Plan(req, fiveDayWeek())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(s.Days) != 1 || s.Days[0].Date.Weekday() != time.Saturday {
		t.Fatalf("expected a single saturday plan, got %+v", s.Days)
	}
	// Disabled weekday falls back to the default window.
	if s.Days[0].BusinessHours.Start != hours.DefaultStart || s.Days[0].BusinessHours.End != hours.DefaultEnd {
		t.Fatalf("expected default window fallback, got %+v", s.Days[0].BusinessHours)
	}
}

func TestPlan_EstimatedTimesWrapAtMidnight(t *testing.T) {
	// 10 batches * 120 min = 20h from 09:00 -> 05:00 next day.
	req := ScheduleRequest{
		TotalContacts: 100, StartDate: monday(),
		BatchSize: 10, DailyLimit: 100, BatchIntervalMinutes: 120,
	}
	s, err := Plan(req, hours.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(s.Days) != 1 {
		t.Fatalf("expected single day, got %d", len(s.Days))
	}
	if s.Days[0].EstimatedStartTime != "09:00" {
		t.Fatalf("start time: %q", s.Days[0].EstimatedStartTime)
	}
	if s.Days[0].EstimatedEndTime != "05:00" {
		t.Fatalf("end time should wrap to 05:00, got %q", s.Days[0].EstimatedEndTime)
	}
}

func TestPlan_DayCapReportsIncomplete(t *testing.T) {
	// 4000 contacts at 10/day on a 5-day week cannot finish in 365 days.
	req := ScheduleRequest{
		TotalContacts: 4000, StartDate: monday(),
		BatchSize: 10, DailyLimit: 10, RespectBusinessHours: true,
	}
	s, err := Plan(req, fiveDayWeek())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !s.Incomplete {
		t.Fatalf("expected incomplete schedule")
	}
	if s.Remaining <= 0 {
		t.Fatalf("expected positive remaining, got %d", s.Remaining)
	}

	scheduled := 0
	for _, d := range s.Days {
		scheduled += d.ContactsCount
	}
	if scheduled+s.Remaining != req.TotalContacts {
		t.Fatalf("scheduled %d + remaining %d != total %d", scheduled, s.Remaining, req.TotalContacts)
	}
}

func TestPlan_RejectsInvalidInput(t *testing.T) {
	cases := []ScheduleRequest{
		{TotalContacts: 10, StartDate: monday(), BatchSize: 0, DailyLimit: 10},
		{TotalContacts: 10, StartDate: monday(), BatchSize: 5, DailyLimit: 0},
		{TotalContacts: -1, StartDate: monday(), BatchSize: 5, DailyLimit: 10},
		{TotalContacts: 10, StartDate: monday(), BatchSize: 5, DailyLimit: 10, BatchIntervalMinutes: -1},
		{TotalContacts: 10, BatchSize: 5, DailyLimit: 10},
	}
	for i, req := range cases {
		if _, err := Plan(req, hours.DefaultConfig()); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("case %d: expected ErrInvalidRequest, got %v", i, err)
		}
	}
}

func TestSummarize(t *testing.T) {
	req := ScheduleRequest{
		TotalContacts: 25, StartDate: monday(),
		BatchSize: 5, DailyLimit: 10,
	}
	s, err := Plan(req, hours.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	sum := Summarize(s, req.TotalContacts)
	if sum.TotalDays != 3 {
		t.Fatalf("total days: %d", sum.TotalDays)
	}
	if sum.TotalBatches != 5 {
		t.Fatalf("total batches: %d", sum.TotalBatches)
	}
	if sum.ContactsPerDay != 8 { // round(25/3)
		t.Fatalf("contacts per day: %d", sum.ContactsPerDay)
	}
	if sum.EstimatedCompletionDate == nil || !sum.EstimatedCompletionDate.Equal(monday().AddDate(0, 0, 2)) {
		t.Fatalf("completion date: %v", sum.EstimatedCompletionDate)
	}
}
