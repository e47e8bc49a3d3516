package hours

import "time"

// BusinessHoursConfig is the tenant-level weekly send window configuration.
//
// It is supplied by the settings collaborator and treated as read-only input.
// Days are keyed by lowercase weekday name ("monday" .. "sunday"); a missing
// entry means the day is disabled.
type BusinessHoursConfig struct {
	Timezone string              `json:"timezone"`
	Days     map[string]DayHours `json:"days"`
}

// DayHours is a single weekday's open/close window.
// Start and End are "HH:MM" strings; Start must be before End when Enabled.
type DayHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// Default window applied when a tenant has no configuration or a day's
// window cannot be parsed.
const (
	DefaultStart = "09:00"
	DefaultEnd   = "17:00"
)

// DefaultConfig returns the always-open fallback policy: every weekday
// enabled 09:00-17:00. Used when the settings collaborator is unavailable
// so scheduling is never blocked entirely.
func DefaultConfig() BusinessHoursConfig {
	days := make(map[string]DayHours, 7)
	for _, d := range weekdayKeys {
		days[d] = DayHours{Enabled: true, Start: DefaultStart, End: DefaultEnd}
	}
	return BusinessHoursConfig{Timezone: "UTC", Days: days}
}

var weekdayKeys = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// WeekdayKey maps a time.Weekday to the config map key.
func WeekdayKey(d time.Weekday) string {
	return weekdayKeys[int(d)%7]
}
