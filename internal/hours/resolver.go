package hours

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Resolver functions are pure: calendar date + config in, answer out.
// Malformed config (missing weekday entry, unparseable window) is treated
// as disabled-by-default, never as a fatal error.

// IsWorkingDay reports whether the weekday of date is enabled in cfg.
func IsWorkingDay(date time.Time, cfg BusinessHoursConfig) bool {
	day, ok := cfg.Days[WeekdayKey(date.Weekday())]
	return ok && day.Enabled
}

// HoursForDate returns the open/close window for the weekday of date,
// or ok=false when the day is disabled or missing from the config.
func HoursForDate(date time.Time, cfg BusinessHoursConfig) (DayHours, bool) {
	day, ok := cfg.Days[WeekdayKey(date.Weekday())]
	if !ok || !day.Enabled {
		return DayHours{}, false
	}
	return day, true
}

// ParseClock parses an "HH:MM" string into hour and minute components.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("hours: invalid clock string %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("hours: invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("hours: invalid minute in %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("hours: clock %q out of range", s)
	}
	return hour, minute, nil
}

// WithinClockWindow reports whether now's hour-of-day falls inside
// [start, end), where start and end are "HH:MM" strings.
//
// This is the simplified hour-granularity check used by condition
// evaluation; it deliberately ignores the weekday-enabled flag (that
// flag only gates day planning). Unparseable bounds yield false.
func WithinClockWindow(now time.Time, start, end string) bool {
	startH, _, err := ParseClock(start)
	if err != nil {
		return false
	}
	endH, _, err := ParseClock(end)
	if err != nil {
		return false
	}
	h := now.Hour()
	return h >= startH && h < endH
}

// Validate checks that every enabled day has a well-formed window with
// Start strictly before End. Used when a config is authored, not on the
// read path (the read path degrades to disabled instead).
func (c BusinessHoursConfig) Validate() error {
	for key, day := range c.Days {
		if !day.Enabled {
			continue
		}
		sh, sm, err := ParseClock(day.Start)
		if err != nil {
			return fmt.Errorf("hours: %s start: %w", key, err)
		}
		eh, em, err := ParseClock(day.End)
		if err != nil {
			return fmt.Errorf("hours: %s end: %w", key, err)
		}
		if sh*60+sm >= eh*60+em {
			return fmt.Errorf("hours: %s start %q must be before end %q", key, day.Start, day.End)
		}
	}
	return nil
}
