package meal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Config carries the per-meal cutoff times returned by GET mealconfig.
// It is fetched once per session and replaced wholesale on refetch.
type Config struct {
	BreakfastTime string `json:"breakfast_time"`
	LunchTime     string `json:"lunch_time"`
	DinnerTime    string `json:"dinner_time"`
}

// Cutoff returns the raw cutoff string configured for t.
func (c Config) Cutoff(t Type) string {
	switch t {
	case Breakfast:
		return c.BreakfastTime
	case Lunch:
		return c.LunchTime
	case Dinner:
		return c.DinnerTime
	}
	return ""
}

// Deadline returns the instant on day's calendar date after which t can no
// longer be cancelled.
func (c Config) Deadline(t Type, day time.Time) (time.Time, error) {
	hour, minute, err := ParseCutoff(c.Cutoff(t))
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, day.Location()), nil
}

var cutoffPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*([ap]m)$`)

// ParseCutoff parses a 12-hour clock string ("8:00am", "08:30PM", "12pm")
// into a 24-hour hour and minute.
func ParseCutoff(s string) (hour, minute int, err error) {
	m := cutoffPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCutoff, s)
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCutoff, s)
	}
	switch {
	case m[3] == "am" && hour == 12:
		hour = 0
	case m[3] == "pm" && hour != 12:
		hour += 12
	}
	return hour, minute, nil
}

// Policy decides whether a meal may still be changed.
type Policy struct {
	// FailOpen is the answer given for today's meals when no Config has
	// been loaded yet. An unparseable cutoff always fails closed.
	FailOpen bool

	// GateReselect applies the cutoff to re-selecting a cancelled meal as
	// well as to cancelling it.
	GateReselect bool
}

// DefaultPolicy fails open without config and leaves re-selection ungated.
func DefaultPolicy() Policy { return Policy{FailOpen: true} }

// IsModifiable reports whether meal t on date (yyyy-MM-dd) may be cancelled
// at now. Future dates are always modifiable and past dates never are;
// today is modifiable strictly before the configured cutoff.
func (p Policy) IsModifiable(t Type, date string, cfg *Config, now time.Time) bool {
	day, err := ParseDate(date, now.Location())
	if err != nil {
		return false
	}
	switch compareDay(day, now) {
	case 1:
		return true
	case -1:
		return false
	}
	if cfg == nil {
		return p.FailOpen
	}
	deadline, err := cfg.Deadline(t, day)
	if err != nil {
		return false
	}
	return now.Before(deadline)
}

// IsModifiable applies DefaultPolicy.
func IsModifiable(t Type, date string, cfg *Config, now time.Time) bool {
	return DefaultPolicy().IsModifiable(t, date, cfg, now)
}
