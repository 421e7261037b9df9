package meal

import (
	"cmp"
	"fmt"
	"time"
)

// All conversions between the cache key format and the backend's
// day-month-year path/body format go through this file.
const (
	// DateLayout is the canonical cache key layout (yyyy-MM-dd).
	DateLayout = "2006-01-02"

	// WireDateLayout is the DD-MM-YYYY layout used by GET meal/{date} and
	// the cancel body.
	WireDateLayout = "02-01-2006"
)

// ParseDate parses a canonical yyyy-MM-dd date at midnight in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t, nil
}

// CanonicalDate formats t as a cache key.
func CanonicalDate(t time.Time) string { return t.Format(DateLayout) }

// ToWireDate converts a yyyy-MM-dd key to DD-MM-YYYY.
func ToWireDate(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t.Format(WireDateLayout), nil
}

// FromWireDate converts a DD-MM-YYYY date back to a yyyy-MM-dd key.
func FromWireDate(wire string) (string, error) {
	t, err := time.Parse(WireDateLayout, wire)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, wire)
	}
	return t.Format(DateLayout), nil
}

// entryDate reduces a day entry date to a cache key. The backend sends
// either a bare date or an RFC 3339 timestamp; timestamps are read as the
// calendar day in loc, so a UTC instant just before midnight maps to the
// tenant's next day.
func entryDate(raw string, loc *time.Location) (string, bool) {
	if _, err := time.Parse(DateLayout, raw); err == nil {
		return raw, true
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return CanonicalDate(t.In(loc)), true
		}
	}
	return "", false
}

// WeekOf returns the seven cache keys of the Sunday-started week
// containing anchor.
func WeekOf(anchor time.Time) []string {
	y, m, d := anchor.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, anchor.Location())
	start = start.AddDate(0, 0, -int(start.Weekday()))
	days := make([]string, 7)
	for i := range days {
		days[i] = CanonicalDate(start.AddDate(0, 0, i))
	}
	return days
}

// compareDay orders a and b by calendar date, reading b in a's location.
func compareDay(a, b time.Time) int {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if c := cmp.Compare(ay, by); c != 0 {
		return c
	}
	if c := cmp.Compare(am, bm); c != 0 {
		return c
	}
	return cmp.Compare(ad, bd)
}
