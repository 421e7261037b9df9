package meal

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// RawMeal is one meal as returned inside GET meal/{date}.
type RawMeal struct {
	Type        string            `json:"type"`
	Description string            `json:"description"`
	Items       []string          `json:"items"`
	Cancelled   []json.RawMessage `json:"cancelled"`
}

// RawDayEntry groups the raw meals the backend lists under one date.
type RawDayEntry struct {
	Date  string    `json:"date"`
	Meals []RawMeal `json:"meals"`
}

// Normalize converts the raw day entries fetched for requestedDate into a
// DaySchedule. Meals of every entry are concatenated in order. Meals with
// an unknown type are skipped and reported as *ContractError values; the
// rest of the day is kept.
func (p Policy) Normalize(entries []RawDayEntry, requestedDate string, cfg *Config, now time.Time) (DaySchedule, []error) {
	day := DaySchedule{Date: requestedDate, Meals: []Entry{}, Cancelled: []Type{}}
	var problems []error

	for ei, entry := range entries {
		date, ok := entryDate(entry.Date, now.Location())
		if !ok {
			date = requestedDate
		}
		for mi, raw := range entry.Meals {
			t, err := ParseType(raw.Type)
			if err != nil {
				problems = append(problems, &ContractError{EntryIndex: ei, MealIndex: mi, Err: err})
				continue
			}
			cancelled := len(raw.Cancelled) > 0
			day.Meals = append(day.Meals, Entry{
				ID:          fmt.Sprintf("meal-%d-%d", ei, mi),
				Type:        t,
				Description: raw.Description,
				Selected:    !cancelled,
				CanModify:   p.IsModifiable(t, date, cfg, now),
				Items:       subItems(ei, mi, raw.Items),
			})
			if cancelled && !slices.Contains(day.Cancelled, t) {
				day.Cancelled = append(day.Cancelled, t)
			}
		}
	}
	return day, problems
}

// Normalize applies DefaultPolicy.
func Normalize(entries []RawDayEntry, requestedDate string, cfg *Config, now time.Time) (DaySchedule, []error) {
	return DefaultPolicy().Normalize(entries, requestedDate, cfg, now)
}

func subItems(ei, mi int, names []string) []SubItem {
	items := make([]SubItem, len(names))
	for i, name := range names {
		items[i] = SubItem{ID: fmt.Sprintf("item-%d-%d-%d", ei, mi, i), Name: name}
	}
	return items
}
