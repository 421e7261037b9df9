package meal

import (
	"encoding/json"
	"slices"
	"sort"
	"sync"
)

// SubItem is one dish of a meal. IDs are positional and only unique within
// the normalization pass that produced them.
type SubItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Entry is a single meal offered on a day.
type Entry struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	Description string    `json:"description"`
	Selected    bool      `json:"isSelected"`
	CanModify   bool      `json:"canModify"`
	Items       []SubItem `json:"items"`
}

// DaySchedule is the normalized menu and selection state for one date.
type DaySchedule struct {
	Date      string  `json:"date"`
	Meals     []Entry `json:"meals"`
	Cancelled []Type  `json:"cancelled"`
}

// FullDaySelected reports whether the day has meals and every one of them
// is selected. It is derived from Meals on every call.
func (d DaySchedule) FullDaySelected() bool {
	if len(d.Meals) == 0 {
		return false
	}
	for _, m := range d.Meals {
		if !m.Selected {
			return false
		}
	}
	return true
}

// IsCancelled reports whether t is in the day's cancelled set.
func (d DaySchedule) IsCancelled(t Type) bool { return slices.Contains(d.Cancelled, t) }

// Meal returns the entry with the given id.
func (d DaySchedule) Meal(id string) (Entry, bool) {
	for _, m := range d.Meals {
		if m.ID == id {
			return m, true
		}
	}
	return Entry{}, false
}

// MarshalJSON adds the derived fullDaySelected field.
func (d DaySchedule) MarshalJSON() ([]byte, error) {
	type plain DaySchedule
	meals, cancelled := d.Meals, d.Cancelled
	if meals == nil {
		meals = []Entry{}
	}
	if cancelled == nil {
		cancelled = []Type{}
	}
	return json.Marshal(struct {
		plain
		Meals           []Entry `json:"meals"`
		Cancelled       []Type  `json:"cancelled"`
		FullDaySelected bool    `json:"fullDaySelected"`
	}{plain(d), meals, cancelled, d.FullDaySelected()})
}

func (d DaySchedule) clone() DaySchedule {
	out := DaySchedule{Date: d.Date, Cancelled: slices.Clone(d.Cancelled)}
	if d.Meals != nil {
		out.Meals = make([]Entry, len(d.Meals))
		for i, m := range d.Meals {
			m.Items = slices.Clone(m.Items)
			out.Meals[i] = m
		}
	}
	return out
}

// WeeklySchedule caches DaySchedules by date for the lifetime of a session.
// Entries are never evicted. It is safe for concurrent use; readers get
// copies.
type WeeklySchedule struct {
	mu   sync.RWMutex
	days map[string]DaySchedule
}

// NewWeeklySchedule returns an empty cache.
func NewWeeklySchedule() *WeeklySchedule {
	return &WeeklySchedule{days: make(map[string]DaySchedule)}
}

// Upsert replaces whatever is cached for day.Date.
func (w *WeeklySchedule) Upsert(day DaySchedule) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.days[day.Date] = day.clone()
}

// Get returns a copy of the cached schedule for date.
func (w *WeeklySchedule) Get(date string) (DaySchedule, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	d, ok := w.days[date]
	if !ok {
		return DaySchedule{}, false
	}
	return d.clone(), true
}

// Dates returns the cached dates in ascending order.
func (w *WeeklySchedule) Dates() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, 0, len(w.days))
	for k := range w.days {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of cached dates.
func (w *WeeklySchedule) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.days)
}

// ApplySelectionChange sets the Selected flag of meal mealID on date. It
// reports false, changing nothing, when the date or meal is not cached.
// The cancelled set is left as is.
func (w *WeeklySchedule) ApplySelectionChange(date, mealID string, selected bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, ok := w.days[date]
	if !ok {
		return false
	}
	for i := range d.Meals {
		if d.Meals[i].ID == mealID {
			d.Meals[i].Selected = selected
			return true
		}
	}
	return false
}

// ApplyCancellation records a confirmed cancellation. wireDate is in the
// DD-MM-YYYY form the cancel endpoint uses. The type is added to the
// cancelled set at most once and every meal of that type is deselected.
// It reports false when the date is malformed or not cached.
func (w *WeeklySchedule) ApplyCancellation(wireDate string, t Type) bool {
	date, err := FromWireDate(wireDate)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	d, ok := w.days[date]
	if !ok {
		return false
	}
	if !slices.Contains(d.Cancelled, t) {
		d.Cancelled = append(d.Cancelled, t)
	}
	for i := range d.Meals {
		if d.Meals[i].Type == t {
			d.Meals[i].Selected = false
		}
	}
	w.days[date] = d
	return true
}

// Reset drops every cached day.
func (w *WeeklySchedule) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.days = make(map[string]DaySchedule)
}
