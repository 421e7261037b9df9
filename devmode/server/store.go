package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/techsbuilds/pgsphere-customer/client/meal"
	"github.com/techsbuilds/pgsphere-customer/devmode"
)

var (
	errPastCutoff  = errors.New("time limit has passed")
	errUnknownMeal = errors.New("unknown meal")
)

// entryDateLayout is how day entries carry their date: the instant of local
// midnight, in UTC.
const entryDateLayout = "2006-01-02T15:04:05.000Z07:00"

// weeklyMenu is served for every week, indexed by weekday.
var weeklyMenu = [7][3]rawMeal{
	time.Sunday:    {{Description: "Sunday special", Items: []string{"aloo paratha", "curd"}}, {Items: []string{"chole", "bhature", "rice"}}, {Items: []string{"veg pulao", "raita"}}},
	time.Monday:    {{Items: []string{"poha", "tea"}}, {Description: "veg", Items: []string{"rice", "dal", "bhindi"}}, {Items: []string{"roti", "paneer butter masala"}}},
	time.Tuesday:   {{Items: []string{"upma", "coffee"}}, {Items: []string{"rajma", "rice"}}, {Items: []string{"roti", "mix veg"}}},
	time.Wednesday: {{Items: []string{"idli", "sambar"}}, {Items: []string{"kadhi", "rice"}}, {Items: []string{"roti", "dal tadka"}}},
	time.Thursday:  {{Items: []string{"sandwich", "tea"}}, {Items: []string{"roti", "aloo gobi", "rice"}}, {Items: []string{"khichdi", "papad"}}},
	time.Friday:    {{Items: []string{"poha", "jalebi"}}, {Description: "veg", Items: []string{"rice", "dal"}}, {Items: []string{"roti", "chana masala"}}},
	time.Saturday:  {{Items: []string{"dosa", "chutney"}}, {Items: []string{"pav bhaji"}}, {Items: []string{"roti", "egg curry"}}},
}

// store is the in-memory state of the development backend. A single seeded
// tenant exists.
type store struct {
	mu sync.RWMutex

	now    func() time.Time
	config *meal.Config

	// cancelled[yyyy-MM-dd] holds the meal types the tenant opted out of.
	cancelled map[string][]meal.Type

	profile    profile
	updates    []dailyUpdate
	complaints []complaint
	rent       []rentPayment
}

func newStore(now func() time.Time, cfg *meal.Config) *store {
	seeded := now()
	br := branch{ID: uuid.NewString(), BranchName: "Dev Residency", BranchAddress: "1 Local Street", PGCode: devmode.PGCode}
	userID := devmode.UserID
	y, m, _ := seeded.Date()
	prev := time.Date(y, m, 1, 0, 0, 0, 0, seeded.Location()).AddDate(0, -1, 0)

	return &store{
		now:       now,
		config:    cfg,
		cancelled: make(map[string][]meal.Type),
		profile: profile{
			Customer: customer{
				ID:           userID,
				CustomerName: "Dev Tenant",
				Email:        devmode.Email,
				MobileNo:     "9999999999",
				RentAmount:   6500,
				Room:         room{ID: uuid.NewString(), RoomID: "101", RoomType: "double", ServiceType: "AC", Capacity: 2, Filled: 1},
				Branch:       br,
				JoiningDate:  prev.AddDate(0, -2, 0),
			},
			PGName: "PG Sphere Dev",
		},
		updates: []dailyUpdate{
			{ID: uuid.NewString(), Title: "Water supply off 2-4pm", ContentType: "notice", PGCode: devmode.PGCode, Branch: br, AddedByType: "Owner", CreatedAt: seeded, UpdatedAt: seeded},
			{ID: uuid.NewString(), Title: "Festival dinner on Sunday", ContentType: "event", PGCode: devmode.PGCode, Branch: br, AddedByType: "Owner", CreatedAt: seeded, UpdatedAt: seeded},
		},
		complaints: []complaint{
			{ID: uuid.NewString(), Subject: "Fan not working", Description: "Ceiling fan in 101 is slow", Category: "Maintenance", Status: "Resolved", AddedBy: &userID, PGCode: devmode.PGCode, Branch: br.ID, CreatedAt: seeded, UpdatedAt: seeded},
		},
		rent: []rentPayment{
			{Month: int(prev.Month()), Year: prev.Year(), Status: "Paid", RentAmount: 6500},
			{Month: int(m), Year: y, Status: "Pending", RentAmount: 6500, Pending: 6500},
		},
	}
}

func (s *store) mealConfig() *meal.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.config == nil {
		return nil
	}
	cp := *s.config
	return &cp
}

// day returns the menu of date with the tenant's cancellations applied.
func (s *store) day(date time.Time, userID string) rawDay {
	key := meal.CanonicalDate(date)
	s.mu.RLock()
	cancelled := slices.Clone(s.cancelled[key])
	s.mu.RUnlock()

	marker, _ := json.Marshal(userID)
	menu := weeklyMenu[date.Weekday()]
	out := rawDay{Date: date.UTC().Format(entryDateLayout), Meals: make([]rawMeal, 0, len(menu))}
	for i, t := range meal.Types {
		m := menu[i]
		m.Type = t.Title()
		m.Items = slices.Clone(m.Items)
		m.Cancelled = []json.RawMessage{}
		if slices.Contains(cancelled, t) {
			m.Cancelled = append(m.Cancelled, marker)
		}
		out.Meals = append(out.Meals, m)
	}
	return out
}

// setCancelled records or clears a cancellation. Cancelling is refused once
// the cutoff has passed; an unconfigured or unparseable cutoff refuses too.
func (s *store) setCancelled(date string, t meal.Type, cancelled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancelled && !(meal.Policy{}).IsModifiable(t, date, s.config, s.now()) {
		return fmt.Errorf("cannot cancel %s: %w", t, errPastCutoff)
	}
	cur := s.cancelled[date]
	has := slices.Contains(cur, t)
	switch {
	case cancelled && !has:
		s.cancelled[date] = append(cur, t)
	case !cancelled && has:
		s.cancelled[date] = slices.DeleteFunc(cur, func(x meal.Type) bool { return x == t })
	}
	return nil
}

// mealIDType resolves a positional meal id ("meal-0-1") to its meal type.
func mealIDType(id string) (meal.Type, error) {
	var entry, idx int
	if _, err := fmt.Sscanf(id, "meal-%d-%d", &entry, &idx); err != nil || entry != 0 || idx < 0 || idx >= len(meal.Types) {
		return 0, fmt.Errorf("%w: %q", errUnknownMeal, id)
	}
	return meal.Types[idx], nil
}

func (s *store) getProfile() profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *store) updateProfile(req profileRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Name != "" {
		s.profile.Customer.CustomerName = req.Name
	}
	if req.Mobile != "" {
		s.profile.Customer.MobileNo = req.Mobile
	}
	if req.Email != "" {
		s.profile.Customer.Email = req.Email
	}
}

func (s *store) listUpdates() []dailyUpdate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.updates)
}

func (s *store) listComplaints() []complaint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.complaints)
}

func (s *store) addComplaint(userID string, req complaintRequest) complaint {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	c := complaint{
		ID:          uuid.NewString(),
		Subject:     req.Subject,
		Description: req.Description,
		Category:    req.Category,
		Status:      "Open",
		AddedBy:     &userID,
		PGCode:      devmode.PGCode,
		Branch:      s.profile.Customer.Branch.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.complaints = append([]complaint{c}, s.complaints...)
	return c
}

func (s *store) rentLedger() rentLedger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return rentLedger{
		CustomerID:   s.profile.Customer.ID,
		CustomerName: s.profile.Customer.CustomerName,
		MobileNo:     s.profile.Customer.MobileNo,
		RentList:     slices.Clone(s.rent),
	}
}

func (s *store) dashboard() dashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := dashboardStats{DailyUpdateCount: len(s.updates)}
	for _, c := range s.complaints {
		if c.Status != "Resolved" && c.Status != "Closed" {
			st.ComplaintCount++
		}
	}
	for _, r := range s.rent {
		if r.Pending > 0 {
			st.PendingRentAmount += r.Pending
			st.PendingRentMonths++
		}
	}
	return st
}

func (s *store) invite() signupInvite {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return signupInvite{
		Branch:    s.profile.Customer.Branch,
		PGDetails: pgDetails{ID: uuid.NewString(), FullName: "Dev Owner", Email: "owner@pgsphere.local", PGName: s.profile.PGName, Address: s.profile.Customer.Branch.BranchAddress, ContactNo: "8888888888"},
		PGCode:    devmode.PGCode,
		Rooms:     []room{s.profile.Customer.Room},
	}
}
