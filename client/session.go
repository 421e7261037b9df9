package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/techsbuilds/pgsphere-customer/client/internal/api"
	"github.com/techsbuilds/pgsphere-customer/client/internal/shardqueue"
	"github.com/techsbuilds/pgsphere-customer/client/meal"
)

// User-facing failure messages of the meal commands.
const (
	msgCancelFailed = "Failed to cancel meal. Please try again."
	msgSelectFailed = "Failed to update meal selection. Please try again."
)

// Session holds one tenant's meal state between login and logout: the
// cutoff configuration and the per-date schedule cache. Commands for the
// same date run one at a time in submission order; different dates proceed
// in parallel.
type Session struct {
	c     *Client
	cache *meal.WeeklySchedule

	cfgMu     sync.RWMutex
	cfg       *meal.Config
	cfgLoaded bool

	cmds    executor
	fetches executor

	closed uint32
}

// NewSession starts a meal session. The client must be logged in.
func (c *Client) NewSession() (*Session, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	return &Session{
		c:       c,
		cache:   meal.NewWeeklySchedule(),
		cmds:    newCommandExecutor(),
		fetches: newFetchExecutor(c.fetchAttempts),
	}, nil
}

// Close stops the session's executors after draining queued commands and
// drops the cache. Safe to call multiple times.
func (s *Session) Close() error {
	if !atomic.CompareAndSwapUint32(&s.closed, 0, 1) {
		return nil
	}
	s.cmds.Stop()
	s.fetches.Stop()
	s.cache.Reset()
	s.cfgMu.Lock()
	s.cfg, s.cfgLoaded = nil, false
	s.cfgMu.Unlock()
	return nil
}

func (s *Session) check() error {
	if atomic.LoadUint32(&s.closed) == 1 {
		return ErrSessionClosed
	}
	return s.c.requireToken()
}

// LoadMealConfig fetches the cutoff configuration and replaces the one held
// by the session. A backend without configuration yields nil.
func (s *Session) LoadMealConfig(ctx context.Context) (*meal.Config, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	cfg, err := api.GetMealConfig(ctx, s.c.http, s.c.baseURL)
	if err != nil {
		return nil, wrapBackend("get meal config", "Failed to fetch meal config", err)
	}
	s.cfgMu.Lock()
	s.cfg, s.cfgLoaded = cfg, true
	s.cfgMu.Unlock()
	if cfg == nil {
		log.Warn().Msg("backend returned no meal config; today's meals stay editable per policy")
	}
	return copyConfig(cfg), nil
}

// MealConfig returns the loaded configuration and whether one was loaded.
func (s *Session) MealConfig() (*meal.Config, bool) {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return copyConfig(s.cfg), s.cfgLoaded
}

func (s *Session) config() *meal.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

func copyConfig(cfg *meal.Config) *meal.Config {
	if cfg == nil {
		return nil
	}
	cp := *cfg
	return &cp
}

// IsMealEditable reports whether meal t on date may still be cancelled.
func (s *Session) IsMealEditable(t meal.Type, date string) bool {
	return s.c.policy.IsModifiable(t, date, s.config(), s.c.now())
}

// GetDaySchedule returns the cached schedule for date without any network
// call.
func (s *Session) GetDaySchedule(date string) (meal.DaySchedule, bool) {
	return s.cache.Get(date)
}

// CachedDates lists the dates held in the cache.
func (s *Session) CachedDates() []string { return s.cache.Dates() }

// FetchAndCacheDate fetches the menu of date, normalizes it against the
// current configuration and replaces the cached entry. On failure the cache
// is left as it was.
func (s *Session) FetchAndCacheDate(ctx context.Context, date string) (meal.DaySchedule, error) {
	if err := s.check(); err != nil {
		return meal.DaySchedule{}, err
	}
	if _, err := meal.ParseDate(date, time.Local); err != nil {
		return meal.DaySchedule{}, err
	}

	var entries []meal.RawDayEntry
	err := s.fetches.Do(ctx, date, shardqueue.JobFunc(func(jobCtx context.Context) error {
		var err error
		entries, err = api.GetMealsByDate(jobCtx, s.c.http, s.c.baseURL, date)
		return err
	}))
	if err != nil {
		mealFetchesTotal.WithLabelValues(outcomeFailed).Inc()
		return meal.DaySchedule{}, wrapBackend("get meals by date", "Failed to fetch meal for date", err)
	}

	if len(entries) > 1 {
		log.Warn().Str("date", date).Int("entries", len(entries)).Msg("backend returned several day entries; meals concatenated")
	}
	day, problems := s.c.policy.Normalize(entries, date, s.config(), s.c.now())
	for _, p := range problems {
		contractViolationsTotal.Inc()
		log.Warn().Err(p).Str("date", date).Msg("skipped malformed meal")
	}
	s.cache.Upsert(day)
	mealFetchesTotal.WithLabelValues(outcomeOK).Inc()
	log.Debug().Str("date", date).Int("meals", len(day.Meals)).Msg("day schedule cached")
	return day, nil
}

// FetchWeek fetches the seven days of the Sunday-started week containing
// anchor. Days that fail are missing from the result and reported in the
// joined error; the others are cached.
func (s *Session) FetchWeek(ctx context.Context, anchor time.Time) ([]meal.DaySchedule, error) {
	dates := meal.WeekOf(anchor)
	days := make([]meal.DaySchedule, len(dates))
	errs := make([]error, len(dates))

	var wg sync.WaitGroup
	for i, date := range dates {
		wg.Add(1)
		go func(i int, date string) {
			defer wg.Done()
			days[i], errs[i] = s.FetchAndCacheDate(ctx, date)
		}(i, date)
	}
	wg.Wait()

	out := make([]meal.DaySchedule, 0, len(dates))
	for i := range dates {
		if errs[i] == nil {
			out = append(out, days[i])
		}
	}
	return out, errors.Join(errs...)
}

// SelectMeal marks mealID on date as selected. The cache is updated only
// after the backend confirms.
func (s *Session) SelectMeal(ctx context.Context, date, mealID string) error {
	const op = "select meal"
	if err := s.check(); err != nil {
		return err
	}
	if _, err := meal.ParseDate(date, time.Local); err != nil {
		return err
	}
	if s.c.policy.GateReselect {
		if day, ok := s.cache.Get(date); ok {
			if m, ok := day.Meal(mealID); ok && !s.IsMealEditable(m.Type, date) {
				mealCommandsTotal.WithLabelValues(op, outcomeRejected).Inc()
				return &ValidationError{Op: op, Message: fmt.Sprintf("Cannot select %s - time limit has passed", m.Type)}
			}
		}
	}

	err := s.cmds.Do(ctx, date, shardqueue.JobFunc(func(jobCtx context.Context) error {
		if err := api.UpdateMealSelection(jobCtx, s.c.http, s.c.baseURL, date, mealID, true); err != nil {
			return err
		}
		s.cache.ApplySelectionChange(date, mealID, true)
		return nil
	}))
	if err != nil {
		mealCommandsTotal.WithLabelValues(op, outcomeFailed).Inc()
		log.Error().Err(err).Str("date", date).Str("meal_id", mealID).Msg("meal selection failed")
		return commandError(ctx, op, msgSelectFailed, err)
	}
	mealCommandsTotal.WithLabelValues(op, outcomeOK).Inc()
	return nil
}

// CancelMeal cancels meal t on date. It is refused locally, without a
// request, once the cutoff for t has passed. The cache is updated only after
// the backend confirms.
func (s *Session) CancelMeal(ctx context.Context, date string, t meal.Type) error {
	const op = "cancel meal"
	if err := s.check(); err != nil {
		return err
	}
	if !t.Valid() {
		return fmt.Errorf("%w: %d", meal.ErrUnknownType, int(t))
	}
	wire, err := meal.ToWireDate(date)
	if err != nil {
		return err
	}
	if !s.IsMealEditable(t, date) {
		mealCommandsTotal.WithLabelValues(op, outcomeRejected).Inc()
		return &ValidationError{Op: op, Message: fmt.Sprintf("Cannot cancel %s - time limit has passed", t)}
	}

	err = s.cmds.Do(ctx, date, shardqueue.JobFunc(func(jobCtx context.Context) error {
		if err := api.CancelMeal(jobCtx, s.c.http, s.c.baseURL, wire, t); err != nil {
			return err
		}
		s.cache.ApplyCancellation(wire, t)
		return nil
	}))
	if err != nil {
		mealCommandsTotal.WithLabelValues(op, outcomeFailed).Inc()
		log.Error().Err(err).Str("date", date).Str("type", t.String()).Msg("meal cancellation failed")
		return commandError(ctx, op, msgCancelFailed, err)
	}
	mealCommandsTotal.WithLabelValues(op, outcomeOK).Inc()
	return nil
}

// commandError returns the caller's own context error and ErrSessionClosed
// as they are; anything else is a *BackendError carrying msg.
func commandError(ctx context.Context, op, msg string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return err
	}
	if errors.Is(err, shardqueue.ErrExecutorClosed) {
		return ErrSessionClosed
	}
	return &BackendError{Op: op, Message: msg, Err: err}
}

// SetMealSelected routes a toggle of a cached meal: deselecting cancels the
// meal's type, selecting re-selects it.
func (s *Session) SetMealSelected(ctx context.Context, date, mealID string, selected bool) error {
	if selected {
		return s.SelectMeal(ctx, date, mealID)
	}
	day, ok := s.cache.Get(date)
	if !ok {
		return fmt.Errorf("%w: %s is not loaded", ErrInvalidInput, date)
	}
	m, ok := day.Meal(mealID)
	if !ok {
		return fmt.Errorf("%w: no meal %q on %s", ErrInvalidInput, mealID, date)
	}
	return s.CancelMeal(ctx, date, m.Type)
}
