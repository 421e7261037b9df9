package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/techsbuilds/pgsphere-customer/client"
	"github.com/techsbuilds/pgsphere-customer/client/meal"
)

// MealHandler exposes the meal schedule tools over one tenant session.
type MealHandler struct {
	session *client.Session
	now     func() time.Time
}

// NewMealHandler returns a handler bound to s.
func NewMealHandler(s *client.Session) *MealHandler {
	return &MealHandler{session: s, now: time.Now}
}

// RegisterTools registers meal tools.
func (mh *MealHandler) RegisterTools(s *server.MCPServer) error {
	cfg := mcp.NewTool("get_meal_config",
		mcp.WithDescription("Get the cancellation cutoff for breakfast, lunch and dinner and whether each is still open today"),
	)
	day := mcp.NewTool("get_day_menu",
		mcp.WithDescription("Get the menu and selection state for one day; meal ids from here are used by select_meal"),
		mcp.WithString("date", mcp.Description("Day as YYYY-MM-DD; default today")),
		mcp.WithBoolean("refresh", mcp.Description("Refetch even if the day is cached")),
	)
	week := mcp.NewTool("get_week_menu",
		mcp.WithDescription("Get the Sunday-to-Saturday week containing a day"),
		mcp.WithString("date", mcp.Description("Any day of the week as YYYY-MM-DD; default today")),
	)
	sel := mcp.NewTool("select_meal",
		mcp.WithDescription("Select (opt back in to) a meal on a day"),
		mcp.WithString("date", mcp.Required(), mcp.Description("Day as YYYY-MM-DD")),
		mcp.WithString("meal_id", mcp.Required(), mcp.Description("Meal id from get_day_menu, e.g. meal-0-1")),
	)
	cancel := mcp.NewTool("cancel_meal",
		mcp.WithDescription("Cancel a meal on a day; refused once today's cutoff has passed"),
		mcp.WithString("date", mcp.Required(), mcp.Description("Day as YYYY-MM-DD")),
		mcp.WithString("type", mcp.Required(), mcp.Description("breakfast, lunch or dinner")),
	)

	s.AddTool(cfg, mh.handleGetConfig)
	s.AddTool(day, mh.handleGetDay)
	s.AddTool(week, mh.handleGetWeek)
	s.AddTool(sel, mh.handleSelect)
	s.AddTool(cancel, mh.handleCancel)
	return nil
}

func (mh *MealHandler) dateArg(req mcp.CallToolRequest) string {
	if v, ok := req.GetArguments()["date"].(string); ok && v != "" {
		return v
	}
	return meal.CanonicalDate(mh.now())
}

func (mh *MealHandler) handleGetConfig(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Debug().Msg("get_meal_config invoked")

	cfg, err := mh.session.LoadMealConfig(ctx)
	if err != nil {
		log.Error().Err(err).Msg("get_meal_config failed")
		return mcp.NewToolResultError(client.UserMessage(err)), nil
	}

	type cutoff struct {
		Type      string `json:"type"`
		Cutoff    string `json:"cutoff"`
		OpenToday bool   `json:"openToday"`
	}
	out := struct {
		Configured bool     `json:"configured"`
		Meals      []cutoff `json:"meals"`
	}{Configured: cfg != nil, Meals: make([]cutoff, 0, len(meal.Types))}

	today := meal.CanonicalDate(mh.now())
	for _, t := range meal.Types {
		c := cutoff{Type: t.String(), OpenToday: mh.session.IsMealEditable(t, today)}
		if cfg != nil {
			c.Cutoff = cfg.Cutoff(t)
		}
		out.Meals = append(out.Meals, c)
	}
	b, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(b)), nil
}

func (mh *MealHandler) handleGetDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := mh.dateArg(req)
	refresh, _ := req.GetArguments()["refresh"].(bool)

	log.Debug().Str("date", date).Bool("refresh", refresh).Msg("get_day_menu invoked")

	if !refresh {
		if d, ok := mh.session.GetDaySchedule(date); ok {
			b, _ := json.Marshal(d)
			return mcp.NewToolResultText(string(b)), nil
		}
	}

	start := time.Now()
	d, err := mh.session.FetchAndCacheDate(ctx, date)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("date", date).Dur("elapsed", elapsed).Msg("get_day_menu failed")
		return mcp.NewToolResultError(client.UserMessage(err)), nil
	}
	b, _ := json.Marshal(d)
	return mcp.NewToolResultText(string(b)), nil
}

func (mh *MealHandler) handleGetWeek(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := mh.dateArg(req)
	anchor, err := meal.ParseDate(date, mh.now().Location())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	log.Debug().Str("date", date).Msg("get_week_menu invoked")

	days, err := mh.session.FetchWeek(ctx, anchor)
	if err != nil && len(days) == 0 {
		log.Error().Err(err).Str("date", date).Msg("get_week_menu failed")
		return mcp.NewToolResultError(client.UserMessage(err)), nil
	}
	out := struct {
		Days    []meal.DaySchedule `json:"days"`
		Partial bool               `json:"partial"`
	}{Days: days, Partial: err != nil}
	b, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(b)), nil
}

func (mh *MealHandler) handleSelect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, _ := req.RequireString("date")
	mealID, _ := req.RequireString("meal_id")

	log.Debug().Str("date", date).Str("meal_id", mealID).Msg("select_meal invoked")

	if err := mh.session.SelectMeal(ctx, date, mealID); err != nil {
		log.Error().Err(err).Str("date", date).Str("meal_id", mealID).Msg("select_meal failed")
		return mcp.NewToolResultError(client.UserMessage(err)), nil
	}
	return mh.dayResult(date, fmt.Sprintf("%s selected", mealID))
}

func (mh *MealHandler) handleCancel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, _ := req.RequireString("date")
	raw, _ := req.RequireString("type")
	t, err := meal.ParseType(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	log.Debug().Str("date", date).Str("type", t.String()).Msg("cancel_meal invoked")

	if err := mh.session.CancelMeal(ctx, date, t); err != nil {
		log.Error().Err(err).Str("date", date).Str("type", t.String()).Msg("cancel_meal failed")
		return mcp.NewToolResultError(client.UserMessage(err)), nil
	}
	return mh.dayResult(date, fmt.Sprintf("%s cancelled", t.Title()))
}

// dayResult reports a command outcome with the cached day, when there is one.
func (mh *MealHandler) dayResult(date, msg string) (*mcp.CallToolResult, error) {
	out := map[string]any{"message": msg}
	if d, ok := mh.session.GetDaySchedule(date); ok {
		out["day"] = d
	}
	b, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(b)), nil
}
