package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/techsbuilds/pgsphere-customer/client"
	devserver "github.com/techsbuilds/pgsphere-customer/devmode/server"
)

// Wednesday 10:00: breakfast (8:00am) is closed, lunch (12:00pm) is open.
var wednesday = time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return wednesday }

func newSession(t *testing.T) (*client.Client, *client.Session) {
	t.Helper()
	srv := httptest.NewServer(devserver.New(devserver.WithClock(clock)))
	t.Cleanup(srv.Close)

	c, err := client.NewWithDevMode(srv.URL, client.WithClock(clock))
	if err != nil {
		t.Fatalf("NewWithDevMode: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	s, err := c.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if _, err := s.LoadMealConfig(context.Background()); err != nil {
		t.Fatalf("LoadMealConfig: %v", err)
	}
	return c, s
}

func call(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatalf("empty result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", res.Content[0])
	}
	return tc.Text
}

func TestGetMealConfigTool(t *testing.T) {
	_, s := newSession(t)
	mh := NewMealHandler(s)
	mh.now = clock

	res, err := mh.handleGetConfig(context.Background(), call(nil))
	if err != nil || res.IsError {
		t.Fatalf("handler failed: %v %+v", err, res)
	}
	var payload struct {
		Configured bool `json:"configured"`
		Meals      []struct {
			Type      string `json:"type"`
			Cutoff    string `json:"cutoff"`
			OpenToday bool   `json:"openToday"`
		} `json:"meals"`
	}
	if err := json.Unmarshal([]byte(text(t, res)), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.Configured || len(payload.Meals) != 3 {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.Meals[0].Cutoff != "8:00am" || payload.Meals[0].OpenToday {
		t.Errorf("breakfast should be closed at 10:00: %+v", payload.Meals[0])
	}
	if !payload.Meals[1].OpenToday {
		t.Errorf("lunch should be open at 10:00: %+v", payload.Meals[1])
	}
}

func TestMealTools_CancelAndSelect(t *testing.T) {
	_, s := newSession(t)
	mh := NewMealHandler(s)
	mh.now = clock
	ctx := context.Background()

	res, err := mh.handleGetDay(ctx, call(map[string]any{"date": "2024-03-15"}))
	if err != nil || res.IsError {
		t.Fatalf("get_day_menu failed: %v %+v", err, res)
	}
	if !strings.Contains(text(t, res), `"fullDaySelected":true`) {
		t.Fatalf("expected full day selection: %s", text(t, res))
	}

	res, _ = mh.handleCancel(ctx, call(map[string]any{"date": "2024-03-15", "type": "Lunch"}))
	if res.IsError {
		t.Fatalf("cancel_meal failed: %s", text(t, res))
	}
	body := text(t, res)
	if !strings.Contains(body, `"cancelled":["lunch"]`) || !strings.Contains(body, `"fullDaySelected":false`) {
		t.Fatalf("unexpected cancel result: %s", body)
	}

	res, _ = mh.handleSelect(ctx, call(map[string]any{"date": "2024-03-15", "meal_id": "meal-0-1"}))
	if res.IsError {
		t.Fatalf("select_meal failed: %s", text(t, res))
	}
	if !strings.Contains(text(t, res), `"fullDaySelected":true`) {
		t.Fatalf("unexpected select result: %s", text(t, res))
	}
}

func TestCancelMealTool_PastCutoff(t *testing.T) {
	_, s := newSession(t)
	mh := NewMealHandler(s)
	mh.now = clock

	res, err := mh.handleCancel(context.Background(), call(map[string]any{"date": "2024-03-13", "type": "breakfast"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !res.IsError || !strings.Contains(text(t, res), "time limit has passed") {
		t.Fatalf("expected time limit error, got %+v", res)
	}

	res, _ = mh.handleCancel(context.Background(), call(map[string]any{"date": "2024-03-13", "type": "brunch"}))
	if !res.IsError {
		t.Fatal("unknown meal type must be rejected")
	}
}

func TestGetWeekMenuTool(t *testing.T) {
	_, s := newSession(t)
	mh := NewMealHandler(s)
	mh.now = clock

	res, err := mh.handleGetWeek(context.Background(), call(nil))
	if err != nil || res.IsError {
		t.Fatalf("get_week_menu failed: %v %+v", err, res)
	}
	var payload struct {
		Days []struct {
			Date string `json:"date"`
		} `json:"days"`
		Partial bool `json:"partial"`
	}
	if err := json.Unmarshal([]byte(text(t, res)), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Days) != 7 || payload.Partial {
		t.Fatalf("unexpected week %+v", payload)
	}
	if payload.Days[0].Date != "2024-03-10" || payload.Days[6].Date != "2024-03-16" {
		t.Fatalf("week should run Sunday to Saturday: %+v", payload.Days)
	}
}

func TestPortalTools(t *testing.T) {
	c, _ := newSession(t)
	ph := NewPortalHandler(c)
	ctx := context.Background()

	res, _ := ph.handleSubmitComplaint(ctx, call(map[string]any{
		"subject": "No hot water", "description": "Geyser broken", "category": "Electrical",
	}))
	if res.IsError {
		t.Fatalf("submit_complaint failed: %s", text(t, res))
	}

	res, _ = ph.handleListComplaints(ctx, call(nil))
	if res.IsError || !strings.Contains(text(t, res), "No hot water") {
		t.Fatalf("list_complaints: %+v", res)
	}

	res, _ = ph.handleDashboard(ctx, call(nil))
	if res.IsError || !strings.Contains(text(t, res), "complaintCount") {
		t.Fatalf("dashboard_stats: %+v", res)
	}
}
