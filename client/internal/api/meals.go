package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-openapi/strfmt"

	clienterrors "github.com/techsbuilds/pgsphere-customer/client/internal/errors"
	"github.com/techsbuilds/pgsphere-customer/client/internal/types"
	"github.com/techsbuilds/pgsphere-customer/client/meal"
)

// GetMealConfig fetches the per-meal cutoff times. It returns a nil Config
// when the PG has not configured any.
func GetMealConfig(ctx context.Context, httpClient types.HTTPClient, baseURL string) (*meal.Config, error) {
	var cfg *meal.Config
	if err := doEnvelope(ctx, httpClient, http.MethodGet, baseURL+"/api/mealconfig", "get meal config", nil, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetMealsByDate fetches the raw day entries for date (yyyy-MM-dd).
func GetMealsByDate(ctx context.Context, httpClient types.HTTPClient, baseURL, date string) ([]meal.RawDayEntry, error) {
	wire, err := meal.ToWireDate(date)
	if err != nil {
		return nil, err
	}
	const op = "get meals by date"
	status, raw, err := call(ctx, httpClient, http.MethodGet, fmt.Sprintf("%s/api/meal/%s", baseURL, url.PathEscape(wire)), op, nil)
	if err != nil {
		return nil, err
	}
	var resp types.MealsByDateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, clienterrors.NewDecodeError(op, status, err)
	}
	if !resp.Success {
		return nil, clienterrors.NewEnvelopeError(status, resp.Message, op)
	}
	return resp.Meal, nil
}

// UpdateMealSelection records that mealID on date (yyyy-MM-dd) is selected
// or not.
func UpdateMealSelection(ctx context.Context, httpClient types.HTTPClient, baseURL, date, mealID string, selected bool) error {
	day, err := time.Parse(meal.DateLayout, date)
	if err != nil {
		return fmt.Errorf("%w: %q", meal.ErrInvalidDate, date)
	}
	body := types.SelectionRequest{Date: strfmt.Date(day), MealID: mealID, IsSelected: selected}
	return doEnvelope(ctx, httpClient, http.MethodPut, baseURL+"/api/meals/selection", "update meal selection", body, nil)
}

// CancelMeal cancels meal t on wireDate (DD-MM-YYYY).
func CancelMeal(ctx context.Context, httpClient types.HTTPClient, baseURL, wireDate string, t meal.Type) error {
	body := types.CancelRequest{Date: wireDate, Type: t.Title()}
	return doEnvelope(ctx, httpClient, http.MethodPut, baseURL+"/api/meal", "cancel meal", body, nil)
}
