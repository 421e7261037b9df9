package types

import (
	"encoding/json"

	"github.com/techsbuilds/pgsphere-customer/client/meal"
)

// ------------------------------
// Response envelopes
// ------------------------------

// Envelope is the wrapper every portal endpoint responds with. Data is left
// raw so each call decodes its own payload.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// MealsByDateResponse is the payload of GET meal/{date}. The day entries sit
// at the envelope's top level under "meal", not under "data".
type MealsByDateResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Meal    []meal.RawDayEntry `json:"meal"`
}
