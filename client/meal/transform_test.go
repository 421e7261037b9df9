package meal

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Empty(t *testing.T) {
	t.Parallel()
	day, problems := Normalize(nil, "2024-03-15", testCfg, at(9, 0))
	assert.Empty(t, problems)
	assert.Equal(t, "2024-03-15", day.Date)
	assert.Empty(t, day.Meals)
	assert.Empty(t, day.Cancelled)
	assert.False(t, day.FullDaySelected())

	b, err := json.Marshal(day)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-03-15","meals":[],"cancelled":[],"fullDaySelected":false}`, string(b))
}

func TestNormalize_LunchScenario(t *testing.T) {
	t.Parallel()
	raw := []RawDayEntry{{
		Date: "2024-03-15",
		Meals: []RawMeal{{
			Type: "Lunch", Description: "veg", Items: []string{"rice", "dal"}, Cancelled: []json.RawMessage{},
		}},
	}}
	day, problems := Normalize(raw, "2024-03-15", testCfg, at(9, 0))
	require.Empty(t, problems)
	require.Len(t, day.Meals, 1)

	m := day.Meals[0]
	assert.Equal(t, "meal-0-0", m.ID)
	assert.Equal(t, Lunch, m.Type)
	assert.Equal(t, "veg", m.Description)
	assert.True(t, m.Selected)
	assert.True(t, m.CanModify)
	assert.Equal(t, []SubItem{{ID: "item-0-0-0", Name: "rice"}, {ID: "item-0-0-1", Name: "dal"}}, m.Items)
	assert.Empty(t, day.Cancelled)
	assert.True(t, day.FullDaySelected())
}

func TestNormalize_CancelledAndDeadlines(t *testing.T) {
	t.Parallel()
	raw := []RawDayEntry{{
		Date: "2024-03-15T00:00:00.000Z",
		Meals: []RawMeal{
			{Type: "Breakfast", Items: []string{"poha"}},
			{Type: "LUNCH", Items: []string{"rice"}, Cancelled: []json.RawMessage{json.RawMessage(`"u1"`)}},
			{Type: "dinner", Items: []string{}},
		},
	}}
	day, problems := Normalize(raw, "2024-03-15", testCfg, at(9, 0))
	require.Empty(t, problems)
	require.Len(t, day.Meals, 3)

	assert.False(t, day.Meals[0].CanModify, "breakfast cutoff 8:00am has passed at 9:00")
	assert.True(t, day.Meals[1].CanModify)
	assert.False(t, day.Meals[1].Selected)
	assert.True(t, day.Meals[2].Selected)
	assert.Equal(t, []Type{Lunch}, day.Cancelled)
	assert.False(t, day.FullDaySelected())
}

func TestNormalize_UsesEntryDateForPolicy(t *testing.T) {
	t.Parallel()
	raw := []RawDayEntry{{Date: "2024-03-16", Meals: []RawMeal{{Type: "breakfast"}}}}
	day, _ := Normalize(raw, "2024-03-15", testCfg, at(23, 0))
	assert.Equal(t, "2024-03-15", day.Date)
	assert.True(t, day.Meals[0].CanModify)
}

func TestNormalize_ConcatenatesEntries(t *testing.T) {
	t.Parallel()
	raw := []RawDayEntry{
		{Date: "2024-03-15", Meals: []RawMeal{{Type: "breakfast"}, {Type: "lunch"}}},
		{Date: "2024-03-15", Meals: []RawMeal{{Type: "lunch", Cancelled: []json.RawMessage{json.RawMessage(`{}`)}}}},
	}
	day, _ := Normalize(raw, "2024-03-15", testCfg, at(6, 0))
	require.Len(t, day.Meals, 3)
	assert.Equal(t, []string{"meal-0-0", "meal-0-1", "meal-1-0"},
		[]string{day.Meals[0].ID, day.Meals[1].ID, day.Meals[2].ID})
	assert.Equal(t, []Type{Lunch}, day.Cancelled)
}

func TestNormalize_SkipsUnknownType(t *testing.T) {
	t.Parallel()
	raw := []RawDayEntry{{Date: "2024-03-15", Meals: []RawMeal{{Type: "snack"}, {Type: "dinner"}}}}
	day, problems := Normalize(raw, "2024-03-15", testCfg, at(6, 0))
	require.Len(t, problems, 1)

	var ce *ContractError
	require.True(t, errors.As(problems[0], &ce))
	assert.Equal(t, 0, ce.MealIndex)
	assert.ErrorIs(t, problems[0], ErrUnknownType)

	require.Len(t, day.Meals, 1)
	assert.Equal(t, "meal-0-1", day.Meals[0].ID)
}

// A timestamp entry date is read in the tenant's zone: 18:30Z on the 14th is
// the 15th in India, so at 07:00 IST breakfast (8:00am) is still editable.
func TestNormalize_OffsetEntryDate(t *testing.T) {
	t.Parallel()
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2024, time.March, 15, 7, 0, 0, 0, ist)
	raw := []RawDayEntry{{
		Date:  "2024-03-14T18:30:00.000Z",
		Meals: []RawMeal{{Type: "Breakfast"}},
	}}

	day, problems := Normalize(raw, "2024-03-15", &Config{BreakfastTime: "8:00am"}, now)
	require.Empty(t, problems)
	require.Len(t, day.Meals, 1)
	assert.Equal(t, "2024-03-15", day.Date)
	assert.True(t, day.Meals[0].CanModify)

	day, _ = Normalize(raw, "2024-03-15", &Config{BreakfastTime: "8:00am"}, now.Add(90*time.Minute))
	assert.False(t, day.Meals[0].CanModify)
}
