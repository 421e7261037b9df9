package meal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCfg = &Config{BreakfastTime: "8:00am", LunchTime: "12pm", DinnerTime: "7:30pm"}

func at(hour, minute int) time.Time {
	return time.Date(2024, time.March, 15, hour, minute, 0, 0, time.UTC)
}

func TestParseCutoff(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in           string
		hour, minute int
	}{
		{"8:00am", 8, 0},
		{"08:00AM", 8, 0},
		{"8am", 8, 0},
		{"12am", 0, 0},
		{"12:15am", 0, 15},
		{"12pm", 12, 0},
		{"12:30pm", 12, 30},
		{"4:12am", 4, 12},
		{"11:56pm", 23, 56},
		{" 7:30 PM ", 19, 30},
	}
	for _, c := range cases {
		h, m, err := ParseCutoff(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.hour, h, c.in)
		assert.Equal(t, c.minute, m, c.in)
	}
}

func TestParseCutoff_Invalid(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "8:00", "noon", "13pm", "0am", "8:75am", "08:00:00"} {
		_, _, err := ParseCutoff(in)
		assert.ErrorIs(t, err, ErrInvalidCutoff, in)
	}
}

func TestIsModifiable_FutureAlwaysTrue(t *testing.T) {
	t.Parallel()
	late := at(23, 59)
	for _, date := range []string{"2024-03-16", "2024-04-01", "2025-01-01"} {
		for _, mt := range Types {
			assert.True(t, IsModifiable(mt, date, testCfg, late), "%s %s", date, mt)
			assert.True(t, IsModifiable(mt, date, &Config{}, late), "%s %s without cutoffs", date, mt)
		}
	}
}

func TestIsModifiable_PastAlwaysFalse(t *testing.T) {
	t.Parallel()
	early := at(0, 1)
	for _, date := range []string{"2024-03-14", "2023-12-31"} {
		for _, mt := range Types {
			assert.False(t, IsModifiable(mt, date, testCfg, early), "%s %s", date, mt)
			assert.False(t, IsModifiable(mt, date, nil, early), "%s %s without config", date, mt)
		}
	}
}

func TestIsModifiable_TodayBoundary(t *testing.T) {
	t.Parallel()
	assert.True(t, IsModifiable(Breakfast, "2024-03-15", testCfg, at(7, 59)))
	assert.False(t, IsModifiable(Breakfast, "2024-03-15", testCfg, at(8, 0)))
	assert.True(t, IsModifiable(Lunch, "2024-03-15", testCfg, at(11, 59)))
	assert.False(t, IsModifiable(Lunch, "2024-03-15", testCfg, at(12, 0)))
	assert.True(t, IsModifiable(Dinner, "2024-03-15", testCfg, at(19, 29)))
	assert.False(t, IsModifiable(Dinner, "2024-03-15", testCfg, at(19, 30)))
}

func TestIsModifiable_MissingConfig(t *testing.T) {
	t.Parallel()
	assert.True(t, DefaultPolicy().IsModifiable(Lunch, "2024-03-15", nil, at(23, 0)))
	assert.False(t, Policy{FailOpen: false}.IsModifiable(Lunch, "2024-03-15", nil, at(1, 0)))
}

func TestIsModifiable_BadCutoffFailsClosed(t *testing.T) {
	t.Parallel()
	cfg := &Config{BreakfastTime: "whenever"}
	assert.False(t, IsModifiable(Breakfast, "2024-03-15", cfg, at(0, 0)))
	assert.False(t, DefaultPolicy().IsModifiable(Lunch, "2024-03-15", cfg, at(0, 0)))
}

func TestIsModifiable_BadDate(t *testing.T) {
	t.Parallel()
	assert.False(t, IsModifiable(Lunch, "15-03-2024", testCfg, at(0, 0)))
}

func TestConfigDeadline(t *testing.T) {
	t.Parallel()
	d, err := testCfg.Deadline(Dinner, at(3, 0))
	require.NoError(t, err)
	assert.Equal(t, at(19, 30), d)

	_, err = testCfg.Deadline(Type(9), at(3, 0))
	assert.ErrorIs(t, err, ErrInvalidCutoff)
}
