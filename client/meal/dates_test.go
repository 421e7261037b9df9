package meal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireDateRoundTrip(t *testing.T) {
	t.Parallel()
	wire, err := ToWireDate("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, "05-03-2024", wire)

	back, err := FromWireDate(wire)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", back)
}

func TestWireDate_Invalid(t *testing.T) {
	t.Parallel()
	_, err := ToWireDate("05-03-2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = FromWireDate("2024-03-05")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = ParseDate("2024-02-30", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestEntryDate(t *testing.T) {
	t.Parallel()
	ist := time.FixedZone("IST", 5*3600+1800)

	got, ok := entryDate("2024-03-15T00:00:00.000Z", time.UTC)
	assert.True(t, ok)
	assert.Equal(t, "2024-03-15", got)

	// 18:30Z on the 14th is already midnight of the 15th in India.
	got, ok = entryDate("2024-03-14T18:30:00.000Z", ist)
	assert.True(t, ok)
	assert.Equal(t, "2024-03-15", got)

	got, ok = entryDate("2024-03-15T00:00:00+05:30", ist)
	assert.True(t, ok)
	assert.Equal(t, "2024-03-15", got)

	got, ok = entryDate("2024-03-15", ist)
	assert.True(t, ok)
	assert.Equal(t, "2024-03-15", got)

	_, ok = entryDate("15-03-2024", time.UTC)
	assert.False(t, ok)
	_, ok = entryDate("2024-03-15garbage", time.UTC)
	assert.False(t, ok)
	_, ok = entryDate("", time.UTC)
	assert.False(t, ok)
}

func TestWeekOf_StartsSunday(t *testing.T) {
	t.Parallel()
	// 2024-03-15 is a Friday.
	week := WeekOf(time.Date(2024, time.March, 15, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, []string{
		"2024-03-10", "2024-03-11", "2024-03-12", "2024-03-13",
		"2024-03-14", "2024-03-15", "2024-03-16",
	}, week)

	sunday := WeekOf(time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-03-10", sunday[0])
}
