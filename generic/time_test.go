package generic_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/staff-ledger/generic"
)

// =============================================================================
// DATES
// =============================================================================

func TestParseDate(t *testing.T) {
	// Empty and blank input means "no date"
	tp, err := generic.ParseDate("birthDate", "  ", time.UTC)
	require.NoError(t, err)
	assert.True(t, tp.IsZero())
	assert.Nil(t, tp.Ptr())

	// Valid dates are anchored at noon in the requested zone
	loc := time.FixedZone("UTC-3", -3*60*60)
	tp, err = generic.ParseDate("hireDate", "2024-02-29", loc)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", tp.String())
	assert.Equal(t, 12, tp.Time.Hour())
	assert.Equal(t, loc, tp.Time.Location())

	// Malformed and impossible dates name the field
	for _, bad := range []string{"2023-02-29", "2024-13-01", "01/02/2024", "2024-1-5"} {
		_, err := generic.ParseDate("hireDate", bad, time.UTC)
		require.Error(t, err, bad)
		assert.ErrorIs(t, err, generic.ErrInvalidDate, bad)
		var de *generic.InvalidDateError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "hireDate", de.Field)
		assert.Equal(t, bad, de.Value)
	}
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		from, to string
		months   int
		years    int
	}{
		{"2022-03-15", "2022-03-15", 0, 0},
		{"2022-03-15", "2022-04-14", 0, 0},
		{"2022-03-15", "2022-04-15", 1, 0},
		{"2022-03-15", "2023-03-14", 11, 0},
		{"2022-03-15", "2023-03-15", 12, 1},
		{"2022-01-31", "2022-02-28", 0, 0},
		{"2024-06-01", "2022-03-15", 0, 0},
	}
	for _, tt := range tests {
		from, to := generic.MustDate(tt.from), generic.MustDate(tt.to)
		assert.Equal(t, tt.months, generic.MonthsBetween(from, to), "%s -> %s", tt.from, tt.to)
		assert.Equal(t, tt.years, generic.YearsBetween(from, to), "%s -> %s", tt.from, tt.to)
	}
}

func TestDaysBetween_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tz database unavailable")
	}
	from := generic.NewTimePointIn(2024, time.March, 9, loc)
	to := generic.NewTimePointIn(2024, time.March, 11, loc)
	assert.Equal(t, 2, generic.DaysBetween(from, to))
	assert.Equal(t, -2, generic.DaysBetween(to, from))
}

func TestClocks(t *testing.T) {
	day := generic.MustDate("2024-06-01")
	assert.Equal(t, "2024-06-01", generic.FixedClock(day)().String())

	loc := time.FixedZone("UTC+14", 14*60*60)
	now := time.Now().In(loc)
	assert.Equal(t, now.Format(generic.DateLayout), generic.ClockIn(loc)().String())
}

// =============================================================================
// PERIODS
// =============================================================================

func TestAnnualPeriod_LeapYear(t *testing.T) {
	p := generic.AnnualPeriodFrom(generic.MustDate("2023-03-01"))
	assert.Equal(t, "2024-02-29", p.End.String())
	assert.Equal(t, 366, p.Length())

	next := p.NextAnnual()
	assert.Equal(t, "2024-03-01", next.Start.String())
	assert.Equal(t, "2025-02-28", next.End.String())
	assert.False(t, p.Overlaps(next))
	assert.True(t, p.Contains(generic.MustDate("2024-02-29")))
	assert.False(t, next.Contains(generic.MustDate("2024-02-29")))
}

func TestPeriodLength_Inclusive(t *testing.T) {
	p := generic.Period{Start: generic.MustDate("2024-01-10"), End: generic.MustDate("2024-01-15")}
	assert.Equal(t, 6, p.Length())
	assert.True(t, p.Valid())

	reversed := generic.Period{Start: p.End, End: p.Start}
	assert.Equal(t, 0, reversed.Length())
	assert.False(t, reversed.Valid())
}

// =============================================================================
// ERRORS
// =============================================================================

func TestErrorClassification(t *testing.T) {
	validation := generic.NewValidationError("daysTaken", "out of range")
	notFound := generic.NewNotFoundError("vacation", "v-1")
	storeErr := generic.NewStoreError("list swaps", errors.New("disk I/O error"))
	load := &generic.LoadFailedError{StaffID: "s-1", Err: storeErr}
	conflict := fmt.Errorf("%w: staff s-1 has history", generic.ErrConflict)

	assert.True(t, generic.IsClientError(validation))
	assert.True(t, generic.IsClientError(conflict))
	assert.False(t, generic.IsClientError(notFound))
	assert.True(t, generic.IsNotFound(notFound))
	assert.True(t, generic.IsNotFound(fmt.Errorf("wrapped: %w", notFound)))

	assert.ErrorIs(t, load, generic.ErrLoadFailed)
	assert.ErrorIs(t, load, generic.ErrStore, "the cause stays reachable")
	assert.False(t, generic.IsClientError(load))
	assert.Contains(t, validation.Error(), "daysTaken")
}
