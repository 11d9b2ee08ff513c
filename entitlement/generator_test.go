package entitlement_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/staff-ledger/entitlement"
	"github.com/warp/staff-ledger/generic"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(s string) generic.TimePoint {
	return generic.MustDate(s)
}

func chronological(periods []entitlement.AccrualPeriod) []entitlement.AccrualPeriod {
	out := make([]entitlement.AccrualPeriod, len(periods))
	for i, p := range periods {
		out[len(periods)-1-i] = p
	}
	return out
}

// =============================================================================
// GENERATION
// =============================================================================

func TestGenerate_HireMarch2022_ReferenceJune2024(t *testing.T) {
	// GIVEN: hired 2022-03-01, looking at 2024-06-01
	// WHEN: generating periods
	// THEN: the two completed years carry the expected windows and flags,
	//       plus the accrual year currently in progress

	periods := entitlement.Generate(date("2022-03-01"), date("2024-06-01"))
	require.Len(t, periods, 3)

	current := periods[0]
	assert.Equal(t, "2024-03-01", current.Start.String())
	assert.False(t, current.IsAvailable, "accrual in progress is not yet available")

	second := periods[1]
	assert.Equal(t, "2023-03-01", second.Start.String())
	assert.Equal(t, "2024-02-29", second.End.String())
	assert.Equal(t, "2024-03-01", second.AvailableFrom.String())
	assert.Equal(t, "2025-02-28", second.ExpiresOn.String())
	assert.True(t, second.IsAvailable)
	assert.False(t, second.IsExpired)
	assert.False(t, second.IsUrgent)
	assert.Equal(t, 272, second.DaysUntilExpiry)

	first := periods[2]
	assert.Equal(t, "2022-03-01", first.Start.String())
	assert.Equal(t, "2023-02-28", first.End.String())
	assert.Equal(t, "2023-03-01", first.AvailableFrom.String())
	assert.Equal(t, "2024-02-29", first.ExpiresOn.String())
	assert.True(t, first.IsExpired)
	assert.False(t, first.IsUrgent, "expired periods are never urgent")
	assert.Negative(t, first.DaysUntilExpiry)
}

func TestGenerate_ContiguousAndBoundedByReference(t *testing.T) {
	hires := []string{"2015-01-01", "2016-02-29", "2019-07-31", "2020-12-31", "2023-10-16"}
	ref := date("2026-10-17")

	for _, h := range hires {
		t.Run(h, func(t *testing.T) {
			periods := chronological(entitlement.Generate(date(h), ref))
			require.NotEmpty(t, periods)

			assert.True(t, periods[0].Start.Equal(date(h)), "first period starts on hire date")
			for i, p := range periods {
				assert.True(t, p.Start.Before(ref), "period %d starts before reference", i)
				assert.True(t, p.End.Equal(p.Start.AddYears(1).AddDays(-1)))
				assert.True(t, p.AvailableFrom.Equal(p.End.AddDays(1)))
				assert.True(t, p.ExpiresOn.Equal(p.AvailableFrom.AddYears(1).AddDays(-1)))
				if i > 0 {
					assert.True(t, p.Start.Equal(periods[i-1].End.AddDays(1)), "no gap or overlap at %d", i)
				}
			}

			last := periods[len(periods)-1]
			assert.False(t, last.End.AddDays(1).Before(ref), "no further period could start before reference")
		})
	}
}

func TestGenerate_EmptyInputs(t *testing.T) {
	assert.Empty(t, entitlement.Generate(generic.TimePoint{}, date("2024-01-01")), "absent hire date")
	assert.Empty(t, entitlement.Generate(date("2025-01-01"), date("2024-01-01")), "future hire date")
	assert.Empty(t, entitlement.Generate(date("2024-01-01"), date("2024-01-01")), "hired today")
}

func TestGenerate_Idempotent(t *testing.T) {
	hire, ref := date("2019-05-20"), date("2024-08-15")
	assert.Equal(t, entitlement.Generate(hire, ref), entitlement.Generate(hire, ref))
}

func TestGenerate_ZoneDoesNotShiftDays(t *testing.T) {
	// GIVEN: the same calendar dates anchored in a negative-offset zone
	loc := time.FixedZone("UTC-3", -3*60*60)
	hire, err := generic.ParseDate("hire_date", "2022-03-01", loc)
	require.NoError(t, err)
	ref, err := generic.ParseDate("as_of", "2024-06-01", loc)
	require.NoError(t, err)

	// THEN: boundaries match the UTC computation day for day
	local := entitlement.Generate(hire, ref)
	utc := entitlement.Generate(date("2022-03-01"), date("2024-06-01"))
	require.Len(t, local, len(utc))
	for i := range utc {
		assert.Equal(t, utc[i].Start.String(), local[i].Start.String())
		assert.Equal(t, utc[i].ExpiresOn.String(), local[i].ExpiresOn.String())
		assert.Equal(t, utc[i].DaysUntilExpiry, local[i].DaysUntilExpiry)
	}
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

func TestClassify_UrgencyBoundary(t *testing.T) {
	// Period [2022-01-10..2023-01-09], window [2023-01-10..2024-01-09]
	hire := date("2022-01-10")

	cases := []struct {
		ref       string
		urgent    bool
		expired   bool
		daysUntil int
	}{
		{"2023-10-10", false, false, 91},
		{"2023-10-11", true, false, 90},
		{"2024-01-09", true, false, 0},
		{"2024-01-10", false, true, -1},
	}

	for _, tc := range cases {
		t.Run(tc.ref, func(t *testing.T) {
			periods := chronological(entitlement.Generate(hire, date(tc.ref)))
			first := periods[0]
			assert.Equal(t, tc.daysUntil, first.DaysUntilExpiry)
			assert.Equal(t, tc.expired, first.IsExpired)
			assert.Equal(t, tc.urgent, first.IsUrgent)
		})
	}
}

func TestClassify_UrgentImpliesAvailableAndNotExpired(t *testing.T) {
	hire := date("2010-06-15")
	for ref := date("2011-01-01"); ref.Before(date("2016-01-01")); ref = ref.AddDays(17) {
		for _, p := range entitlement.Generate(hire, ref) {
			if p.IsUrgent {
				assert.True(t, p.IsAvailable)
				assert.False(t, p.IsExpired)
				assert.LessOrEqual(t, p.DaysUntilExpiry, entitlement.DefaultUrgencyWindowDays)
			}
			if p.IsExpired {
				assert.True(t, p.IsAvailable, "expired periods were reachable")
			}
		}
	}
}

func TestGenerator_CustomWindow(t *testing.T) {
	g := entitlement.Generator{UrgencyWindowDays: 30}
	periods := chronological(g.Generate(date("2022-01-10"), date("2023-11-01")))
	assert.False(t, periods[0].IsUrgent, "69 days out is outside a 30-day window")

	periods = chronological(g.Generate(date("2022-01-10"), date("2023-12-15")))
	assert.True(t, periods[0].IsUrgent)
}

func TestAlerts_KeepsUrgentAndExpired(t *testing.T) {
	periods := entitlement.Generate(date("2020-01-10"), date("2023-12-15"))
	alerts := entitlement.Alerts(periods)

	// [2020..2021] and [2021..2022] windows expired, [2022..2023] window urgent.
	require.Len(t, alerts, 3)
	for _, a := range alerts {
		assert.True(t, a.IsUrgent || a.IsExpired)
	}
	assert.True(t, alerts[0].IsUrgent)
}

// =============================================================================
// TERMINATION CAP
// =============================================================================

func TestForStaff_TerminatedStopsAtTerminationDate(t *testing.T) {
	term := date("2021-08-01")
	s := generic.StaffMember{
		HireDate:        date("2019-03-01"),
		Status:          generic.StaffTerminated,
		TerminationDate: &term,
	}

	periods := entitlement.Generator{}.ForStaff(s, date("2024-06-01"))
	require.Len(t, periods, 3)
	assert.Equal(t, "2021-03-01", periods[0].Start.String())

	s.Status = generic.StaffActive
	assert.Len(t, entitlement.Generator{}.ForStaff(s, date("2024-06-01")), 6, "cap applies only to terminated staff")
}
