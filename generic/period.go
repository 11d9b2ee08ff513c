package generic

// =============================================================================
// PERIOD - Inclusive calendar window
// =============================================================================

// Period is an inclusive date window [Start, End].
//
// Examples:
//   - Accrual year: hire date .. hire date + 1 year - 1 day
//   - Availability window: day after the accrual year .. one year later - 1 day
//   - Absence: first day .. last day away
type Period struct {
	Start TimePoint
	End   TimePoint
}

// AnnualPeriodFrom returns the one-year window beginning at start.
// Leap days fall out of calendar arithmetic: a window starting 2023-03-01
// ends 2024-02-29.
func AnnualPeriodFrom(start TimePoint) Period {
	return Period{Start: start, End: start.AddYears(1).AddDays(-1)}
}

// Contains returns true if the date is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Overlaps reports whether two periods share at least one day.
func (p Period) Overlaps(other Period) bool {
	return p.Start.BeforeOrEqual(other.End) && other.Start.BeforeOrEqual(p.End)
}

// Length is the inclusive number of days, never negative.
func (p Period) Length() int {
	n := DaysBetween(p.Start, p.End) + 1
	if n < 0 {
		return 0
	}
	return n
}

// Valid reports whether End is not before Start.
func (p Period) Valid() bool {
	return !p.End.Before(p.Start)
}

// NextAnnual returns the one-year window that starts the day after p ends.
func (p Period) NextAnnual() Period {
	return AnnualPeriodFrom(p.End.AddDays(1))
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
