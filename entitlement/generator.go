/*
generator.go - Annual vacation accrual periods derived from a hire date

PURPOSE:
  Walks from the hire date in one-year steps and emits every accrual period
  the staff member has entered. Each period carries its availability window
  (the following year, during which the accrued vacation may be taken) and
  its classification relative to a reference date.

PERIOD SHAPE:
  periodStart     hire date, or previous periodEnd + 1 day
  periodEnd       periodStart + 1 year - 1 day
  availableFrom   periodEnd + 1 day
  expiresOn       availableFrom + 1 year - 1 day

CLASSIFICATION (all relative to the reference date):
  isAvailable     reference >= availableFrom
  isExpired       reference >  expiresOn
  daysUntilExpiry expiresOn - reference (signed)
  isUrgent        isAvailable && !isExpired && daysUntilExpiry <= window

PURITY:
  The reference date is always a parameter. Nothing here reads the wall
  clock, so the same inputs always produce the same periods. Periods are
  never stored; deleting or adding vacation records cannot change them.

ORDER:
  Most recent period first, so callers find the current and urgent periods
  without scanning the whole history.

SEE ALSO:
  - balance.go: reconciles these periods against recorded vacations
  - staff/service.go: alert derivation
*/
package entitlement

import (
	"github.com/warp/staff-ledger/generic"
)

// DefaultUrgencyWindowDays is how close to expiry an available period must be
// to be flagged urgent.
const DefaultUrgencyWindowDays = 90

// AccrualPeriod is a derived, never-persisted accrual year.
type AccrualPeriod struct {
	generic.Period // Start = periodStart, End = periodEnd

	AvailableFrom   generic.TimePoint
	ExpiresOn       generic.TimePoint
	IsAvailable     bool
	IsExpired       bool
	IsUrgent        bool
	DaysUntilExpiry int
}

// NeedsAttention reports whether the period should raise an alert.
func (p AccrualPeriod) NeedsAttention() bool {
	return p.IsUrgent || p.IsExpired
}

// Generator derives accrual periods. The zero value uses the default window.
type Generator struct {
	UrgencyWindowDays int
}

func (g Generator) window() int {
	if g.UrgencyWindowDays <= 0 {
		return DefaultUrgencyWindowDays
	}
	return g.UrgencyWindowDays
}

// Generate uses the default urgency window.
func Generate(hireDate, referenceDate generic.TimePoint) []AccrualPeriod {
	return Generator{}.Generate(hireDate, referenceDate)
}

// Generate returns every period whose start is before referenceDate, most
// recent first. A zero hire date, or one on/after referenceDate, yields an
// empty result.
func (g Generator) Generate(hireDate, referenceDate generic.TimePoint) []AccrualPeriod {
	return g.generate(hireDate, referenceDate, nil)
}

// ForStaff caps generation for terminated staff: no period starting after
// the termination date is emitted. Other statuses behave like Generate.
func (g Generator) ForStaff(s generic.StaffMember, referenceDate generic.TimePoint) []AccrualPeriod {
	var limit *generic.TimePoint
	if s.Status == generic.StaffTerminated && s.TerminationDate != nil {
		limit = s.TerminationDate
	}
	return g.generate(s.HireDate, referenceDate, limit)
}

func (g Generator) generate(hireDate, referenceDate generic.TimePoint, lastStart *generic.TimePoint) []AccrualPeriod {
	if hireDate.IsZero() {
		return nil
	}

	var periods []AccrualPeriod
	for current := generic.AnnualPeriodFrom(hireDate); current.Start.Before(referenceDate); current = current.NextAnnual() {
		if lastStart != nil && current.Start.After(*lastStart) {
			break
		}
		periods = append(periods, g.classify(current, referenceDate))
	}

	// Most recent first.
	for i, j := 0, len(periods)-1; i < j; i, j = i+1, j-1 {
		periods[i], periods[j] = periods[j], periods[i]
	}
	return periods
}

func (g Generator) classify(accrual generic.Period, ref generic.TimePoint) AccrualPeriod {
	window := accrual.NextAnnual()
	p := AccrualPeriod{
		Period:          accrual,
		AvailableFrom:   window.Start,
		ExpiresOn:       window.End,
		IsAvailable:     ref.AfterOrEqual(window.Start),
		IsExpired:       ref.After(window.End),
		DaysUntilExpiry: generic.DaysBetween(ref, window.End),
	}
	p.IsUrgent = p.IsAvailable && !p.IsExpired && p.DaysUntilExpiry <= g.window()
	return p
}

// Alerts filters periods that are urgent or already expired, preserving order.
func Alerts(periods []AccrualPeriod) []AccrualPeriod {
	var alerts []AccrualPeriod
	for _, p := range periods {
		if p.NeedsAttention() {
			alerts = append(alerts, p)
		}
	}
	return alerts
}

// Find returns the period starting on start, if any.
func Find(periods []AccrualPeriod, start generic.TimePoint) (AccrualPeriod, bool) {
	for _, p := range periods {
		if p.Start.Equal(start) {
			return p, true
		}
	}
	return AccrualPeriod{}, false
}
