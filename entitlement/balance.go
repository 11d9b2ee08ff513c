package entitlement

import (
	"github.com/warp/staff-ledger/generic"
)

// AnnualEntitlementDays is the statutory vacation earned per accrual period.
const AnnualEntitlementDays = generic.MaxVacationDays

// PeriodBalance reconciles one accrual period against recorded vacations.
type PeriodBalance struct {
	Period    AccrualPeriod
	Entitled  generic.Amount
	Taken     generic.Amount
	Remaining generic.Amount
	Vacations []generic.RecordID
}

// Exhausted reports whether nothing is left to schedule in the period.
func (b PeriodBalance) Exhausted() bool {
	return !b.Remaining.IsPositive()
}

// Reconcile matches vacations to periods by their copied acquisition start.
// Vacations that were not scheduled from a period are not counted anywhere.
func Reconcile(periods []AccrualPeriod, vacations []generic.VacationRecord) []PeriodBalance {
	balances := make([]PeriodBalance, len(periods))
	for i, p := range periods {
		taken := TakenIn(p.Start, vacations, "")
		entitled := generic.Days(AnnualEntitlementDays)
		balances[i] = PeriodBalance{
			Period:    p,
			Entitled:  entitled,
			Taken:     taken,
			Remaining: entitled.Sub(taken).Max(entitled.Zero()),
		}
		for _, v := range vacations {
			if linkedTo(v, p.Start) {
				balances[i].Vacations = append(balances[i].Vacations, v.ID)
			}
		}
	}
	return balances
}

// TakenIn sums the days recorded against the acquisition period starting on
// start, skipping the record with id exclude (the one being edited).
func TakenIn(start generic.TimePoint, vacations []generic.VacationRecord, exclude generic.RecordID) generic.Amount {
	total := generic.Days(0)
	for _, v := range vacations {
		if exclude != "" && v.ID == exclude {
			continue
		}
		if linkedTo(v, start) {
			total = total.Add(generic.Days(v.DaysTaken))
		}
	}
	return total
}

func linkedTo(v generic.VacationRecord, start generic.TimePoint) bool {
	return v.AcquisitionStart != nil && v.AcquisitionStart.Equal(start)
}
