package staff

import (
	"fmt"

	"github.com/warp/staff-ledger/generic"
)

// Span is an elapsed whole-month count.
type Span struct {
	Months int
}

func (s Span) Years() int           { return s.Months / 12 }
func (s Span) RemainderMonths() int { return s.Months % 12 }

// String renders months alone below a year, then years plus months.
//
//	5 months
//	1 year
//	2 years 3 months
func (s Span) String() string {
	if s.Months < 12 {
		return plural(s.Months, "month")
	}
	out := plural(s.Years(), "year")
	if r := s.RemainderMonths(); r > 0 {
		out += " " + plural(r, "month")
	}
	return out
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Age is the whole years from birth to ref. ok is false without a birth date.
func Age(birth *generic.TimePoint, ref generic.TimePoint) (years int, ok bool) {
	if birth == nil || birth.IsZero() {
		return 0, false
	}
	return generic.YearsBetween(*birth, ref), true
}

// Tenure is the time served from hire to ref.
func Tenure(hire, ref generic.TimePoint) Span {
	return Span{Months: generic.MonthsBetween(hire, ref)}
}
