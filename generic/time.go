package generic

import (
	"strings"
	"time"
)

// =============================================================================
// TIME POINT - Calendar date abstraction
// =============================================================================

// TimePoint is a calendar date. Dates entering the system are anchored at
// local noon so that zone conversion can never roll them onto the previous
// or next day.
type TimePoint struct {
	Time time.Time
}

// DateLayout is the only date format accepted at the boundary.
const DateLayout = "2006-01-02"

// anchorHour is the hour every parsed date is pinned to.
const anchorHour = 12

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, anchorHour, 0, 0, 0, time.UTC)}
}

func NewTimePointIn(year int, month time.Month, day int, loc *time.Location) TimePoint {
	if loc == nil {
		loc = time.Local
	}
	return TimePoint{Time: time.Date(year, month, day, anchorHour, 0, 0, 0, loc)}
}

// FromTime drops the clock portion of t, keeping its calendar date.
func FromTime(t time.Time) TimePoint {
	return NewTimePointIn(t.Year(), t.Month(), t.Day(), t.Location())
}

func Today() TimePoint {
	return FromTime(time.Now())
}

// ParseDate parses a YYYY-MM-DD string into a noon-anchored date in loc.
// An empty (or blank) value yields the zero TimePoint and no error; a
// malformed one yields *InvalidDateError naming field.
func ParseDate(field, value string, loc *time.Location) (TimePoint, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return TimePoint{}, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return TimePoint{}, &InvalidDateError{Field: field, Value: value}
	}
	return NewTimePointIn(t.Year(), t.Month(), t.Day(), loc), nil
}

// MustDate is ParseDate for literals known to be valid (tests, fixtures).
func MustDate(value string) TimePoint {
	tp, err := ParseDate("date", value, time.UTC)
	if err != nil {
		panic(err)
	}
	return tp
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.dayKey() < other.dayKey() }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.dayKey() == other.dayKey() }
func (tp TimePoint) After(other TimePoint) bool         { return tp.dayKey() > other.dayKey() }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

// dayKey orders dates by calendar day, ignoring zone and clock.
func (tp TimePoint) dayKey() int {
	return tp.Time.Year()*10000 + int(tp.Time.Month())*100 + tp.Time.Day()
}

// normalize maps the calendar date onto UTC midnight for day arithmetic.
func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint  { return TimePoint{Time: tp.Time.AddDate(0, 0, n)} }
func (tp TimePoint) AddYears(n int) TimePoint { return TimePoint{Time: tp.Time.AddDate(n, 0, 0)} }

// Properties
func (tp TimePoint) Year() int         { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month { return tp.Time.Month() }
func (tp TimePoint) Day() int          { return tp.Time.Day() }
func (tp TimePoint) IsZero() bool      { return tp.Time.IsZero() }

func (tp TimePoint) String() string {
	if tp.IsZero() {
		return ""
	}
	return tp.Time.Format(DateLayout)
}

// Ptr returns a pointer to a copy of tp, or nil for the zero date.
func (tp TimePoint) Ptr() *TimePoint {
	if tp.IsZero() {
		return nil
	}
	return &tp
}

// FormatPtr renders an optional date, empty when absent.
func FormatPtr(tp *TimePoint) string {
	if tp == nil {
		return ""
	}
	return tp.String()
}

// =============================================================================
// CLOCK
// =============================================================================

// Clock supplies "today". Everything that classifies dates takes one so
// tests can pin the reference date.
type Clock func() TimePoint

// FixedClock always reports the same day.
func FixedClock(day TimePoint) Clock {
	return func() TimePoint { return day }
}

// ClockIn reports the current calendar date as seen in loc.
func ClockIn(loc *time.Location) Clock {
	if loc == nil {
		return Today
	}
	return func() TimePoint { return FromTime(time.Now().In(loc)) }
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

// DaysBetween is the signed number of calendar days from -> to.
func DaysBetween(from, to TimePoint) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

// MonthsBetween counts whole months elapsed from -> to, never negative.
func MonthsBetween(from, to TimePoint) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// YearsBetween counts whole years elapsed from -> to, never negative.
func YearsBetween(from, to TimePoint) int {
	return MonthsBetween(from, to) / 12
}
