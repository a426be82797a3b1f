package leave

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar date, no time-of-day semantics
// =============================================================================

// Date is a calendar date at day granularity. The engine has no time-of-day
// semantics: requests, hire dates and policy-year boundaries are all plain
// ISO-8601 dates.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateFromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateFromTime(time.Now().UTC())
}

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateFromTime(t), nil
}

// Comparison
func (d Date) Before(o Date) bool        { return d.t.Before(o.t) }
func (d Date) After(o Date) bool         { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool         { return d.t.Equal(o.t) }
func (d Date) BeforeOrEqual(o Date) bool { return !d.t.After(o.t) }
func (d Date) AfterOrEqual(o Date) bool  { return !d.t.Before(o.t) }
func (d Date) IsZero() bool              { return d.t.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{t: d.t.AddDate(n, 0, 0)} }

// Properties
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) Time() time.Time   { return d.t }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// DaysBetween returns the calendar-day difference to - from.
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// WholeMonthsBetween returns the number of whole months fully elapsed between
// from and to. Partial months do not count: Jan 15 to Apr 14 is 2 months,
// Jan 15 to Apr 15 is 3.
func WholeMonthsBetween(from, to Date) int {
	if to.Before(from) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// =============================================================================
// DATE SPAN - Inclusive calendar range of a request
// =============================================================================

// DateSpan is an inclusive calendar range [Start, End].
type DateSpan struct {
	Start Date
	End   Date
}

// Valid reports whether End >= Start.
func (s DateSpan) Valid() bool { return s.End.AfterOrEqual(s.Start) }

// CalendarDays returns the inclusive day count: (End - Start) + 1.
// Weekends and holidays are NOT excluded; the engine counts flat calendar
// days. See DESIGN.md for the open question on holiday calendars.
func (s DateSpan) CalendarDays() int { return DaysBetween(s.Start, s.End) + 1 }

// Intersects reports whether the span overlaps the period.
func (s DateSpan) Intersects(p Period) bool {
	return s.Start.BeforeOrEqual(p.End) && s.End.AfterOrEqual(p.Start)
}

func (s DateSpan) String() string {
	return "[" + s.Start.String() + ", " + s.End.String() + "]"
}

// RequestDays computes the day count of a request per the engine's day-count
// rule: a half-day request is always exactly 0.5 regardless of the span;
// otherwise the inclusive calendar-day count.
func RequestDays(span DateSpan, isHalfDay bool) Days {
	if isHalfDay {
		return HalfDay()
	}
	return DaysFromInt(span.CalendarDays())
}
