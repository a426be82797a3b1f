package leave

import "time"

// =============================================================================
// PERIOD - The policy year balance boundary
// =============================================================================

// Period is the time boundary against which entitlement, usage and
// carry-over are evaluated. Balance is ALWAYS computed for a period, not at
// a bare point in time.
//
// Examples:
//   - Calendar year 2026: Jan 1 - Dec 31
//   - Fiscal year 2026: Apr 1 - Mar 31
//   - Anniversary year: hire date + 1 year
type Period struct {
	Start Date
	End   Date
}

// Contains returns true if the date is within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// NextPeriod returns the policy year following this one.
func (p Period) NextPeriod() Period {
	start := p.End.AddDays(1)
	return Period{Start: start, End: start.AddYears(1).AddDays(-1)}
}

// PreviousPeriod returns the policy year before this one.
func (p Period) PreviousPeriod() Period {
	end := p.Start.AddDays(-1)
	return Period{Start: p.Start.AddYears(-1), End: end}
}

// PeriodType defines how policy years are anchored.
type PeriodType string

const (
	PeriodCalendarYear PeriodType = "calendar_year" // Jan 1 - Dec 31
	PeriodFiscalYear   PeriodType = "fiscal_year"   // custom start month (e.g. Apr 1)
	PeriodAnniversary  PeriodType = "anniversary"   // anchored on hire date
)

// PeriodConfig defines how to calculate the policy year.
type PeriodConfig struct {
	Type PeriodType

	// For fiscal year: which month starts the fiscal year (1-12).
	FiscalYearStartMonth time.Month
}

// CalendarYears is the default policy-year configuration.
func CalendarYears() PeriodConfig {
	return PeriodConfig{Type: PeriodCalendarYear}
}

// PeriodFor returns the policy year containing the given date. The anchor is
// the employee's hire date (only used for anniversary periods).
func (pc PeriodConfig) PeriodFor(date Date, anchor Date) Period {
	switch pc.Type {
	case PeriodFiscalYear:
		return pc.fiscalYearPeriod(date)

	case PeriodAnniversary:
		if anchor.IsZero() {
			return calendarYear(date.Year())
		}
		return anniversaryPeriod(date, anchor)

	default: // PeriodCalendarYear or unset
		return calendarYear(date.Year())
	}
}

func calendarYear(year int) Period {
	return Period{
		Start: NewDate(year, time.January, 1),
		End:   NewDate(year, time.December, 31),
	}
}

func (pc PeriodConfig) fiscalYearPeriod(date Date) Period {
	month := pc.FiscalYearStartMonth
	if month == 0 {
		month = time.January
	}
	start := NewDate(date.Year(), month, 1)
	if date.Before(start) {
		start = NewDate(date.Year()-1, month, 1)
	}
	return Period{Start: start, End: start.AddYears(1).AddDays(-1)}
}

func anniversaryPeriod(date Date, anchor Date) Period {
	years := date.Year() - anchor.Year()
	start := NewDate(anchor.Year()+years, anchor.Month(), anchor.Day())
	if date.Before(start) {
		start = NewDate(anchor.Year()+years-1, anchor.Month(), anchor.Day())
	}
	return Period{Start: start, End: start.AddYears(1).AddDays(-1)}
}
