package leave_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// CALENDAR YEAR PERIODS
// =============================================================================

func TestPeriodFor_CalendarYear(t *testing.T) {
	pc := leave.CalendarYears()

	p := pc.PeriodFor(date(2026, time.July, 15), leave.Date{})

	assert.Equal(t, date(2026, time.January, 1), p.Start)
	assert.Equal(t, date(2026, time.December, 31), p.End)
}

func TestPeriod_NextAndPrevious(t *testing.T) {
	p := leave.CalendarYears().PeriodFor(date(2026, time.March, 1), leave.Date{})

	next := p.NextPeriod()
	assert.Equal(t, date(2027, time.January, 1), next.Start)
	assert.Equal(t, date(2027, time.December, 31), next.End)

	prev := p.PreviousPeriod()
	assert.Equal(t, date(2025, time.January, 1), prev.Start)
	assert.Equal(t, date(2025, time.December, 31), prev.End)
}

func TestPeriod_Contains(t *testing.T) {
	p := leave.CalendarYears().PeriodFor(date(2026, time.March, 1), leave.Date{})

	assert.True(t, p.Contains(date(2026, time.January, 1)))
	assert.True(t, p.Contains(date(2026, time.December, 31)))
	assert.False(t, p.Contains(date(2027, time.January, 1)))
	assert.False(t, p.Contains(date(2025, time.December, 31)))
}

// =============================================================================
// FISCAL YEAR PERIODS
// =============================================================================

func TestPeriodFor_FiscalYear_AprilStart(t *testing.T) {
	pc := leave.PeriodConfig{
		Type:                 leave.PeriodFiscalYear,
		FiscalYearStartMonth: time.April,
	}

	// A date after the fiscal start belongs to the year starting that April.
	p := pc.PeriodFor(date(2026, time.July, 15), leave.Date{})
	assert.Equal(t, date(2026, time.April, 1), p.Start)
	assert.Equal(t, date(2027, time.March, 31), p.End)

	// A date before April belongs to the previous fiscal year.
	p = pc.PeriodFor(date(2026, time.February, 10), leave.Date{})
	assert.Equal(t, date(2025, time.April, 1), p.Start)
	assert.Equal(t, date(2026, time.March, 31), p.End)
}

// =============================================================================
// ANNIVERSARY PERIODS
// =============================================================================

func TestPeriodFor_Anniversary_AnchoredOnHireDate(t *testing.T) {
	pc := leave.PeriodConfig{Type: leave.PeriodAnniversary}
	hire := date(2023, time.June, 15)

	// After the anniversary in the year: period starts this year's anniversary.
	p := pc.PeriodFor(date(2026, time.August, 1), hire)
	assert.Equal(t, date(2026, time.June, 15), p.Start)
	assert.Equal(t, date(2027, time.June, 14), p.End)

	// Before the anniversary: still inside last year's anniversary period.
	p = pc.PeriodFor(date(2026, time.March, 1), hire)
	assert.Equal(t, date(2025, time.June, 15), p.Start)
	assert.Equal(t, date(2026, time.June, 14), p.End)
}

func TestPeriodFor_Anniversary_MissingAnchorFallsBackToCalendar(t *testing.T) {
	pc := leave.PeriodConfig{Type: leave.PeriodAnniversary}

	p := pc.PeriodFor(date(2026, time.March, 1), leave.Date{})
	assert.Equal(t, date(2026, time.January, 1), p.Start)
	assert.Equal(t, date(2026, time.December, 31), p.End)
}
