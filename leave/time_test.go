package leave_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// TEST HELPERS (shared across the package tests)
// =============================================================================

func date(year int, month time.Month, day int) leave.Date {
	return leave.NewDate(year, month, day)
}

func span(start, end leave.Date) leave.DateSpan {
	return leave.DateSpan{Start: start, End: end}
}

// assertDays compares a day quantity against its canonical decimal string,
// which keeps failure messages readable ("7.5" vs "10").
func assertDays(t *testing.T, expected string, actual leave.Days, msgAndArgs ...any) {
	t.Helper()
	assert.Equal(t, expected, actual.String(), msgAndArgs...)
}

// =============================================================================
// WHOLE MONTHS
// =============================================================================

func TestWholeMonthsBetween_PartialMonthsDoNotCount(t *testing.T) {
	// GIVEN: Jan 15 as the anchor
	// WHEN: Measuring to a day just before / exactly on the month boundary
	// THEN: The partial month is floored away

	jan15 := date(2025, time.January, 15)

	assert.Equal(t, 2, leave.WholeMonthsBetween(jan15, date(2025, time.April, 14)))
	assert.Equal(t, 3, leave.WholeMonthsBetween(jan15, date(2025, time.April, 15)))
	assert.Equal(t, 3, leave.WholeMonthsBetween(jan15, date(2025, time.April, 20)))
}

func TestWholeMonthsBetween_SameDayIsZero(t *testing.T) {
	d := date(2025, time.June, 1)
	assert.Equal(t, 0, leave.WholeMonthsBetween(d, d))
}

func TestWholeMonthsBetween_ReversedIsZero(t *testing.T) {
	assert.Equal(t, 0, leave.WholeMonthsBetween(
		date(2025, time.June, 1), date(2025, time.March, 1)))
}

func TestWholeMonthsBetween_AcrossYears(t *testing.T) {
	assert.Equal(t, 14, leave.WholeMonthsBetween(
		date(2024, time.November, 1), date(2026, time.January, 1)))
}

// =============================================================================
// DATE SPANS
// =============================================================================

func TestDateSpan_CalendarDays_Inclusive(t *testing.T) {
	// A single day counts as 1; the range is inclusive on both ends.
	assert.Equal(t, 1, span(date(2025, time.March, 10), date(2025, time.March, 10)).CalendarDays())
	assert.Equal(t, 3, span(date(2025, time.March, 10), date(2025, time.March, 12)).CalendarDays())
	assert.Equal(t, 31, span(date(2025, time.March, 1), date(2025, time.March, 31)).CalendarDays())
}

func TestDateSpan_Valid(t *testing.T) {
	assert.True(t, span(date(2025, time.March, 10), date(2025, time.March, 10)).Valid())
	assert.False(t, span(date(2025, time.March, 10), date(2025, time.March, 9)).Valid())
}

func TestDateSpan_Intersects(t *testing.T) {
	year2025 := leave.Period{
		Start: date(2025, time.January, 1),
		End:   date(2025, time.December, 31),
	}

	assert.True(t, span(date(2025, time.June, 1), date(2025, time.June, 5)).Intersects(year2025))
	// Straddling the boundary still intersects.
	assert.True(t, span(date(2024, time.December, 29), date(2025, time.January, 2)).Intersects(year2025))
	assert.False(t, span(date(2024, time.June, 1), date(2024, time.June, 5)).Intersects(year2025))
}

// =============================================================================
// REQUEST DAY COUNT
// =============================================================================

func TestRequestDays_HalfDayIsAlwaysHalf(t *testing.T) {
	// A half-day request counts exactly 0.5 regardless of the span it names.
	s := span(date(2025, time.March, 10), date(2025, time.March, 10))
	assertDays(t, "0.5", leave.RequestDays(s, true))
	assertDays(t, "1", leave.RequestDays(s, false))
}

func TestRequestDays_FullSpanCountsCalendarDays(t *testing.T) {
	s := span(date(2025, time.March, 10), date(2025, time.March, 14))
	assertDays(t, "5", leave.RequestDays(s, false))
}

// =============================================================================
// DAYS ARITHMETIC
// =============================================================================

func TestDays_HalfStepGrid(t *testing.T) {
	assert.True(t, leave.DaysOf(2.5).IsHalfStep())
	assert.True(t, leave.DaysFromInt(3).IsHalfStep())
	assert.True(t, leave.ZeroDays().IsHalfStep())
	assert.False(t, leave.DaysOf(1.3).IsHalfStep())
	assert.False(t, leave.DaysOf(0.25).IsHalfStep())
}

func TestDays_MinMax(t *testing.T) {
	five := leave.DaysOf(5)
	three := leave.DaysOf(3)
	assertDays(t, "3", five.Min(three))
	assertDays(t, "5", five.Max(three))
}

func TestParseDays_RejectsGarbage(t *testing.T) {
	_, err := leave.ParseDays("five")
	assert.Error(t, err)

	d, err := leave.ParseDays("7.5")
	assert.NoError(t, err)
	assertDays(t, "7.5", d)
}
