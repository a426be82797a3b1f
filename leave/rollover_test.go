package leave_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/leave/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newRolloverFixture(t *testing.T) (*leave.RolloverService, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return leave.NewRolloverService(mem), mem
}

func carryType(t *testing.T, mem *store.Memory, allowance, cap float64) *leave.LeaveType {
	t.Helper()
	lt := leave.UnpaidLeave("unpaid", allowance)
	lt.CarryOverAllowed = true
	lt.MaxCarryOverDays = leave.DaysOf(cap)
	require.NoError(t, mem.SaveLeaveType(context.Background(), lt))
	return lt
}

// =============================================================================
// CLOSING A SINGLE PAIR
// =============================================================================

func TestRollover_Close_FreezesCappedRemaining(t *testing.T) {
	// GIVEN: 20-day allowance, 14 used in 2025, carry-over capped at 5
	// WHEN: Closing the 2025 policy year
	// THEN: min(20-14, 5) = 5 days are frozen for 2026

	rs, mem := newRolloverFixture(t)
	ctx := context.Background()

	lt := carryType(t, mem, 20, 5)
	emp := testEmployee("emp-1", date(2025, time.January, 1))
	require.NoError(t, mem.SaveEmployee(ctx, emp))

	seedRequest(t, mem, "req-2025", emp, lt,
		span(date(2025, time.March, 3), date(2025, time.March, 16)),
		leave.StatusTaken, leave.DaysFromInt(14))

	frozen, err := rs.Close(ctx, emp, lt, date(2025, time.December, 31))
	require.NoError(t, err)
	assertDays(t, "5", frozen)

	rec, err := mem.CarryOver(ctx, emp.ID, lt.ID, 2026)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assertDays(t, "5", rec.Days)
}

func TestRollover_Close_UnderTheCap(t *testing.T) {
	rs, mem := newRolloverFixture(t)
	ctx := context.Background()

	lt := carryType(t, mem, 20, 5)
	emp := testEmployee("emp-1", date(2025, time.January, 1))

	seedRequest(t, mem, "req-2025", emp, lt,
		span(date(2025, time.March, 3), date(2025, time.March, 20)),
		leave.StatusTaken, leave.DaysFromInt(18))

	frozen, err := rs.Close(ctx, emp, lt, date(2025, time.December, 31))
	require.NoError(t, err)
	assertDays(t, "2", frozen)
}

func TestRollover_Close_Idempotent(t *testing.T) {
	// GIVEN: A pair already closed with 5 frozen days
	// WHEN: History changes afterwards and the pair is closed again
	// THEN: The original record stands - carry-over does not move within
	//       the period

	rs, mem := newRolloverFixture(t)
	ctx := context.Background()

	lt := carryType(t, mem, 20, 5)
	emp := testEmployee("emp-1", date(2025, time.January, 1))

	first, err := rs.Close(ctx, emp, lt, date(2025, time.December, 31))
	require.NoError(t, err)
	assertDays(t, "5", first)

	// Late usage lands in 2025 after the close.
	seedRequest(t, mem, "req-late", emp, lt,
		span(date(2025, time.December, 1), date(2025, time.December, 19)),
		leave.StatusTaken, leave.DaysFromInt(19))

	again, err := rs.Close(ctx, emp, lt, date(2025, time.December, 31))
	require.NoError(t, err)
	assertDays(t, "5", again, "re-close must return the frozen value")
}

func TestRollover_Close_CarryOverDisallowed_FreezesZero(t *testing.T) {
	rs, mem := newRolloverFixture(t)
	ctx := context.Background()

	lt := leave.StandardSickLeave("sick", 10)
	require.NoError(t, mem.SaveLeaveType(ctx, lt))
	emp := testEmployee("emp-1", date(2024, time.January, 1))

	frozen, err := rs.Close(ctx, emp, lt, date(2025, time.December, 31))
	require.NoError(t, err)
	assertDays(t, "0", frozen)
}

// =============================================================================
// SWEEPING ALL PAIRS
// =============================================================================

func TestRollover_CloseAll_SweepsEveryCarryingPair(t *testing.T) {
	// GIVEN: Two employees, one carry-over type and one non-carrying type
	// WHEN: Sweeping as of a date in the new policy year
	// THEN: Both employee/unpaid pairs close, the sick pairs are skipped

	rs, mem := newRolloverFixture(t)
	ctx := context.Background()

	carryType(t, mem, 20, 5)
	require.NoError(t, mem.SaveLeaveType(ctx, leave.StandardSickLeave("sick", 10)))

	empA := testEmployee("emp-a", date(2024, time.January, 1))
	empB := testEmployee("emp-b", date(2024, time.June, 1))
	require.NoError(t, mem.SaveEmployee(ctx, empA))
	require.NoError(t, mem.SaveEmployee(ctx, empB))

	summary, err := rs.CloseAll(ctx, date(2026, time.January, 2))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.PairsClosed)
	assert.Equal(t, 2, summary.PairsSkipped)

	for _, id := range []leave.EmployeeID{"emp-a", "emp-b"} {
		rec, err := mem.CarryOver(ctx, id, "unpaid", 2026)
		require.NoError(t, err)
		require.NotNil(t, rec, "employee %s should have a frozen record", id)
		assertDays(t, "5", rec.Days)
	}
}

func TestRollover_CloseAll_SecondSweepIsNoOp(t *testing.T) {
	rs, mem := newRolloverFixture(t)
	ctx := context.Background()

	carryType(t, mem, 20, 5)
	emp := testEmployee("emp-1", date(2024, time.January, 1))
	require.NoError(t, mem.SaveEmployee(ctx, emp))

	first, err := rs.CloseAll(ctx, date(2026, time.January, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, first.PairsClosed)

	second, err := rs.CloseAll(ctx, date(2026, time.January, 10))
	require.NoError(t, err)
	assert.Equal(t, 0, second.PairsClosed)
	assert.Equal(t, 1, second.PairsSkipped)
}

// =============================================================================
// RECORD IMMUTABILITY
// =============================================================================

func TestCarryOverRecord_FirstWriterWins(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	rec := leave.CarryOverRecord{
		EmployeeID: "emp-1", LeaveTypeID: "unpaid", Year: 2026,
		Days: leave.DaysOf(5), ClosedAt: date(2026, time.January, 1),
	}
	require.NoError(t, mem.SaveCarryOver(ctx, rec))

	overwrite := rec
	overwrite.Days = leave.DaysOf(2)
	require.NoError(t, mem.SaveCarryOver(ctx, overwrite))

	stored, err := mem.CarryOver(ctx, "emp-1", "unpaid", 2026)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assertDays(t, "5", stored.Days)
}
