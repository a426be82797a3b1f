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
// POLICY VALIDATION
// =============================================================================

func TestLeaveType_Validate_InvalidPolicies(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*leave.LeaveType)
		field  string
	}{
		{"empty name", func(lt *leave.LeaveType) { lt.Name = "" }, "name"},
		{"salary over 100", func(lt *leave.LeaveType) { lt.SalaryPercentage = 150 }, "salary_percentage"},
		{"salary on unpaid", func(lt *leave.LeaveType) {
			lt.IsPaid = false
			lt.SalaryPercentage = 50
		}, "salary_percentage"},
		{"zero yearly allowance", func(lt *leave.LeaveType) { lt.MaxDaysPerYear = leave.ZeroDays() }, "max_days_per_year"},
		{"min above max per request", func(lt *leave.LeaveType) {
			lt.MinDaysPerRequest = leave.DaysOf(10)
			lt.MaxDaysPerRequest = leave.DaysOf(5)
		}, "min_days_per_request"},
		{"max per request above yearly", func(lt *leave.LeaveType) {
			lt.MaxDaysPerRequest = leave.DaysOf(40)
		}, "max_days_per_request"},
		{"off-grid quantity", func(lt *leave.LeaveType) {
			lt.MinDaysPerRequest = leave.DaysOf(1.3)
		}, "min_days_per_request"},
		{"monthly accrual without rate", func(lt *leave.LeaveType) {
			lt.AccrualType = leave.AccrualMonthly
			lt.AccrualRate = leave.ZeroDays()
		}, "accrual_rate"},
		{"unknown accrual type", func(lt *leave.LeaveType) {
			lt.AccrualType = "weekly"
		}, "accrual_type"},
		{"unknown gender restriction", func(lt *leave.LeaveType) {
			lt.GenderRestriction = "other"
		}, "gender_restriction"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lt := leave.StandardAnnualLeave("annual", 30, 5)
			tc.mutate(lt)

			err := lt.Validate()

			var polErr *leave.PolicyValidationError
			require.ErrorAs(t, err, &polErr)
			assert.Equal(t, tc.field, polErr.Field)
		})
	}
}

func TestLeaveType_Validate_PresetsAreValid(t *testing.T) {
	presets := []*leave.LeaveType{
		leave.StandardAnnualLeave("annual", 30, 5),
		leave.StandardSickLeave("sick", 10),
		leave.UnpaidLeave("unpaid", 15),
		leave.MaternityLeave("maternity", 90, 12),
	}
	for _, lt := range presets {
		assert.NoError(t, lt.Validate(), "preset %s should validate", lt.Name)
	}
}

func TestLeaveType_PermitsGender(t *testing.T) {
	maternity := leave.MaternityLeave("maternity", 90, 12)
	assert.True(t, maternity.PermitsGender(leave.GenderFemale))
	assert.False(t, maternity.PermitsGender(leave.GenderMale))

	annual := leave.StandardAnnualLeave("annual", 30, 5)
	assert.True(t, annual.PermitsGender(leave.GenderMale))
	assert.True(t, annual.PermitsGender(leave.GenderFemale))
}

// =============================================================================
// CATALOG OPERATIONS
// =============================================================================

func TestCatalog_Save_RejectsInvalidPolicy(t *testing.T) {
	// GIVEN: A policy with a day quantity off the 0.5 grid
	// WHEN: Saving through the catalog
	// THEN: Validation fails and nothing is persisted

	catalog := leave.NewCatalog(store.NewMemory())
	ctx := context.Background()

	lt := leave.StandardAnnualLeave("annual", 30, 5)
	lt.AccrualRate = leave.DaysOf(2.7)

	err := catalog.Save(ctx, lt)

	var polErr *leave.PolicyValidationError
	require.ErrorAs(t, err, &polErr)

	_, err = catalog.Get(ctx, "annual")
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
}

func TestCatalog_ListActive_FiltersAndSortsByName(t *testing.T) {
	catalog := leave.NewCatalog(store.NewMemory())
	ctx := context.Background()

	require.NoError(t, catalog.Save(ctx, leave.StandardSickLeave("sick", 10)))
	require.NoError(t, catalog.Save(ctx, leave.StandardAnnualLeave("annual", 30, 5)))

	inactive := leave.UnpaidLeave("unpaid", 15)
	inactive.IsActive = false
	require.NoError(t, catalog.Save(ctx, inactive))

	active, err := catalog.ListActive(ctx)
	require.NoError(t, err)

	require.Len(t, active, 2)
	assert.Equal(t, "Annual Leave", active[0].Name)
	assert.Equal(t, "Sick Leave", active[1].Name)
}

func TestCatalog_Deactivate_SoftDisables(t *testing.T) {
	// GIVEN: An active leave type
	// WHEN: Deactivating it
	// THEN: The record survives but is no longer listed as active

	catalog := leave.NewCatalog(store.NewMemory())
	ctx := context.Background()

	require.NoError(t, catalog.Save(ctx, leave.StandardAnnualLeave("annual", 30, 5)))
	require.NoError(t, catalog.Deactivate(ctx, "annual"))

	lt, err := catalog.Get(ctx, "annual")
	require.NoError(t, err)
	assert.False(t, lt.IsActive)

	active, err := catalog.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCatalog_Deactivate_UnknownType(t *testing.T) {
	catalog := leave.NewCatalog(store.NewMemory())
	err := catalog.Deactivate(context.Background(), "nope")
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
}

func TestCatalog_Delete_RemovesNeverUsedType(t *testing.T) {
	catalog := leave.NewCatalog(store.NewMemory())
	ctx := context.Background()

	require.NoError(t, catalog.Save(ctx, leave.StandardAnnualLeave("annual", 30, 5)))
	require.NoError(t, catalog.Delete(ctx, "annual"))

	_, err := catalog.Get(ctx, "annual")
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
}

func TestCatalog_Delete_RefusedWhenHistoryExists(t *testing.T) {
	// GIVEN: A leave type referenced by a request, in any status
	// WHEN: Deleting it
	// THEN: The delete is refused and the record survives

	mem := store.NewMemory()
	catalog := leave.NewCatalog(mem)
	ctx := context.Background()

	lt := leave.StandardSickLeave("sick", 10)
	require.NoError(t, catalog.Save(ctx, lt))

	emp := testEmployee("emp-1", date(2025, time.January, 1))
	seedRequest(t, mem, "req-1", emp, lt,
		span(date(2026, time.March, 2), date(2026, time.March, 3)),
		leave.StatusRejected, leave.DaysFromInt(2))

	err := catalog.Delete(ctx, "sick")
	assert.ErrorIs(t, err, leave.ErrTypeInUse)

	got, getErr := catalog.Get(ctx, "sick")
	require.NoError(t, getErr)
	assert.Equal(t, "Sick Leave", got.Name)
}

func TestCatalog_Delete_UnknownType(t *testing.T) {
	catalog := leave.NewCatalog(store.NewMemory())
	err := catalog.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
}

// Guards the policy edit path: an update keeps the identity and replaces the
// parameters wholesale.
func TestCatalog_Save_UpdatesInPlace(t *testing.T) {
	catalog := leave.NewCatalog(store.NewMemory())
	ctx := context.Background()

	lt := leave.StandardAnnualLeave("annual", 30, 5)
	require.NoError(t, catalog.Save(ctx, lt))

	lt.MaxCarryOverDays = leave.DaysOf(10)
	lt.MinServiceMonths = 6
	require.NoError(t, catalog.Save(ctx, lt))

	got, err := catalog.Get(ctx, "annual")
	require.NoError(t, err)
	assertDays(t, "10", got.MaxCarryOverDays)
	assert.Equal(t, 6, got.MinServiceMonths)
}
