package api_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-engine/api"
	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/leave/store"
)

func TestRolloverScheduler_SweepsOnStart(t *testing.T) {
	// GIVEN: A pair whose previous policy year has ended without a frozen
	//        carry-over record
	// WHEN: The scheduler starts
	// THEN: The startup sweep freezes the record without waiting for a tick

	mem := store.NewMemory()
	ctx := context.Background()

	lt := leave.UnpaidLeave("unpaid", 20)
	lt.CarryOverAllowed = true
	lt.MaxCarryOverDays = leave.DaysOf(5)
	require.NoError(t, mem.SaveLeaveType(ctx, lt))
	require.NoError(t, mem.SaveEmployee(ctx, &leave.Employee{
		ID:       "emp-1",
		Name:     "Alice Example",
		Gender:   leave.GenderFemale,
		HireDate: leave.NewDate(2020, time.January, 1),
	}))

	scheduler := api.NewRolloverScheduler(leave.NewRolloverService(mem))
	scheduler.CheckInterval = time.Hour // startup sweep only

	scheduler.Start()
	defer scheduler.Stop()

	year := leave.Today().Year()
	assert.Eventually(t, func() bool {
		rec, err := mem.CarryOver(ctx, "emp-1", "unpaid", year)
		return err == nil && rec != nil
	}, 2*time.Second, 10*time.Millisecond, "startup sweep should freeze the carry-over")
}

func TestRolloverScheduler_DisabledDoesNotStart(t *testing.T) {
	mem := store.NewMemory()

	scheduler := api.NewRolloverScheduler(leave.NewRolloverService(mem))
	scheduler.Enabled = false

	scheduler.Start()
	scheduler.Stop() // must not hang or panic when never started
}
