/*
rollover.go - Period rollover and carry-over freezing

PURPOSE:
  Closes an ended policy year for an (employee, leave type) pair: computes
  the remaining days, applies the carry-over cap, and persists an immutable
  CarryOverRecord for the next policy year. Once frozen, the record wins
  over on-the-fly derivation in balance computation - carry-over is computed
  once, at rollover, and does not move within the period.

IDEMPOTENCY:
  Closing the same pair/year twice is a no-op: the store keeps the first
  record. A scheduler can therefore sweep all pairs after period end without
  bookkeeping.

SEE ALSO:
  - balance.go: consumes the frozen records
  - api/scheduler.go: periodic sweep after period end
*/
package leave

import (
	"context"
	"fmt"
)

// RolloverService freezes carry-over at period boundaries.
type RolloverService struct {
	Store    Store
	Balances *Calculator
}

func NewRolloverService(store Store) *RolloverService {
	return &RolloverService{Store: store, Balances: NewCalculator(store)}
}

// RolloverSummary reports what a sweep did.
type RolloverSummary struct {
	PairsClosed  int
	PairsSkipped int
}

// Close freezes the carry-over flowing out of the policy year that contains
// endOf, into the following year. Returns the frozen amount.
func (rs *RolloverService) Close(ctx context.Context, emp *Employee, lt *LeaveType, endOf Date) (Days, error) {
	ending := rs.Balances.Periods.PeriodFor(endOf, emp.HireDate)
	next := ending.NextPeriod()

	if existing, err := rs.Store.CarryOver(ctx, emp.ID, lt.ID, next.Start.Year()); err != nil {
		return ZeroDays(), err
	} else if existing != nil {
		return existing.Days, nil
	}

	amount := ZeroDays()
	if lt.CarryOverAllowed {
		balance, err := rs.Balances.Balance(ctx, emp, lt, ending.End)
		if err != nil {
			return ZeroDays(), fmt.Errorf("close %s/%s: %w", emp.ID, lt.ID, err)
		}
		amount = balance.Remaining.Min(lt.MaxCarryOverDays)
	}

	rec := CarryOverRecord{
		EmployeeID:  emp.ID,
		LeaveTypeID: lt.ID,
		Year:        next.Start.Year(),
		Days:        amount,
		ClosedAt:    Today(),
	}
	if err := rs.Store.SaveCarryOver(ctx, rec); err != nil {
		return ZeroDays(), err
	}
	return amount, nil
}

// CloseAll sweeps every (employee, active leave type) pair whose policy year
// containing asOf has already ended, freezing carry-over into the current
// year. Pairs already closed are skipped.
func (rs *RolloverService) CloseAll(ctx context.Context, asOf Date) (RolloverSummary, error) {
	var summary RolloverSummary

	employees, err := rs.Store.Employees(ctx)
	if err != nil {
		return summary, err
	}
	types, err := rs.Store.LeaveTypes(ctx)
	if err != nil {
		return summary, err
	}

	for _, emp := range employees {
		for _, lt := range types {
			if !lt.IsActive || !lt.CarryOverAllowed {
				summary.PairsSkipped++
				continue
			}
			current := rs.Balances.Periods.PeriodFor(asOf, emp.HireDate)
			if existing, err := rs.Store.CarryOver(ctx, emp.ID, lt.ID, current.Start.Year()); err != nil {
				return summary, err
			} else if existing != nil {
				summary.PairsSkipped++
				continue
			}
			if _, err := rs.Close(ctx, emp, lt, current.PreviousPeriod().End); err != nil {
				return summary, err
			}
			summary.PairsClosed++
		}
	}
	return summary, nil
}
