/*
balance.go - Entitlement, accrual and carry-over computation

PURPOSE:
  Answers "how many days does this employee have?" for a leave type at a
  point in time. Balance is a pure function of (policy, request history,
  asOf): it is recomputed on demand, never stored as a mutable field, so it
  cannot drift from the history it derives from.

BALANCE COMPONENTS:
  Entitled:    days granted for the policy year by the accrual rule
  Accrued:     days actually available so far (equals Entitled today;
               kept separate so callers can show both)
  CarriedOver: unused days transferred from the preceding policy year, capped
  Used:        approved + taken request days intersecting the policy year
  Remaining:   Entitled + CarriedOver - Used, floored at 0 in the view

ACCRUAL RULES:
  none:    Entitled = MaxDaysPerYear for the current policy year, no proration
  monthly: Entitled = min(MaxDaysPerYear, AccrualRate x whole months elapsed),
           where months are floored (partial months do not accrue) and
           clamped to the employee's tenure for mid-year hires
  yearly:  full MaxDaysPerYear granted at policy-year start

CARRY-OVER:
  A frozen CarryOverRecord from rollover wins when present (computed once at
  period rollover, immutable within the period). Absent a record, carry-over
  is derived from the immediately preceding policy year's remaining, capped
  at MaxCarryOverDays, zero when carry-over is disallowed.

INCONSISTENCY:
  A negative raw remaining means approved usage exceeds entitlement - a race
  or a policy change after approval. The presented Remaining floors at 0 and
  the balance carries an InconsistentBalanceError; the stored history is
  never silently corrected.

SEE ALSO:
  - period.go: how the policy year is anchored
  - rollover.go: freezing carry-over at period end
*/
package leave

import (
	"context"
	"fmt"
)

// =============================================================================
// BALANCE - Derived snapshot per (employee, leave type, period)
// =============================================================================

// Balance is a read-through view over request history plus catalog policy.
// It is never the source of truth.
type Balance struct {
	EmployeeID  EmployeeID
	LeaveTypeID LeaveTypeID
	Period      Period
	AsOf        Date

	Entitled    Days
	Accrued     Days
	CarriedOver Days
	Used        Days

	// Remaining is the presented value: Entitled + CarriedOver - Used,
	// floored at 0.
	Remaining Days

	// Inconsistent is set when the raw remaining went negative; Shortfall
	// holds the magnitude of the deficit.
	Inconsistent bool
	Shortfall    Days
}

// Warning returns the reportable inconsistency, or nil.
func (b Balance) Warning() *InconsistentBalanceError {
	if !b.Inconsistent {
		return nil
	}
	return &InconsistentBalanceError{
		EmployeeID:  b.EmployeeID,
		LeaveTypeID: b.LeaveTypeID,
		Period:      b.Period,
		Shortfall:   b.Shortfall,
	}
}

// =============================================================================
// CALCULATOR - Computes balance from policy + history
// =============================================================================

// Calculator computes balances. It reads request history and carry-over
// records through the store and holds no state of its own.
type Calculator struct {
	Store   Store
	Periods PeriodConfig
}

func NewCalculator(store Store) *Calculator {
	return &Calculator{Store: store, Periods: CalendarYears()}
}

// Balance computes the employee's balance for the leave type in the policy
// year containing asOf.
func (c *Calculator) Balance(ctx context.Context, emp *Employee, lt *LeaveType, asOf Date) (Balance, error) {
	period := c.Periods.PeriodFor(asOf, emp.HireDate)

	entitled := c.entitlement(emp, lt, period, asOf)

	carried, err := c.carryOver(ctx, emp, lt, period)
	if err != nil {
		return Balance{}, fmt.Errorf("carry-over for %s/%s: %w", emp.ID, lt.ID, err)
	}

	used, err := c.usedInPeriod(ctx, emp.ID, lt.ID, period)
	if err != nil {
		return Balance{}, fmt.Errorf("usage for %s/%s: %w", emp.ID, lt.ID, err)
	}

	b := Balance{
		EmployeeID:  emp.ID,
		LeaveTypeID: lt.ID,
		Period:      period,
		AsOf:        asOf,
		Entitled:    entitled,
		Accrued:     entitled,
		CarriedOver: carried,
		Used:        used,
	}

	raw := entitled.Add(carried).Sub(used)
	if raw.IsNegative() {
		b.Remaining = ZeroDays()
		b.Inconsistent = true
		b.Shortfall = raw.Neg()
	} else {
		b.Remaining = raw
	}
	return b, nil
}

// entitlement applies the accrual rule for the policy year, as of asOf.
func (c *Calculator) entitlement(emp *Employee, lt *LeaveType, period Period, asOf Date) Days {
	// Hired after the window we are evaluating: nothing has accrued.
	if emp.HireDate.After(asOf) {
		return ZeroDays()
	}

	switch lt.AccrualType {
	case AccrualMonthly:
		months := WholeMonthsBetween(period.Start, asOf)
		// Tenure takes precedence for mid-year hires.
		if tenure := emp.TenureMonths(asOf); tenure < months {
			months = tenure
		}
		if months <= 0 {
			return ZeroDays()
		}
		accrued := lt.AccrualRate.Mul(DaysFromInt(months).Decimal())
		return accrued.Min(lt.MaxDaysPerYear)

	default: // AccrualNone, AccrualYearly: full grant for the policy year
		return lt.MaxDaysPerYear
	}
}

// carryOver resolves the days carried into the period. A frozen rollover
// record wins; otherwise the value is derived from the preceding policy
// year's remaining, counting any record already frozen into that year. The
// derivation looks back exactly one year - deeper carry-over chains are
// materialized by rollover records, not by recursion.
func (c *Calculator) carryOver(ctx context.Context, emp *Employee, lt *LeaveType, period Period) (Days, error) {
	if !lt.CarryOverAllowed {
		return ZeroDays(), nil
	}

	rec, err := c.Store.CarryOver(ctx, emp.ID, lt.ID, period.Start.Year())
	if err != nil {
		return ZeroDays(), err
	}
	if rec != nil {
		return rec.Days, nil
	}

	prev := period.PreviousPeriod()
	if emp.HireDate.After(prev.End) {
		return ZeroDays(), nil
	}

	prevEntitled := c.entitlement(emp, lt, prev, prev.End)

	// Days frozen INTO the preceding year are part of its remaining, so the
	// derivation must match what rollover would later compute from the full
	// balance.
	prevCarried := ZeroDays()
	prevRec, err := c.Store.CarryOver(ctx, emp.ID, lt.ID, prev.Start.Year())
	if err != nil {
		return ZeroDays(), err
	}
	if prevRec != nil {
		prevCarried = prevRec.Days
	}

	prevUsed, err := c.usedInPeriod(ctx, emp.ID, lt.ID, prev)
	if err != nil {
		return ZeroDays(), err
	}

	remaining := prevEntitled.Add(prevCarried).Sub(prevUsed)
	if remaining.IsNegative() {
		return ZeroDays(), nil
	}
	return remaining.Min(lt.MaxCarryOverDays), nil
}

// usedInPeriod sums the days of approved and taken requests intersecting the
// period. Half-day requests contribute exactly 0.5.
func (c *Calculator) usedInPeriod(ctx context.Context, employeeID EmployeeID, typeID LeaveTypeID, period Period) (Days, error) {
	requests, err := c.Store.RequestsForBalance(ctx, employeeID, typeID, period)
	if err != nil {
		return ZeroDays(), err
	}

	used := ZeroDays()
	for _, req := range requests {
		if !req.CountsTowardUsage() {
			continue
		}
		if !req.Span.Intersects(period) {
			continue
		}
		used = used.Add(req.TotalDays)
	}
	return used, nil
}
