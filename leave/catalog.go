/*
catalog.go - Leave type policies and their validation

PURPOSE:
  Holds the configured leave types and their policy parameters: entitlement,
  accrual, carry-over, eligibility gates. The catalog is the leaf of the
  engine - everything downstream (accrual, eligibility, lifecycle) reads
  policy from here and never mutates it.

POLICY PARAMETERS:
  Entitlement:  MaxDaysPerYear, AccrualType (none/monthly/yearly), AccrualRate
  Carry-over:   CarryOverAllowed, MaxCarryOverDays
  Gates:        MinServiceMonths, GenderRestriction, RequiresAttachment
  Per-request:  MinDaysPerRequest, MaxDaysPerRequest, AllowHalfDay

INVARIANTS (enforced before create/update):
  MinDaysPerRequest <= MaxDaysPerRequest <= MaxDaysPerYear
  SalaryPercentage in [0,100], and 0 when IsPaid is false
  AccrualRate > 0 when AccrualType != none

LIFECYCLE:
  Leave types are created and edited by an administrator. A type with usage
  history is never hard-deleted - it is soft-disabled via IsActive. Only a
  type no request has ever referenced may be removed outright.

SEE ALSO:
  - presets.go: ready-made standard policies
  - balance.go: how the engine turns policy into entitlement
*/
package leave

import (
	"context"
	"fmt"
	"sort"
)

// =============================================================================
// LEAVE TYPE - A named policy record
// =============================================================================

type LeaveCategory string

const (
	CategoryAnnual      LeaveCategory = "annual"
	CategorySick        LeaveCategory = "sick"
	CategoryUnpaid      LeaveCategory = "unpaid"
	CategoryMaternity   LeaveCategory = "maternity"
	CategoryPaternity   LeaveCategory = "paternity"
	CategoryBereavement LeaveCategory = "bereavement"
	CategoryStudy       LeaveCategory = "study"
)

type AccrualType string

const (
	AccrualNone    AccrualType = "none"    // full MaxDaysPerYear, no proration
	AccrualMonthly AccrualType = "monthly" // AccrualRate days per whole month elapsed
	AccrualYearly  AccrualType = "yearly"  // full grant at policy-year start
)

type GenderRestriction string

const (
	GenderAll        GenderRestriction = "all"
	GenderMaleOnly   GenderRestriction = "male"
	GenderFemaleOnly GenderRestriction = "female"
)

// LeaveType is a named leave policy: who may take it, how much of it exists,
// and how it becomes available over time.
type LeaveType struct {
	ID       LeaveTypeID
	Name     string
	Category LeaveCategory

	IsPaid           bool
	SalaryPercentage int // 0-100; 0 when unpaid

	MaxDaysPerYear    Days
	MinDaysPerRequest Days
	MaxDaysPerRequest Days
	AllowHalfDay      bool

	RequiresAttachment bool

	AccrualType AccrualType
	AccrualRate Days // days granted per accrual period

	CarryOverAllowed bool
	MaxCarryOverDays Days

	MinServiceMonths  int
	GenderRestriction GenderRestriction

	IsActive bool
}

// PermitsGender reports whether an employee of the given gender may use this
// type.
func (lt *LeaveType) PermitsGender(g Gender) bool {
	switch lt.GenderRestriction {
	case GenderMaleOnly:
		return g == GenderMale
	case GenderFemaleOnly:
		return g == GenderFemale
	default:
		return true
	}
}

// Validate enforces the policy invariants. Returns a PolicyValidationError
// naming the first offending field.
func (lt *LeaveType) Validate() error {
	if lt.Name == "" {
		return &PolicyValidationError{Field: "name", Message: "must not be empty"}
	}
	if lt.SalaryPercentage < 0 || lt.SalaryPercentage > 100 {
		return &PolicyValidationError{Field: "salary_percentage", Message: "must be between 0 and 100"}
	}
	if !lt.IsPaid && lt.SalaryPercentage != 0 {
		return &PolicyValidationError{Field: "salary_percentage", Message: "must be 0 for unpaid leave"}
	}
	if lt.MaxDaysPerYear.IsNegative() || lt.MaxDaysPerYear.IsZero() {
		return &PolicyValidationError{Field: "max_days_per_year", Message: "must be positive"}
	}
	if lt.MinDaysPerRequest.IsNegative() {
		return &PolicyValidationError{Field: "min_days_per_request", Message: "must not be negative"}
	}
	if lt.MinDaysPerRequest.GreaterThan(lt.MaxDaysPerRequest) {
		return &PolicyValidationError{Field: "min_days_per_request", Message: "must not exceed max_days_per_request"}
	}
	if lt.MaxDaysPerRequest.GreaterThan(lt.MaxDaysPerYear) {
		return &PolicyValidationError{Field: "max_days_per_request", Message: "must not exceed max_days_per_year"}
	}
	for _, q := range []struct {
		field string
		d     Days
	}{
		{"max_days_per_year", lt.MaxDaysPerYear},
		{"min_days_per_request", lt.MinDaysPerRequest},
		{"max_days_per_request", lt.MaxDaysPerRequest},
		{"accrual_rate", lt.AccrualRate},
		{"max_carry_over_days", lt.MaxCarryOverDays},
	} {
		if !q.d.IsHalfStep() {
			return &PolicyValidationError{Field: q.field, Message: "must be a multiple of 0.5 days"}
		}
	}
	switch lt.AccrualType {
	case AccrualNone, AccrualYearly:
		// AccrualRate unused
	case AccrualMonthly:
		if !lt.AccrualRate.IsPositive() {
			return &PolicyValidationError{Field: "accrual_rate", Message: "must be positive for monthly accrual"}
		}
	default:
		return &PolicyValidationError{Field: "accrual_type", Message: fmt.Sprintf("unknown accrual type %q", lt.AccrualType)}
	}
	if lt.CarryOverAllowed && lt.MaxCarryOverDays.IsNegative() {
		return &PolicyValidationError{Field: "max_carry_over_days", Message: "must not be negative"}
	}
	switch lt.GenderRestriction {
	case GenderAll, GenderMaleOnly, GenderFemaleOnly, "":
	default:
		return &PolicyValidationError{Field: "gender_restriction", Message: fmt.Sprintf("unknown restriction %q", lt.GenderRestriction)}
	}
	return nil
}

// =============================================================================
// CATALOG - Access and administration of leave types
// =============================================================================

// Catalog exposes the configured leave types. It holds no state of its own;
// every call reads through to the store collaborator.
type Catalog struct {
	Store Store
}

func NewCatalog(store Store) *Catalog {
	return &Catalog{Store: store}
}

// Get returns the leave type, or ErrLeaveTypeNotFound.
func (c *Catalog) Get(ctx context.Context, id LeaveTypeID) (*LeaveType, error) {
	return c.Store.LeaveType(ctx, id)
}

// ListActive returns the active leave types, sorted by name for a stable
// presentation order.
func (c *Catalog) ListActive(ctx context.Context) ([]*LeaveType, error) {
	all, err := c.Store.LeaveTypes(ctx)
	if err != nil {
		return nil, err
	}
	var active []*LeaveType
	for _, lt := range all {
		if lt.IsActive {
			active = append(active, lt)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Name < active[j].Name })
	return active, nil
}

// Save validates and persists a leave type (create or update).
func (c *Catalog) Save(ctx context.Context, lt *LeaveType) error {
	if err := lt.Validate(); err != nil {
		return err
	}
	return c.Store.SaveLeaveType(ctx, lt)
}

// Deactivate soft-disables a leave type. Existing requests and history are
// untouched; new requests against the type are rejected as inactive-type.
func (c *Catalog) Deactivate(ctx context.Context, id LeaveTypeID) error {
	lt, err := c.Store.LeaveType(ctx, id)
	if err != nil {
		return err
	}
	lt.IsActive = false
	return c.Store.SaveLeaveType(ctx, lt)
}

// Delete hard-deletes a leave type that has never been requested. A type
// with request history is never deleted: Delete returns ErrTypeInUse and
// the administrator deactivates instead.
func (c *Catalog) Delete(ctx context.Context, id LeaveTypeID) error {
	if _, err := c.Store.LeaveType(ctx, id); err != nil {
		return err
	}
	inUse, err := c.Store.TypeInUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("delete leave type %s: %w", id, ErrTypeInUse)
	}
	return c.Store.DeleteLeaveType(ctx, id)
}
