/*
Package leave implements the leave entitlement and approval engine.

PURPOSE:
  This package contains the core rules of the HR leave subsystem: how many
  days an employee is entitled to, how entitlement accrues and carries over
  across policy years, whether a specific request is eligible, and how a
  request moves through a sequential approval chain to a final,
  balance-affecting outcome.

KEY CONCEPTS IN THIS FILE (types.go):
  - Days: A day quantity with 0.5-day granularity (half-day support)
  - Employee: The subject of entitlement (hire date, gender, approvers)
  - Approver: One link of an employee's configured approval chain
  - Typed IDs: EmployeeID, LeaveTypeID, RequestID

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for day quantities, never float64
  2. Purity: balance is a function of (policy, history, asOf), not stored state
  3. Type Safety: distinct ID types prevent mixing employees and leave types
  4. Auditability: approval steps are appended and stamped, never rewritten

USAGE:
  five := leave.DaysOf(5)
  half := leave.HalfDay()
  total := five.Add(half) // 5.5 days

SEE ALSO:
  - catalog.go: leave type policies and their validation
  - balance.go: entitlement, accrual and carry-over computation
  - eligibility.go: request admission checks
  - lifecycle.go: the request state machine
*/
package leave

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// DAYS - Day quantity with half-day granularity
// =============================================================================

// Days is a count of leave days. All quantities in the engine move in 0.5-day
// steps; no rounding beyond that precision is applied anywhere.
type Days struct {
	value decimal.Decimal
}

var halfStep = decimal.NewFromFloat(0.5)

func DaysOf(n float64) Days        { return Days{value: decimal.NewFromFloat(n)} }
func DaysFromInt(n int) Days       { return Days{value: decimal.NewFromInt(int64(n))} }
func ZeroDays() Days               { return Days{value: decimal.Zero} }
func HalfDay() Days                { return Days{value: halfStep} }
func DaysFromDecimal(d decimal.Decimal) Days { return Days{value: d} }

func ParseDays(s string) (Days, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Days{}, err
	}
	return Days{value: d}, nil
}

func (d Days) Add(o Days) Days          { return Days{value: d.value.Add(o.value)} }
func (d Days) Sub(o Days) Days          { return Days{value: d.value.Sub(o.value)} }
func (d Days) Mul(s decimal.Decimal) Days { return Days{value: d.value.Mul(s)} }
func (d Days) Neg() Days                { return Days{value: d.value.Neg()} }
func (d Days) IsZero() bool             { return d.value.IsZero() }
func (d Days) IsNegative() bool         { return d.value.IsNegative() }
func (d Days) IsPositive() bool         { return d.value.IsPositive() }
func (d Days) GreaterThan(o Days) bool  { return d.value.GreaterThan(o.value) }
func (d Days) LessThan(o Days) bool     { return d.value.LessThan(o.value) }
func (d Days) Equal(o Days) bool        { return d.value.Equal(o.value) }
func (d Days) Decimal() decimal.Decimal { return d.value }
func (d Days) Float64() float64         { f, _ := d.value.Float64(); return f }
func (d Days) String() string           { return d.value.String() }

func (d Days) Min(o Days) Days {
	if d.LessThan(o) {
		return d
	}
	return o
}

func (d Days) Max(o Days) Days {
	if d.GreaterThan(o) {
		return d
	}
	return o
}

// IsHalfStep reports whether the quantity sits on the 0.5-day grid.
func (d Days) IsHalfStep() bool {
	return d.value.Div(halfStep).IsInteger()
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type LeaveTypeID string
type RequestID string

// =============================================================================
// EMPLOYEE - Subject of entitlement
// =============================================================================

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Approver is one link of an employee's configured approval chain, in order.
type Approver struct {
	ID   string
	Name string
	Role string
}

// Employee is the engine's view of an employee record. The HR application
// owns the full record; the engine only needs what entitlement and approval
// routing depend on.
type Employee struct {
	ID       EmployeeID
	Name     string
	Email    string
	Gender   Gender
	HireDate Date

	// ApprovalChain is the ordered list of approval authorities a request
	// from this employee must pass through. The first entry is the
	// employee's direct approval authority.
	ApprovalChain []Approver
}

// TenureMonths returns whole months of service as of the given date.
// Partial months do not count.
func (e *Employee) TenureMonths(asOf Date) int {
	return WholeMonthsBetween(e.HireDate, asOf)
}

// =============================================================================
// ATTACHMENT - Opaque reference to an uploaded document
// =============================================================================

// Attachment references a document stored by an external collaborator.
// The engine only cares about presence, not content.
type Attachment struct {
	ID   string
	Name string
}

// =============================================================================
// ACTOR - Acting user supplied by the identity collaborator
// =============================================================================

// Actor identifies who is performing a lifecycle command. Supplied by the
// identity layer, recorded on approval steps for attribution.
type Actor struct {
	ID   string
	Name string
	Role string
}
