/*
eligibility.go - Request admission checks

PURPOSE:
  Decides whether a prospective leave request is permitted before any
  request record exists. All checks must pass; the first failure is
  reported as a Rejection with an enumerated reason so the caller can show
  the right message.

CHECK ORDER:
  1. inactive-type          the leave type is soft-disabled
  2. gender                 employee gender vs the type's restriction
  3. tenure                 whole months of service as of the start date
  4. bounds                 day count within [min, max] per request; a
                            half-day is always permitted when AllowHalfDay,
                            regardless of the minimum
  5. insufficient-balance   day count vs remaining balance at submission
                            (not re-checked retroactively once approved)
  6. missing-attachment     at least one attachment when the type requires it

SEE ALSO:
  - balance.go: where "remaining" comes from
  - lifecycle.go: the only caller; a failed check means no request is created
*/
package leave

import (
	"context"
	"fmt"
)

// Validator checks whether a prospective request is permitted.
type Validator struct {
	Balances *Calculator
}

func NewValidator(balances *Calculator) *Validator {
	return &Validator{Balances: balances}
}

// Validate runs all eligibility checks. Returns nil when the request is
// permitted, a *Rejection for the first failed check, or a non-Rejection
// error when the balance could not be computed.
func (v *Validator) Validate(
	ctx context.Context,
	emp *Employee,
	lt *LeaveType,
	span DateSpan,
	isHalfDay bool,
	attachments []Attachment,
) error {
	if !lt.IsActive {
		return &Rejection{
			Reason:  RejectInactiveType,
			Message: fmt.Sprintf("leave type %q is not active", lt.Name),
		}
	}

	if !lt.PermitsGender(emp.Gender) {
		return &Rejection{
			Reason:  RejectGender,
			Message: fmt.Sprintf("leave type %q is restricted to %s employees", lt.Name, lt.GenderRestriction),
		}
	}

	if tenure := emp.TenureMonths(span.Start); tenure < lt.MinServiceMonths {
		return &Rejection{
			Reason: RejectTenure,
			Message: fmt.Sprintf("requires %d months of service, employee has %d as of %s",
				lt.MinServiceMonths, tenure, span.Start),
		}
	}

	requested := RequestDays(span, isHalfDay)
	if rej := v.checkBounds(lt, requested, isHalfDay); rej != nil {
		return rej
	}

	balance, err := v.Balances.Balance(ctx, emp, lt, span.Start)
	if err != nil {
		return err
	}
	if requested.GreaterThan(balance.Remaining) {
		return &Rejection{
			Reason: RejectInsufficientBalance,
			Message: fmt.Sprintf("requested %s days, %s remaining",
				requested, balance.Remaining),
		}
	}

	if lt.RequiresAttachment && len(attachments) == 0 {
		return &Rejection{
			Reason:  RejectMissingAttachment,
			Message: fmt.Sprintf("leave type %q requires a supporting document", lt.Name),
		}
	}

	return nil
}

// checkBounds applies the per-request day bounds. A half-day bypasses the
// minimum when the type allows half days; a half-day against a type that
// does not is out of bounds.
func (v *Validator) checkBounds(lt *LeaveType, requested Days, isHalfDay bool) *Rejection {
	if isHalfDay {
		if !lt.AllowHalfDay {
			return &Rejection{
				Reason:  RejectBounds,
				Message: fmt.Sprintf("leave type %q does not allow half-day requests", lt.Name),
			}
		}
		return nil
	}

	if requested.LessThan(lt.MinDaysPerRequest) {
		return &Rejection{
			Reason: RejectBounds,
			Message: fmt.Sprintf("requested %s days, minimum per request is %s",
				requested, lt.MinDaysPerRequest),
		}
	}
	if requested.GreaterThan(lt.MaxDaysPerRequest) {
		return &Rejection{
			Reason: RejectBounds,
			Message: fmt.Sprintf("requested %s days, maximum per request is %s",
				requested, lt.MaxDaysPerRequest),
		}
	}
	return nil
}
