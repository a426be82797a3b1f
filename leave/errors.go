/*
errors.go - Centralized error types for the leave engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers (the HTTP layer, the HR application) distinguish failure classes
  with errors.Is / errors.As.

ERROR TAXONOMY:
  1. PolicyValidationError - malformed leave type policy (admin-time)
  2. Rejection             - eligibility failure (requester-facing, enumerated reason)
  3. InvalidTransitionError- state-machine misuse (UI-sync / programming error)
  4. InconsistentBalanceError - approved usage exceeds entitlement (reportable warning)

USAGE:
  var rej *leave.Rejection
  if errors.As(err, &rej) {
      switch rej.Reason {
      case leave.RejectInsufficientBalance: ...
      }
  }

SEE ALSO:
  - eligibility.go: produces Rejection
  - lifecycle.go: produces InvalidTransitionError
  - balance.go: produces InconsistentBalanceError
*/
package leave

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrLeaveTypeNotFound is returned when a referenced leave type doesn't exist.
	ErrLeaveTypeNotFound = errors.New("leave type not found")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrRequestNotFound is returned when a referenced request doesn't exist.
	ErrRequestNotFound = errors.New("leave request not found")

	// ErrInvalidDateRange is returned when a request's end date precedes its
	// start date. Checked before eligibility, the request never reaches the
	// validator.
	ErrInvalidDateRange = errors.New("invalid date range: end before start")

	// ErrInvalidTransition is returned for any lifecycle command against a
	// request in a terminal state. Wrapped by InvalidTransitionError.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")

	// ErrNotCurrentApprover is returned when an actor tries to act on a step
	// that is not theirs.
	ErrNotCurrentApprover = errors.New("actor is not the current approver")

	// ErrNotRequester is returned when someone other than the requester tries
	// to cancel a request.
	ErrNotRequester = errors.New("only the requester may cancel")

	// ErrEmptyApprovalChain is returned on submission when the employee has no
	// configured approval authority. Every request needs a chain of length >= 1.
	ErrEmptyApprovalChain = errors.New("employee has no approval chain configured")

	// ErrConcurrentModification is returned when compare-and-set detects that
	// another transition won the race on the same request.
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// ErrTypeInUse is returned when attempting to hard-delete a leave type
	// that has usage history. Types are soft-disabled instead.
	ErrTypeInUse = errors.New("leave type has usage history; deactivate instead")
)

// =============================================================================
// POLICY VALIDATION - Malformed leave type configuration
// =============================================================================

// PolicyValidationError reports a malformed leave type policy. Surfaced to the
// administrator at type-edit time; a request never sees an invalid policy.
type PolicyValidationError struct {
	Field   string
	Message string
}

func (e *PolicyValidationError) Error() string {
	return fmt.Sprintf("invalid leave type policy: %s: %s", e.Field, e.Message)
}

// =============================================================================
// REJECTION - Eligibility failure with enumerated reason
// =============================================================================

// RejectionReason enumerates why a prospective request was not permitted.
// Callers rely on these for user-facing messaging, so the set is closed.
type RejectionReason string

const (
	RejectInactiveType        RejectionReason = "inactive-type"
	RejectGender              RejectionReason = "gender"
	RejectTenure              RejectionReason = "tenure"
	RejectBounds              RejectionReason = "bounds"
	RejectInsufficientBalance RejectionReason = "insufficient-balance"
	RejectMissingAttachment   RejectionReason = "missing-attachment"
)

// Rejection reports the first eligibility check a prospective request failed.
// The request is never created.
type Rejection struct {
	Reason  RejectionReason
	Message string
}

func (e *Rejection) Error() string {
	return fmt.Sprintf("request not eligible (%s): %s", e.Reason, e.Message)
}

// =============================================================================
// INVALID TRANSITION - State machine misuse
// =============================================================================

// InvalidTransitionError reports a lifecycle command against a request whose
// status does not permit it. The request state is unchanged, and repeating
// the command yields the same error.
type InvalidTransitionError struct {
	RequestID RequestID
	Status    RequestStatus
	Command   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s request %s in status %q", e.Command, e.RequestID, e.Status)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// =============================================================================
// INCONSISTENT BALANCE - Approved usage exceeds entitlement
// =============================================================================

// InconsistentBalanceError is a reportable warning: the raw remaining balance
// went negative, meaning approved usage exceeds entitlement (a race, or a
// policy change after approval). The presented remaining floors at zero; the
// stored history is NOT auto-corrected.
type InconsistentBalanceError struct {
	EmployeeID  EmployeeID
	LeaveTypeID LeaveTypeID
	Period      Period
	Shortfall   Days
}

func (e *InconsistentBalanceError) Error() string {
	return fmt.Sprintf("inconsistent balance for employee %s, type %s, period %s: usage exceeds entitlement by %s days",
		e.EmployeeID, e.LeaveTypeID, e.Period, e.Shortfall)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrLeaveTypeNotFound) ||
		errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrRequestNotFound)
}

// IsRetryable returns true if the error might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

// IsClientError returns true if the error is due to invalid caller input
// rather than an engine or store defect.
func IsClientError(err error) bool {
	var rej *Rejection
	var pol *PolicyValidationError
	return errors.As(err, &rej) ||
		errors.As(err, &pol) ||
		errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrNotCurrentApprover) ||
		errors.Is(err, ErrNotRequester)
}
