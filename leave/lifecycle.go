/*
lifecycle.go - The request state machine

PURPOSE:
  Governs a leave request from submission through a sequential approval
  chain to a terminal, balance-affecting outcome.

STATES:
  pending -> {approved, rejected, cancelled}
  approved -> taken (externally triggered once the leave has elapsed)
  rejected, cancelled, taken are terminal

TRANSITIONS:
  Submit:  precondition (end >= start) -> eligibility -> build chain ->
           persist. Eligibility failure aborts - the request is never
           created, it is not created-then-rejected.
  Approve: stamp the active step; advance the cursor, or finalize on the
           last step. Only once finalized do the days count toward usage.
  Reject:  stamp the active step rejected; the request is immediately
           rejected, later steps are never evaluated. Earlier approved
           steps keep their outcome as history.
  Cancel:  requester only, pending only. No balance effect.

FAILURE SEMANTICS:
  Commands against a terminal state fail with InvalidTransitionError, never
  silently. Every transition is written with compare-and-set on the request
  version: a lost race surfaces as ErrConcurrentModification and nothing is
  written, so a failed call always leaves the pre-call snapshot intact.

SEE ALSO:
  - eligibility.go: the submission gate
  - store.go: the compare-and-set contract
*/
package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SERVICE - Orchestrates the request lifecycle
// =============================================================================

type Service struct {
	Store       Store
	Eligibility *Validator
	Balances    *Calculator

	// Now is the wall clock for audit stamps. Overridable in tests.
	Now func() time.Time
}

// NewService wires a lifecycle service over the given store with the default
// calendar-year policy period.
func NewService(store Store) *Service {
	calc := NewCalculator(store)
	return &Service{
		Store:       store,
		Eligibility: NewValidator(calc),
		Balances:    calc,
		Now:         time.Now,
	}
}

// SubmitInput carries everything the presentation layer knows about a
// prospective request.
type SubmitInput struct {
	EmployeeID  EmployeeID
	LeaveTypeID LeaveTypeID

	Start Date
	End   Date

	IsHalfDay     bool
	HalfDayPeriod HalfDayPeriod

	Reason             string
	DelegateEmployeeID EmployeeID
	Attachments        []Attachment
}

// Submit validates and creates a leave request in status pending with its
// approval chain built from the employee's configured approval authorities.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*LeaveRequest, error) {
	span := DateSpan{Start: in.Start, End: in.End}
	if !span.Valid() {
		return nil, ErrInvalidDateRange
	}

	emp, err := s.Store.Employee(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	lt, err := s.Store.LeaveType(ctx, in.LeaveTypeID)
	if err != nil {
		return nil, err
	}

	if err := s.Eligibility.Validate(ctx, emp, lt, span, in.IsHalfDay, in.Attachments); err != nil {
		return nil, err
	}

	if len(emp.ApprovalChain) == 0 {
		return nil, ErrEmptyApprovalChain
	}

	flow := make([]ApprovalStep, len(emp.ApprovalChain))
	for i, approver := range emp.ApprovalChain {
		flow[i] = ApprovalStep{
			Order:        i + 1,
			ApproverID:   approver.ID,
			ApproverName: approver.Name,
			ApproverRole: approver.Role,
			Status:       StepPending,
		}
	}

	now := s.Now()
	req := &LeaveRequest{
		ID:                 RequestID(uuid.NewString()),
		EmployeeID:         emp.ID,
		LeaveTypeID:        lt.ID,
		Span:               span,
		IsHalfDay:          in.IsHalfDay,
		HalfDayPeriod:      in.HalfDayPeriod,
		TotalDays:          RequestDays(span, in.IsHalfDay),
		Reason:             in.Reason,
		DelegateEmployeeID: in.DelegateEmployeeID,
		Attachments:        in.Attachments,
		Status:             StatusPending,
		ApprovalFlow:       flow,
		CurrentStep:        1,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.Store.SaveRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("save request: %w", err)
	}
	return req, nil
}

// Approve marks the active step approved by the actor. If a later step
// exists the cursor advances and the request stays pending; on the last
// step the request is finalized as approved and its days start counting
// toward usage.
func (s *Service) Approve(ctx context.Context, id RequestID, actor Actor, comment string) (*LeaveRequest, error) {
	req, err := s.Store.Request(ctx, id)
	if err != nil {
		return nil, err
	}
	step, err := s.activeStep(req, "approve", actor)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	expected := req.Version

	step.Status = StepApproved
	step.Comment = comment
	step.ActionDate = &now

	if req.CurrentStep < len(req.ApprovalFlow) {
		req.CurrentStep++
	} else {
		req.Status = StatusApproved
		req.CurrentStep = 0
	}
	req.UpdatedAt = now

	if err := s.Store.UpdateRequest(ctx, req, expected); err != nil {
		return nil, err
	}
	return req, nil
}

// Reject marks the active step rejected and immediately rejects the request.
// Remaining steps are never evaluated; rejected days never count toward
// usage.
func (s *Service) Reject(ctx context.Context, id RequestID, actor Actor, comment string) (*LeaveRequest, error) {
	req, err := s.Store.Request(ctx, id)
	if err != nil {
		return nil, err
	}
	step, err := s.activeStep(req, "reject", actor)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	expected := req.Version

	step.Status = StepRejected
	step.Comment = comment
	step.ActionDate = &now

	req.Status = StatusRejected
	req.CurrentStep = 0
	req.UpdatedAt = now

	if err := s.Store.UpdateRequest(ctx, req, expected); err != nil {
		return nil, err
	}
	return req, nil
}

// Cancel withdraws a pending request. Only the requester may cancel, and
// only while the request is pending. No balance effect.
func (s *Service) Cancel(ctx context.Context, id RequestID, requesterID EmployeeID) (*LeaveRequest, error) {
	req, err := s.Store.Request(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != StatusPending {
		return nil, &InvalidTransitionError{RequestID: req.ID, Status: req.Status, Command: "cancel"}
	}
	if req.EmployeeID != requesterID {
		return nil, ErrNotRequester
	}

	expected := req.Version
	req.Status = StatusCancelled
	req.CurrentStep = 0
	req.UpdatedAt = s.Now()

	if err := s.Store.UpdateRequest(ctx, req, expected); err != nil {
		return nil, err
	}
	return req, nil
}

// MarkTaken records that an approved leave has actually elapsed. Externally
// triggered; taken days keep counting toward usage exactly as approved days
// do.
func (s *Service) MarkTaken(ctx context.Context, id RequestID) (*LeaveRequest, error) {
	req, err := s.Store.Request(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != StatusApproved {
		return nil, &InvalidTransitionError{RequestID: req.ID, Status: req.Status, Command: "mark taken"}
	}

	expected := req.Version
	req.Status = StatusTaken
	req.UpdatedAt = s.Now()

	if err := s.Store.UpdateRequest(ctx, req, expected); err != nil {
		return nil, err
	}
	return req, nil
}

// Balance exposes the computed balance for presentation.
func (s *Service) Balance(ctx context.Context, employeeID EmployeeID, typeID LeaveTypeID, asOf Date) (Balance, error) {
	emp, err := s.Store.Employee(ctx, employeeID)
	if err != nil {
		return Balance{}, err
	}
	lt, err := s.Store.LeaveType(ctx, typeID)
	if err != nil {
		return Balance{}, err
	}
	return s.Balances.Balance(ctx, emp, lt, asOf)
}

// activeStep resolves the step awaiting action for an approve/reject
// command, enforcing the pending status and approver identity.
func (s *Service) activeStep(req *LeaveRequest, command string, actor Actor) (*ApprovalStep, error) {
	if req.Status != StatusPending {
		return nil, &InvalidTransitionError{RequestID: req.ID, Status: req.Status, Command: command}
	}
	step := req.currentStep()
	if step == nil {
		// Pending without a live cursor means corrupted state.
		return nil, &InvalidTransitionError{RequestID: req.ID, Status: req.Status, Command: command}
	}
	if step.ApproverID != actor.ID {
		return nil, fmt.Errorf("%w: step %d belongs to %s", ErrNotCurrentApprover, step.Order, step.ApproverID)
	}
	return step, nil
}
