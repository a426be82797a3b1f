package leave

import "time"

// =============================================================================
// LEAVE REQUEST - The transactional entity
// =============================================================================

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
	StatusTaken     RequestStatus = "taken"
)

// Terminal reports whether no further lifecycle command may succeed from
// this status. Approved is terminal for approval-chain commands but still
// admits the external approved -> taken mark.
func (s RequestStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusTaken
}

type HalfDayPeriod string

const (
	HalfDayMorning   HalfDayPeriod = "morning"
	HalfDayAfternoon HalfDayPeriod = "afternoon"
)

// LeaveRequest is created on submission and mutated only through lifecycle
// transitions. The approval flow is an immutable ordered sequence of steps
// plus a cursor: outcomes are stamped onto the step at the cursor and the
// cursor advances, steps are never reordered or deleted.
type LeaveRequest struct {
	ID          RequestID
	EmployeeID  EmployeeID
	LeaveTypeID LeaveTypeID

	Span          DateSpan
	IsHalfDay     bool
	HalfDayPeriod HalfDayPeriod
	TotalDays     Days

	Reason             string
	DelegateEmployeeID EmployeeID
	Attachments        []Attachment

	Status RequestStatus

	// ApprovalFlow is ordered by Step.Order (1-based). Length >= 1.
	ApprovalFlow []ApprovalStep

	// CurrentStep is the 1-based order of the step awaiting action, 0 once
	// the request left pending.
	CurrentStep int

	// Version backs the store's compare-and-set.
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CurrentApprover returns the approver of the step awaiting action, or nil
// once the request has left pending.
func (r *LeaveRequest) CurrentApprover() *Approver {
	step := r.currentStep()
	if step == nil {
		return nil
	}
	return &Approver{ID: step.ApproverID, Name: step.ApproverName, Role: step.ApproverRole}
}

func (r *LeaveRequest) currentStep() *ApprovalStep {
	if r.CurrentStep < 1 || r.CurrentStep > len(r.ApprovalFlow) {
		return nil
	}
	return &r.ApprovalFlow[r.CurrentStep-1]
}

// CountsTowardUsage reports whether the request's days count toward the
// used total in balance computation.
func (r *LeaveRequest) CountsTowardUsage() bool {
	return r.Status == StatusApproved || r.Status == StatusTaken
}

// =============================================================================
// APPROVAL STEP - One link of the chain
// =============================================================================

type StepStatus string

const (
	StepPending  StepStatus = "pending"
	StepApproved StepStatus = "approved"
	StepRejected StepStatus = "rejected"
)

// ApprovalStep is owned exclusively by its parent request: steps have no
// identity of their own. Each step is mutated exactly once
// (pending -> approved|rejected) and keeps its outcome as history even when
// a later step rejects the request.
type ApprovalStep struct {
	Order int // 1-based sequence position

	ApproverID   string
	ApproverName string
	ApproverRole string

	Status     StepStatus
	Comment    string
	ActionDate *time.Time
}
