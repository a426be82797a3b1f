/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract: identifiers are
  opaque strings, dates are ISO-8601 calendar dates, day quantities are
  decimal strings with 0.5 precision.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: converts between domain types and these
*/
package api

import (
	"time"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// LEAVE TYPES
// =============================================================================

// LeaveTypeDTO represents a leave type in API responses and admin edits.
type LeaveTypeDTO struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Category           string `json:"category"`
	IsPaid             bool   `json:"is_paid"`
	SalaryPercentage   int    `json:"salary_percentage"`
	MaxDaysPerYear     string `json:"max_days_per_year"`
	MinDaysPerRequest  string `json:"min_days_per_request"`
	MaxDaysPerRequest  string `json:"max_days_per_request"`
	AllowHalfDay       bool   `json:"allow_half_day"`
	RequiresAttachment bool   `json:"requires_attachment"`
	AccrualType        string `json:"accrual_type"`
	AccrualRate        string `json:"accrual_rate"`
	CarryOverAllowed   bool   `json:"carry_over_allowed"`
	MaxCarryOverDays   string `json:"max_carry_over_days"`
	MinServiceMonths   int    `json:"min_service_months"`
	GenderRestriction  string `json:"gender_restriction"`
	IsActive           bool   `json:"is_active"`
}

func leaveTypeDTO(lt *leave.LeaveType) LeaveTypeDTO {
	return LeaveTypeDTO{
		ID:                 string(lt.ID),
		Name:               lt.Name,
		Category:           string(lt.Category),
		IsPaid:             lt.IsPaid,
		SalaryPercentage:   lt.SalaryPercentage,
		MaxDaysPerYear:     lt.MaxDaysPerYear.String(),
		MinDaysPerRequest:  lt.MinDaysPerRequest.String(),
		MaxDaysPerRequest:  lt.MaxDaysPerRequest.String(),
		AllowHalfDay:       lt.AllowHalfDay,
		RequiresAttachment: lt.RequiresAttachment,
		AccrualType:        string(lt.AccrualType),
		AccrualRate:        lt.AccrualRate.String(),
		CarryOverAllowed:   lt.CarryOverAllowed,
		MaxCarryOverDays:   lt.MaxCarryOverDays.String(),
		MinServiceMonths:   lt.MinServiceMonths,
		GenderRestriction:  string(lt.GenderRestriction),
		IsActive:           lt.IsActive,
	}
}

func (dto LeaveTypeDTO) toDomain() (*leave.LeaveType, error) {
	lt := &leave.LeaveType{
		ID:                 leave.LeaveTypeID(dto.ID),
		Name:               dto.Name,
		Category:           leave.LeaveCategory(dto.Category),
		IsPaid:             dto.IsPaid,
		SalaryPercentage:   dto.SalaryPercentage,
		AllowHalfDay:       dto.AllowHalfDay,
		RequiresAttachment: dto.RequiresAttachment,
		AccrualType:        leave.AccrualType(dto.AccrualType),
		CarryOverAllowed:   dto.CarryOverAllowed,
		MinServiceMonths:   dto.MinServiceMonths,
		GenderRestriction:  leave.GenderRestriction(dto.GenderRestriction),
		IsActive:           dto.IsActive,
	}
	for _, q := range []struct {
		dst *leave.Days
		src string
	}{
		{&lt.MaxDaysPerYear, dto.MaxDaysPerYear},
		{&lt.MinDaysPerRequest, dto.MinDaysPerRequest},
		{&lt.MaxDaysPerRequest, dto.MaxDaysPerRequest},
		{&lt.AccrualRate, orZero(dto.AccrualRate)},
		{&lt.MaxCarryOverDays, orZero(dto.MaxCarryOverDays)},
	} {
		d, err := leave.ParseDays(q.src)
		if err != nil {
			return nil, err
		}
		*q.dst = d
	}
	return lt, nil
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// =============================================================================
// EMPLOYEES
// =============================================================================

type ApproverDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type EmployeeDTO struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Gender        string        `json:"gender"`
	HireDate      string        `json:"hire_date"`
	ApprovalChain []ApproverDTO `json:"approval_chain"`
}

func employeeDTO(e *leave.Employee) EmployeeDTO {
	chain := make([]ApproverDTO, len(e.ApprovalChain))
	for i, a := range e.ApprovalChain {
		chain[i] = ApproverDTO{ID: a.ID, Name: a.Name, Role: a.Role}
	}
	return EmployeeDTO{
		ID:            string(e.ID),
		Name:          e.Name,
		Email:         e.Email,
		Gender:        string(e.Gender),
		HireDate:      e.HireDate.String(),
		ApprovalChain: chain,
	}
}

func (dto EmployeeDTO) toDomain() (*leave.Employee, error) {
	hire, err := leave.ParseDate(dto.HireDate)
	if err != nil {
		return nil, err
	}
	chain := make([]leave.Approver, len(dto.ApprovalChain))
	for i, a := range dto.ApprovalChain {
		chain[i] = leave.Approver{ID: a.ID, Name: a.Name, Role: a.Role}
	}
	return &leave.Employee{
		ID:            leave.EmployeeID(dto.ID),
		Name:          dto.Name,
		Email:         dto.Email,
		Gender:        leave.Gender(dto.Gender),
		HireDate:      hire,
		ApprovalChain: chain,
	}, nil
}

// =============================================================================
// REQUESTS
// =============================================================================

// SubmitRequestDTO is the body of a submission command.
type SubmitRequestDTO struct {
	LeaveTypeID        string   `json:"leave_type_id"`
	StartDate          string   `json:"start_date"`
	EndDate            string   `json:"end_date"`
	IsHalfDay          bool     `json:"is_half_day"`
	HalfDayPeriod      string   `json:"half_day_period,omitempty"`
	Reason             string   `json:"reason"`
	DelegateEmployeeID string   `json:"delegate_employee_id,omitempty"`
	AttachmentIDs      []string `json:"attachment_ids,omitempty"`
}

// ActionRequestDTO is the body of an approve/reject command.
type ActionRequestDTO struct {
	Comment string `json:"comment,omitempty"`
}

type ApprovalStepDTO struct {
	Order        int    `json:"order"`
	ApproverID   string `json:"approver_id"`
	ApproverName string `json:"approver_name"`
	ApproverRole string `json:"approver_role"`
	Status       string `json:"status"`
	Comment      string `json:"comment,omitempty"`
	ActionDate   string `json:"action_date,omitempty"`
}

type RequestDTO struct {
	ID                 string            `json:"id"`
	EmployeeID         string            `json:"employee_id"`
	LeaveTypeID        string            `json:"leave_type_id"`
	StartDate          string            `json:"start_date"`
	EndDate            string            `json:"end_date"`
	IsHalfDay          bool              `json:"is_half_day"`
	HalfDayPeriod      string            `json:"half_day_period,omitempty"`
	TotalDays          string            `json:"total_days"`
	Reason             string            `json:"reason,omitempty"`
	DelegateEmployeeID string            `json:"delegate_employee_id,omitempty"`
	Status             string            `json:"status"`
	ApprovalFlow       []ApprovalStepDTO `json:"approval_flow"`
	CurrentApprover    *ApproverDTO      `json:"current_approver,omitempty"`
	CreatedAt          string            `json:"created_at"`
	UpdatedAt          string            `json:"updated_at"`
}

func requestDTO(req *leave.LeaveRequest) RequestDTO {
	flow := make([]ApprovalStepDTO, len(req.ApprovalFlow))
	for i, step := range req.ApprovalFlow {
		dto := ApprovalStepDTO{
			Order:        step.Order,
			ApproverID:   step.ApproverID,
			ApproverName: step.ApproverName,
			ApproverRole: step.ApproverRole,
			Status:       string(step.Status),
			Comment:      step.Comment,
		}
		if step.ActionDate != nil {
			dto.ActionDate = step.ActionDate.Format(time.RFC3339)
		}
		flow[i] = dto
	}

	out := RequestDTO{
		ID:                 string(req.ID),
		EmployeeID:         string(req.EmployeeID),
		LeaveTypeID:        string(req.LeaveTypeID),
		StartDate:          req.Span.Start.String(),
		EndDate:            req.Span.End.String(),
		IsHalfDay:          req.IsHalfDay,
		HalfDayPeriod:      string(req.HalfDayPeriod),
		TotalDays:          req.TotalDays.String(),
		Reason:             req.Reason,
		DelegateEmployeeID: string(req.DelegateEmployeeID),
		Status:             string(req.Status),
		ApprovalFlow:       flow,
		CreatedAt:          req.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          req.UpdatedAt.Format(time.RFC3339),
	}
	if approver := req.CurrentApprover(); approver != nil {
		out.CurrentApprover = &ApproverDTO{ID: approver.ID, Name: approver.Name, Role: approver.Role}
	}
	return out
}

// =============================================================================
// BALANCE
// =============================================================================

type BalanceDTO struct {
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	AsOf        string `json:"as_of"`
	Entitled    string `json:"entitled"`
	Accrued     string `json:"accrued"`
	CarriedOver string `json:"carried_over"`
	Used        string `json:"used"`
	Remaining   string `json:"remaining"`
	Warning     string `json:"warning,omitempty"`
}

func balanceDTO(b leave.Balance) BalanceDTO {
	dto := BalanceDTO{
		EmployeeID:  string(b.EmployeeID),
		LeaveTypeID: string(b.LeaveTypeID),
		PeriodStart: b.Period.Start.String(),
		PeriodEnd:   b.Period.End.String(),
		AsOf:        b.AsOf.String(),
		Entitled:    b.Entitled.String(),
		Accrued:     b.Accrued.String(),
		CarriedOver: b.CarriedOver.String(),
		Used:        b.Used.String(),
		Remaining:   b.Remaining.String(),
	}
	if warning := b.Warning(); warning != nil {
		dto.Warning = warning.Error()
	}
	return dto
}
