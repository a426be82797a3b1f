/*
handlers.go - HTTP handlers for the leave engine

PURPOSE:
  Translates HTTP commands into engine calls and engine results into JSON.
  The handlers never compute balances or validate eligibility themselves -
  that is the engine's job. The error taxonomy maps onto status codes:

    Rejection / PolicyValidationError / ErrInvalidDateRange  -> 422
    InvalidTransitionError / ErrNotCurrentApprover           -> 409
    ErrConcurrentModification                                -> 409
    not-found sentinels                                      -> 404
    anything else                                            -> 500

SEE ALSO:
  - server.go: routing
  - dto.go: wire shapes
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    leave.Store
	Catalog  *leave.Catalog
	Service  *leave.Service
	Rollover *leave.RolloverService
}

// NewHandler wires the engine over the given store.
func NewHandler(store leave.Store) *Handler {
	return &Handler{
		Store:    store,
		Catalog:  leave.NewCatalog(store),
		Service:  leave.NewService(store),
		Rollover: leave.NewRolloverService(store),
	}
}

// =============================================================================
// LEAVE TYPE ENDPOINTS
// =============================================================================

// ListLeaveTypes returns the active leave types in stable name order.
// GET /api/leave-types
func (h *Handler) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Catalog.ListActive(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leave types", err)
		return
	}
	dtos := make([]LeaveTypeDTO, len(types))
	for i, lt := range types {
		dtos[i] = leaveTypeDTO(lt)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetLeaveType returns a single leave type.
// GET /api/leave-types/{id}
func (h *Handler) GetLeaveType(w http.ResponseWriter, r *http.Request) {
	id := leave.LeaveTypeID(chi.URLParam(r, "id"))
	lt, err := h.Catalog.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leaveTypeDTO(lt))
}

// SaveLeaveType creates or updates a leave type after validation.
// POST /api/leave-types
func (h *Handler) SaveLeaveType(w http.ResponseWriter, r *http.Request) {
	var dto LeaveTypeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	lt, err := dto.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid day quantity", err)
		return
	}
	if err := h.Catalog.Save(r.Context(), lt); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, leaveTypeDTO(lt))
}

// DeactivateLeaveType soft-disables a leave type.
// POST /api/leave-types/{id}/deactivate
func (h *Handler) DeactivateLeaveType(w http.ResponseWriter, r *http.Request) {
	id := leave.LeaveTypeID(chi.URLParam(r, "id"))
	if err := h.Catalog.Deactivate(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteLeaveType removes a never-used leave type. Types with request
// history answer 409; deactivate those instead.
// DELETE /api/leave-types/{id}
func (h *Handler) DeleteLeaveType(w http.ResponseWriter, r *http.Request) {
	id := leave.LeaveTypeID(chi.URLParam(r, "id"))
	if err := h.Catalog.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// EMPLOYEE ENDPOINTS
// =============================================================================

// GetEmployee returns a single employee.
// GET /api/employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := leave.EmployeeID(chi.URLParam(r, "id"))
	emp, err := h.Store.Employee(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employeeDTO(emp))
}

// SaveEmployee creates or updates an employee record.
// POST /api/employees
func (h *Handler) SaveEmployee(w http.ResponseWriter, r *http.Request) {
	var dto EmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	emp, err := dto.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hire_date format (use YYYY-MM-DD)", err)
		return
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, employeeDTO(emp))
}

// GetBalance returns the computed balance for an employee and leave type.
// GET /api/employees/{id}/balance?type={typeID}&as_of={date}
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	employeeID := leave.EmployeeID(chi.URLParam(r, "id"))
	typeID := leave.LeaveTypeID(r.URL.Query().Get("type"))
	if typeID == "" {
		writeError(w, http.StatusBadRequest, "Missing type query parameter", nil)
		return
	}

	asOf := leave.Today()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := leave.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid as_of date (use YYYY-MM-DD)", err)
			return
		}
		asOf = parsed
	}

	balance, err := h.Service.Balance(r.Context(), employeeID, typeID, asOf)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceDTO(balance))
}

// ListEmployeeRequests returns all requests submitted by an employee.
// GET /api/employees/{id}/requests
func (h *Handler) ListEmployeeRequests(w http.ResponseWriter, r *http.Request) {
	employeeID := leave.EmployeeID(chi.URLParam(r, "id"))
	requests, err := h.Store.RequestsByEmployee(r.Context(), employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list requests", err)
		return
	}
	writeJSON(w, http.StatusOK, requestDTOs(requests))
}

// =============================================================================
// REQUEST LIFECYCLE ENDPOINTS
// =============================================================================

// SubmitRequest submits a leave request on behalf of the acting user.
// POST /api/requests
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No acting user", nil)
		return
	}

	var dto SubmitRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := leave.ParseDate(dto.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date (use YYYY-MM-DD)", err)
		return
	}
	end, err := leave.ParseDate(dto.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date (use YYYY-MM-DD)", err)
		return
	}

	attachments := make([]leave.Attachment, len(dto.AttachmentIDs))
	for i, id := range dto.AttachmentIDs {
		attachments[i] = leave.Attachment{ID: id}
	}

	req, err := h.Service.Submit(r.Context(), leave.SubmitInput{
		EmployeeID:         leave.EmployeeID(actor.ID),
		LeaveTypeID:        leave.LeaveTypeID(dto.LeaveTypeID),
		Start:              start,
		End:                end,
		IsHalfDay:          dto.IsHalfDay,
		HalfDayPeriod:      leave.HalfDayPeriod(dto.HalfDayPeriod),
		Reason:             dto.Reason,
		DelegateEmployeeID: leave.EmployeeID(dto.DelegateEmployeeID),
		Attachments:        attachments,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, requestDTO(req))
}

// GetRequest returns a single request.
// GET /api/requests/{id}
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id := leave.RequestID(chi.URLParam(r, "id"))
	req, err := h.Store.Request(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestDTO(req))
}

// ApproveRequest approves the active step as the acting user.
// POST /api/requests/{id}/approve
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "approve", h.Service.Approve)
}

// RejectRequest rejects the active step as the acting user.
// POST /api/requests/{id}/reject
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "reject", h.Service.Reject)
}

func (h *Handler) action(w http.ResponseWriter, r *http.Request,
	name string,
	fn func(ctx context.Context, id leave.RequestID, actor leave.Actor, comment string) (*leave.LeaveRequest, error),
) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No acting user", nil)
		return
	}

	var dto ActionRequestDTO
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	id := leave.RequestID(chi.URLParam(r, "id"))
	req, err := fn(r.Context(), id, actor, dto.Comment)
	if err != nil {
		log.Printf("%s request %s by %s failed: %v", name, id, actor.ID, err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestDTO(req))
}

// CancelRequest cancels a pending request as its requester.
// POST /api/requests/{id}/cancel
func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No acting user", nil)
		return
	}

	id := leave.RequestID(chi.URLParam(r, "id"))
	req, err := h.Service.Cancel(r.Context(), id, leave.EmployeeID(actor.ID))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestDTO(req))
}

// MarkRequestTaken marks an approved request as taken.
// POST /api/requests/{id}/taken
func (h *Handler) MarkRequestTaken(w http.ResponseWriter, r *http.Request) {
	id := leave.RequestID(chi.URLParam(r, "id"))
	req, err := h.Service.MarkTaken(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestDTO(req))
}

// ListPendingApprovals returns requests awaiting the acting user.
// GET /api/requests/pending
func (h *Handler) ListPendingApprovals(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No acting user", nil)
		return
	}
	requests, err := h.Store.PendingForApprover(r.Context(), actor.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list pending requests", err)
		return
	}
	writeJSON(w, http.StatusOK, requestDTOs(requests))
}

// =============================================================================
// ADMIN ENDPOINTS
// =============================================================================

// TriggerRollover sweeps carry-over for every ended policy year.
// POST /api/admin/rollover
func (h *Handler) TriggerRollover(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Rollover.CloseAll(r.Context(), leave.Today())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Rollover failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"pairs_closed":  summary.PairsClosed,
		"pairs_skipped": summary.PairsSkipped,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func requestDTOs(reqs []*leave.LeaveRequest) []RequestDTO {
	dtos := make([]RequestDTO, len(reqs))
	for i, req := range reqs {
		dtos[i] = requestDTO(req)
	}
	return dtos
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Reason  string `json:"reason,omitempty"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps the engine's error taxonomy onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var rej *leave.Rejection
	if errors.As(err, &rej) {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "Request not eligible",
			Reason:  string(rej.Reason),
			Details: rej.Message,
		})
		return
	}

	var pol *leave.PolicyValidationError
	if errors.As(err, &pol) {
		writeError(w, http.StatusUnprocessableEntity, "Invalid leave type policy", err)
		return
	}

	switch {
	case leave.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, leave.ErrInvalidDateRange):
		writeError(w, http.StatusUnprocessableEntity, "Invalid date range", err)
	case errors.Is(err, leave.ErrInvalidTransition),
		errors.Is(err, leave.ErrNotCurrentApprover),
		errors.Is(err, leave.ErrNotRequester),
		errors.Is(err, leave.ErrEmptyApprovalChain),
		errors.Is(err, leave.ErrConcurrentModification),
		errors.Is(err, leave.ErrTypeInUse):
		writeError(w, http.StatusConflict, "Command not allowed", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
