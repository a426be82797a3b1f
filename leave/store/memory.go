// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	leaveTypes map[leave.LeaveTypeID]leave.LeaveType
	employees  map[leave.EmployeeID]leave.Employee
	requests   map[leave.RequestID]leave.LeaveRequest
	carryOvers map[carryKey]leave.CarryOverRecord
}

type carryKey struct {
	EmployeeID  leave.EmployeeID
	LeaveTypeID leave.LeaveTypeID
	Year        int
}

func NewMemory() *Memory {
	return &Memory{
		leaveTypes: make(map[leave.LeaveTypeID]leave.LeaveType),
		employees:  make(map[leave.EmployeeID]leave.Employee),
		requests:   make(map[leave.RequestID]leave.LeaveRequest),
		carryOvers: make(map[carryKey]leave.CarryOverRecord),
	}
}

var _ leave.Store = (*Memory)(nil)

// -----------------------------------------------------------------------------
// Leave types
// -----------------------------------------------------------------------------

func (m *Memory) LeaveType(_ context.Context, id leave.LeaveTypeID) (*leave.LeaveType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lt, ok := m.leaveTypes[id]
	if !ok {
		return nil, leave.ErrLeaveTypeNotFound
	}
	out := lt
	return &out, nil
}

func (m *Memory) LeaveTypes(_ context.Context) ([]*leave.LeaveType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*leave.LeaveType, 0, len(m.leaveTypes))
	for _, lt := range m.leaveTypes {
		out := lt
		result = append(result, &out)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) SaveLeaveType(_ context.Context, lt *leave.LeaveType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaveTypes[lt.ID] = *lt
	return nil
}

func (m *Memory) TypeInUse(_ context.Context, id leave.LeaveTypeID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, req := range m.requests {
		if req.LeaveTypeID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) DeleteLeaveType(_ context.Context, id leave.LeaveTypeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.leaveTypes[id]; !ok {
		return leave.ErrLeaveTypeNotFound
	}
	delete(m.leaveTypes, id)
	return nil
}

// -----------------------------------------------------------------------------
// Employees
// -----------------------------------------------------------------------------

func (m *Memory) Employee(_ context.Context, id leave.EmployeeID) (*leave.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return nil, leave.ErrEmployeeNotFound
	}
	out := e
	out.ApprovalChain = append([]leave.Approver(nil), e.ApprovalChain...)
	return &out, nil
}

func (m *Memory) SaveEmployee(_ context.Context, e *leave.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *e
	stored.ApprovalChain = append([]leave.Approver(nil), e.ApprovalChain...)
	m.employees[e.ID] = stored
	return nil
}

func (m *Memory) Employees(_ context.Context) ([]*leave.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*leave.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out := e
		out.ApprovalChain = append([]leave.Approver(nil), e.ApprovalChain...)
		result = append(result, &out)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// -----------------------------------------------------------------------------
// Requests
// -----------------------------------------------------------------------------

func (m *Memory) Request(_ context.Context, id leave.RequestID) (*leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	req, ok := m.requests[id]
	if !ok {
		return nil, leave.ErrRequestNotFound
	}
	return cloneRequest(req), nil
}

func (m *Memory) RequestsForBalance(_ context.Context, employeeID leave.EmployeeID, typeID leave.LeaveTypeID, period leave.Period) ([]*leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*leave.LeaveRequest
	for _, req := range m.requests {
		if req.EmployeeID != employeeID || req.LeaveTypeID != typeID {
			continue
		}
		if !req.Span.Intersects(period) {
			continue
		}
		result = append(result, cloneRequest(req))
	}
	sortRequests(result)
	return result, nil
}

func (m *Memory) RequestsByEmployee(_ context.Context, employeeID leave.EmployeeID) ([]*leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*leave.LeaveRequest
	for _, req := range m.requests {
		if req.EmployeeID == employeeID {
			result = append(result, cloneRequest(req))
		}
	}
	sortRequests(result)
	return result, nil
}

func (m *Memory) PendingForApprover(_ context.Context, approverID string) ([]*leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*leave.LeaveRequest
	for _, req := range m.requests {
		if req.Status != leave.StatusPending {
			continue
		}
		approver := req.CurrentApprover()
		if approver == nil || approver.ID != approverID {
			continue
		}
		result = append(result, cloneRequest(req))
	}
	sortRequests(result)
	return result, nil
}

func (m *Memory) SaveRequest(_ context.Context, req *leave.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = *cloneRequest(*req)
	return nil
}

func (m *Memory) UpdateRequest(_ context.Context, req *leave.LeaveRequest, expectedVersion int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.requests[req.ID]
	if !ok {
		return leave.ErrRequestNotFound
	}
	if stored.Version != expectedVersion {
		return leave.ErrConcurrentModification
	}
	updated := *cloneRequest(*req)
	updated.Version = expectedVersion + 1
	m.requests[req.ID] = updated
	req.Version = updated.Version
	return nil
}

// -----------------------------------------------------------------------------
// Carry-over records
// -----------------------------------------------------------------------------

func (m *Memory) CarryOver(_ context.Context, employeeID leave.EmployeeID, typeID leave.LeaveTypeID, year int) (*leave.CarryOverRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.carryOvers[carryKey{employeeID, typeID, year}]
	if !ok {
		return nil, nil
	}
	out := rec
	return &out, nil
}

func (m *Memory) SaveCarryOver(_ context.Context, rec leave.CarryOverRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := carryKey{rec.EmployeeID, rec.LeaveTypeID, rec.Year}
	// Records are immutable: first writer wins.
	if _, ok := m.carryOvers[k]; ok {
		return nil
	}
	m.carryOvers[k] = rec
	return nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func cloneRequest(req leave.LeaveRequest) *leave.LeaveRequest {
	out := req
	out.ApprovalFlow = append([]leave.ApprovalStep(nil), req.ApprovalFlow...)
	out.Attachments = append([]leave.Attachment(nil), req.Attachments...)
	return &out
}

func sortRequests(reqs []*leave.LeaveRequest) {
	sort.Slice(reqs, func(i, j int) bool {
		if !reqs[i].CreatedAt.Equal(reqs[j].CreatedAt) {
			return reqs[i].CreatedAt.Before(reqs[j].CreatedAt)
		}
		return reqs[i].ID < reqs[j].ID
	})
}
