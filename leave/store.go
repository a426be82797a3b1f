/*
store.go - Persistence boundary of the engine

PURPOSE:
  Defines the interface between the engine and the backing store. The engine
  assumes nothing about persistence technology; it only requires that each
  write is atomic and that request transitions are applied with
  compare-and-set isolation.

CONCURRENCY CONTRACT:
  A request transition is read -> validate -> write. Two concurrent approval
  actions on the same request must not both succeed past the same step, so
  UpdateRequest takes the version the caller read and fails with
  ErrConcurrentModification if the stored version moved. Last-writer-wins is
  not acceptable here.

IMPLEMENTATIONS:
  - leave/store/memory.go: in-memory, for tests and development
  - store/sqlite/sqlite.go: SQLite, version-guarded UPDATE

SEE ALSO:
  - lifecycle.go: the only writer of requests
  - balance.go: read-only consumer of request history
*/
package leave

import "context"

// =============================================================================
// STORE - Backing store collaborator
// =============================================================================

// Store is the engine's only shared resource. Every method is a single
// atomic unit of work: no partial writes.
type Store interface {
	// LeaveType returns the leave type, or ErrLeaveTypeNotFound.
	LeaveType(ctx context.Context, id LeaveTypeID) (*LeaveType, error)

	// LeaveTypes returns all configured leave types, active or not.
	LeaveTypes(ctx context.Context) ([]*LeaveType, error)

	// SaveLeaveType creates or replaces a leave type record.
	SaveLeaveType(ctx context.Context, lt *LeaveType) error

	// TypeInUse reports whether any request, in any status, references the
	// leave type.
	TypeInUse(ctx context.Context, id LeaveTypeID) (bool, error)

	// DeleteLeaveType removes the leave type record, or ErrLeaveTypeNotFound.
	// Callers enforce the usage-history guard; see Catalog.Delete.
	DeleteLeaveType(ctx context.Context, id LeaveTypeID) error

	// Employee returns the employee, or ErrEmployeeNotFound.
	Employee(ctx context.Context, id EmployeeID) (*Employee, error)

	// SaveEmployee creates or replaces an employee record.
	SaveEmployee(ctx context.Context, e *Employee) error

	// Employees returns all employee records.
	Employees(ctx context.Context) ([]*Employee, error)

	// Request returns the request, or ErrRequestNotFound.
	Request(ctx context.Context, id RequestID) (*LeaveRequest, error)

	// RequestsForBalance returns the employee's requests of the given type
	// whose date range intersects the period, regardless of status.
	RequestsForBalance(ctx context.Context, employeeID EmployeeID, typeID LeaveTypeID, period Period) ([]*LeaveRequest, error)

	// RequestsByEmployee returns all requests submitted by the employee.
	RequestsByEmployee(ctx context.Context, employeeID EmployeeID) ([]*LeaveRequest, error)

	// PendingForApprover returns pending requests whose current step belongs
	// to the given approver.
	PendingForApprover(ctx context.Context, approverID string) ([]*LeaveRequest, error)

	// SaveRequest inserts a new request at version 1.
	SaveRequest(ctx context.Context, req *LeaveRequest) error

	// UpdateRequest replaces the request if its stored version equals
	// expectedVersion, bumping the version. Returns
	// ErrConcurrentModification on a version mismatch; nothing is written.
	UpdateRequest(ctx context.Context, req *LeaveRequest, expectedVersion int) error

	// CarryOver returns the frozen carry-over record for the policy year
	// starting in the given year, or nil if rollover has not been run.
	CarryOver(ctx context.Context, employeeID EmployeeID, typeID LeaveTypeID, year int) (*CarryOverRecord, error)

	// SaveCarryOver persists a carry-over record. Records are immutable:
	// saving over an existing (employee, type, year) key is a no-op.
	SaveCarryOver(ctx context.Context, rec CarryOverRecord) error
}

// =============================================================================
// CARRY-OVER RECORD - Frozen at period rollover
// =============================================================================

// CarryOverRecord freezes the days carried into the policy year starting in
// Year. Computed once at rollover and immutable thereafter within the period.
type CarryOverRecord struct {
	EmployeeID  EmployeeID
	LeaveTypeID LeaveTypeID

	// Year identifies the receiving policy year by its start year.
	Year int

	Days     Days
	ClosedAt Date
}
