/*
Package sqlite provides a SQLite-backed implementation of leave.Store.

PURPOSE:
  Persists leave types, employees, requests and carry-over records using
  SQLite. In production the same patterns apply to PostgreSQL - only minor
  SQL dialect differences.

CONCURRENCY:
  Request transitions use compare-and-set: UPDATE ... WHERE id = ? AND
  version = ?. A lost race affects zero rows and surfaces as
  leave.ErrConcurrentModification, so two concurrent approvals can never
  both succeed past the same step.

CARRY-OVER IMMUTABILITY:
  carry_overs has a unique (employee_id, leave_type_id, year) key and
  inserts with ON CONFLICT DO NOTHING: the first rollover run wins and
  re-runs are no-ops.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block and crash recovery improves.

USAGE:
  store, err := sqlite.New("./data/leave.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := leave.NewService(store)

SEE ALSO:
  - leave/store.go: interface definition and contracts
  - leave/store/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/leave-engine/leave"
)

// Store implements leave.Store using SQLite.
type Store struct {
	db *sql.DB
}

var _ leave.Store = (*Store)(nil)

// New creates a new SQLite store at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS leave_types (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		is_paid BOOLEAN NOT NULL DEFAULT FALSE,
		salary_percentage INTEGER NOT NULL DEFAULT 0,
		max_days_per_year TEXT NOT NULL,
		min_days_per_request TEXT NOT NULL,
		max_days_per_request TEXT NOT NULL,
		allow_half_day BOOLEAN NOT NULL DEFAULT FALSE,
		requires_attachment BOOLEAN NOT NULL DEFAULT FALSE,
		accrual_type TEXT NOT NULL,
		accrual_rate TEXT NOT NULL,
		carry_over_allowed BOOLEAN NOT NULL DEFAULT FALSE,
		max_carry_over_days TEXT NOT NULL,
		min_service_months INTEGER NOT NULL DEFAULT 0,
		gender_restriction TEXT NOT NULL DEFAULT 'all',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		gender TEXT NOT NULL,
		hire_date TEXT NOT NULL,
		approval_chain_json TEXT NOT NULL DEFAULT '[]',
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		leave_type_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		is_half_day BOOLEAN NOT NULL DEFAULT FALSE,
		half_day_period TEXT,
		total_days TEXT NOT NULL,
		reason TEXT,
		delegate_employee_id TEXT,
		attachments_json TEXT NOT NULL DEFAULT '[]',
		status TEXT NOT NULL DEFAULT 'pending',
		approval_flow_json TEXT NOT NULL,
		current_step INTEGER NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Balance computation (hot path): employee + type + date range
	CREATE INDEX IF NOT EXISTS idx_requests_employee_type_dates
		ON requests(employee_id, leave_type_id, start_date, end_date);
	CREATE INDEX IF NOT EXISTS idx_requests_employee
		ON requests(employee_id);
	CREATE INDEX IF NOT EXISTS idx_requests_status
		ON requests(status);

	CREATE TABLE IF NOT EXISTS carry_overs (
		employee_id TEXT NOT NULL,
		leave_type_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		days TEXT NOT NULL,
		closed_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, leave_type_id, year)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LEAVE TYPES
// =============================================================================

const leaveTypeColumns = `id, name, category, is_paid, salary_percentage,
	max_days_per_year, min_days_per_request, max_days_per_request,
	allow_half_day, requires_attachment, accrual_type, accrual_rate,
	carry_over_allowed, max_carry_over_days, min_service_months,
	gender_restriction, is_active`

func (s *Store) LeaveType(ctx context.Context, id leave.LeaveTypeID) (*leave.LeaveType, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leaveTypeColumns+` FROM leave_types WHERE id = ?`, string(id))
	lt, err := scanLeaveType(row)
	if err == sql.ErrNoRows {
		return nil, leave.ErrLeaveTypeNotFound
	}
	return lt, err
}

func (s *Store) LeaveTypes(ctx context.Context) ([]*leave.LeaveType, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+leaveTypeColumns+` FROM leave_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*leave.LeaveType
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, lt)
	}
	return result, rows.Err()
}

func (s *Store) SaveLeaveType(ctx context.Context, lt *leave.LeaveType) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_types (`+leaveTypeColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			is_paid = excluded.is_paid,
			salary_percentage = excluded.salary_percentage,
			max_days_per_year = excluded.max_days_per_year,
			min_days_per_request = excluded.min_days_per_request,
			max_days_per_request = excluded.max_days_per_request,
			allow_half_day = excluded.allow_half_day,
			requires_attachment = excluded.requires_attachment,
			accrual_type = excluded.accrual_type,
			accrual_rate = excluded.accrual_rate,
			carry_over_allowed = excluded.carry_over_allowed,
			max_carry_over_days = excluded.max_carry_over_days,
			min_service_months = excluded.min_service_months,
			gender_restriction = excluded.gender_restriction,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`,
		string(lt.ID), lt.Name, string(lt.Category), lt.IsPaid, lt.SalaryPercentage,
		lt.MaxDaysPerYear.String(), lt.MinDaysPerRequest.String(), lt.MaxDaysPerRequest.String(),
		lt.AllowHalfDay, lt.RequiresAttachment, string(lt.AccrualType), lt.AccrualRate.String(),
		lt.CarryOverAllowed, lt.MaxCarryOverDays.String(), lt.MinServiceMonths,
		string(lt.GenderRestriction), lt.IsActive,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) TypeInUse(ctx context.Context, id leave.LeaveTypeID) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM requests WHERE leave_type_id = ?`, string(id)).Scan(&count)
	return count > 0, err
}

func (s *Store) DeleteLeaveType(ctx context.Context, id leave.LeaveTypeID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM leave_types WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return leave.ErrLeaveTypeNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLeaveType(row rowScanner) (*leave.LeaveType, error) {
	var lt leave.LeaveType
	var id, category, accrualType, genderRestriction string
	var maxYear, minReq, maxReq, rate, maxCarry string

	err := row.Scan(&id, &lt.Name, &category, &lt.IsPaid, &lt.SalaryPercentage,
		&maxYear, &minReq, &maxReq,
		&lt.AllowHalfDay, &lt.RequiresAttachment, &accrualType, &rate,
		&lt.CarryOverAllowed, &maxCarry, &lt.MinServiceMonths,
		&genderRestriction, &lt.IsActive)
	if err != nil {
		return nil, err
	}

	lt.ID = leave.LeaveTypeID(id)
	lt.Category = leave.LeaveCategory(category)
	lt.AccrualType = leave.AccrualType(accrualType)
	lt.GenderRestriction = leave.GenderRestriction(genderRestriction)

	for _, q := range []struct {
		dst *leave.Days
		src string
	}{
		{&lt.MaxDaysPerYear, maxYear},
		{&lt.MinDaysPerRequest, minReq},
		{&lt.MaxDaysPerRequest, maxReq},
		{&lt.AccrualRate, rate},
		{&lt.MaxCarryOverDays, maxCarry},
	} {
		d, err := leave.ParseDays(q.src)
		if err != nil {
			return nil, fmt.Errorf("corrupt day quantity %q: %w", q.src, err)
		}
		*q.dst = d
	}
	return &lt, nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) Employee(ctx context.Context, id leave.EmployeeID) (*leave.Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, gender, hire_date, approval_chain_json
		 FROM employees WHERE id = ?`, string(id))
	e, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, leave.ErrEmployeeNotFound
	}
	return e, err
}

func (s *Store) Employees(ctx context.Context) ([]*leave.Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, gender, hire_date, approval_chain_json
		 FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*leave.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (s *Store) SaveEmployee(ctx context.Context, e *leave.Employee) error {
	chainJSON, err := json.Marshal(e.ApprovalChain)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, email, gender, hire_date, approval_chain_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			gender = excluded.gender,
			hire_date = excluded.hire_date,
			approval_chain_json = excluded.approval_chain_json,
			updated_at = excluded.updated_at`,
		string(e.ID), e.Name, e.Email, string(e.Gender), e.HireDate.String(),
		string(chainJSON), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func scanEmployee(row rowScanner) (*leave.Employee, error) {
	var e leave.Employee
	var id, gender, hireDate, chainJSON string
	var email sql.NullString

	if err := row.Scan(&id, &e.Name, &email, &gender, &hireDate, &chainJSON); err != nil {
		return nil, err
	}

	e.ID = leave.EmployeeID(id)
	e.Email = email.String
	e.Gender = leave.Gender(gender)

	d, err := leave.ParseDate(hireDate)
	if err != nil {
		return nil, fmt.Errorf("corrupt hire date: %w", err)
	}
	e.HireDate = d

	if err := json.Unmarshal([]byte(chainJSON), &e.ApprovalChain); err != nil {
		return nil, fmt.Errorf("corrupt approval chain: %w", err)
	}
	return &e, nil
}

// =============================================================================
// REQUESTS
// =============================================================================

const requestColumns = `id, employee_id, leave_type_id, start_date, end_date,
	is_half_day, half_day_period, total_days, reason, delegate_employee_id,
	attachments_json, status, approval_flow_json, current_step, version,
	created_at, updated_at`

func (s *Store) Request(ctx context.Context, id leave.RequestID) (*leave.LeaveRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE id = ?`, string(id))
	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, leave.ErrRequestNotFound
	}
	return req, err
}

func (s *Store) RequestsForBalance(ctx context.Context, employeeID leave.EmployeeID, typeID leave.LeaveTypeID, period leave.Period) ([]*leave.LeaveRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM requests
		 WHERE employee_id = ? AND leave_type_id = ?
		   AND start_date <= ? AND end_date >= ?
		 ORDER BY created_at, id`,
		string(employeeID), string(typeID), period.End.String(), period.Start.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (s *Store) RequestsByEmployee(ctx context.Context, employeeID leave.EmployeeID) ([]*leave.LeaveRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM requests
		 WHERE employee_id = ? ORDER BY created_at, id`, string(employeeID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (s *Store) PendingForApprover(ctx context.Context, approverID string) ([]*leave.LeaveRequest, error) {
	// The current approver lives inside the approval flow JSON; filter on
	// status in SQL and resolve the cursor in Go.
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM requests
		 WHERE status = 'pending' ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all, err := collectRequests(rows)
	if err != nil {
		return nil, err
	}
	var result []*leave.LeaveRequest
	for _, req := range all {
		if approver := req.CurrentApprover(); approver != nil && approver.ID == approverID {
			result = append(result, req)
		}
	}
	return result, nil
}

func (s *Store) SaveRequest(ctx context.Context, req *leave.LeaveRequest) error {
	flowJSON, err := json.Marshal(req.ApprovalFlow)
	if err != nil {
		return err
	}
	attachJSON, err := json.Marshal(req.Attachments)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO requests (`+requestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(req.ID), string(req.EmployeeID), string(req.LeaveTypeID),
		req.Span.Start.String(), req.Span.End.String(),
		req.IsHalfDay, string(req.HalfDayPeriod), req.TotalDays.String(),
		req.Reason, string(req.DelegateEmployeeID),
		string(attachJSON), string(req.Status), string(flowJSON),
		req.CurrentStep, req.Version,
		req.CreatedAt.UTC().Format(time.RFC3339),
		req.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) UpdateRequest(ctx context.Context, req *leave.LeaveRequest, expectedVersion int) error {
	flowJSON, err := json.Marshal(req.ApprovalFlow)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE requests SET
			status = ?,
			approval_flow_json = ?,
			current_step = ?,
			version = version + 1,
			updated_at = ?
		WHERE id = ? AND version = ?`,
		string(req.Status), string(flowJSON), req.CurrentStep,
		req.UpdatedAt.UTC().Format(time.RFC3339),
		string(req.ID), expectedVersion,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Distinguish a missing request from a lost race.
		var exists int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM requests WHERE id = ?`, string(req.ID)).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return leave.ErrRequestNotFound
		}
		return leave.ErrConcurrentModification
	}
	req.Version = expectedVersion + 1
	return nil
}

func collectRequests(rows *sql.Rows) ([]*leave.LeaveRequest, error) {
	var result []*leave.LeaveRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

func scanRequest(row rowScanner) (*leave.LeaveRequest, error) {
	var req leave.LeaveRequest
	var id, employeeID, typeID, start, end, status string
	var halfDayPeriod, reason, delegateID sql.NullString
	var totalDays, attachJSON, flowJSON, createdAt, updatedAt string

	err := row.Scan(&id, &employeeID, &typeID, &start, &end,
		&req.IsHalfDay, &halfDayPeriod, &totalDays, &reason, &delegateID,
		&attachJSON, &status, &flowJSON, &req.CurrentStep, &req.Version,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	req.ID = leave.RequestID(id)
	req.EmployeeID = leave.EmployeeID(employeeID)
	req.LeaveTypeID = leave.LeaveTypeID(typeID)
	req.HalfDayPeriod = leave.HalfDayPeriod(halfDayPeriod.String)
	req.Reason = reason.String
	req.DelegateEmployeeID = leave.EmployeeID(delegateID.String)
	req.Status = leave.RequestStatus(status)

	startDate, err := leave.ParseDate(start)
	if err != nil {
		return nil, fmt.Errorf("corrupt start date: %w", err)
	}
	endDate, err := leave.ParseDate(end)
	if err != nil {
		return nil, fmt.Errorf("corrupt end date: %w", err)
	}
	req.Span = leave.DateSpan{Start: startDate, End: endDate}

	days, err := leave.ParseDays(totalDays)
	if err != nil {
		return nil, fmt.Errorf("corrupt total days: %w", err)
	}
	req.TotalDays = days

	if err := json.Unmarshal([]byte(attachJSON), &req.Attachments); err != nil {
		return nil, fmt.Errorf("corrupt attachments: %w", err)
	}
	if err := json.Unmarshal([]byte(flowJSON), &req.ApprovalFlow); err != nil {
		return nil, fmt.Errorf("corrupt approval flow: %w", err)
	}

	if req.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("corrupt created_at: %w", err)
	}
	if req.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("corrupt updated_at: %w", err)
	}
	return &req, nil
}

// =============================================================================
// CARRY-OVER RECORDS
// =============================================================================

func (s *Store) CarryOver(ctx context.Context, employeeID leave.EmployeeID, typeID leave.LeaveTypeID, year int) (*leave.CarryOverRecord, error) {
	var days, closedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT days, closed_at FROM carry_overs
		 WHERE employee_id = ? AND leave_type_id = ? AND year = ?`,
		string(employeeID), string(typeID), year).Scan(&days, &closedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	d, err := leave.ParseDays(days)
	if err != nil {
		return nil, fmt.Errorf("corrupt carry-over days: %w", err)
	}
	closed, err := leave.ParseDate(closedAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt carry-over date: %w", err)
	}
	return &leave.CarryOverRecord{
		EmployeeID:  employeeID,
		LeaveTypeID: typeID,
		Year:        year,
		Days:        d,
		ClosedAt:    closed,
	}, nil
}

func (s *Store) SaveCarryOver(ctx context.Context, rec leave.CarryOverRecord) error {
	// First writer wins: carry-over is frozen once.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO carry_overs (employee_id, leave_type_id, year, days, closed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, leave_type_id, year) DO NOTHING`,
		string(rec.EmployeeID), string(rec.LeaveTypeID), rec.Year,
		rec.Days.String(), rec.ClosedAt.String(),
	)
	return err
}
