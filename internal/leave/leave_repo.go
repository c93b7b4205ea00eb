package leave

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock

// Repository is raw SQL throughout: the lifecycle writes must share a
// transaction with the balance ledger, and the overlap and locking queries
// do not map onto the ORM.
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, lr *LeaveRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	HasOverlap(ctx context.Context, employeeID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, approvedBy *uuid.UUID, comment string) error
	List(ctx context.Context, employeeIDs []string, filter ListLeaveFilter) ([]LeaveRequest, error)
	ListPendingForApprover(ctx context.Context, approverID uuid.UUID) ([]LeaveRequest, error)
	ListPendingAll(ctx context.Context) ([]LeaveRequest, error)
	TeamCalendar(ctx context.Context, managerID uuid.UUID, from, to time.Time) ([]LeaveRequest, error)
	ApprovedPeriods(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]Period, error)
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

const leaveColumns = `
	id, employee_id, leave_type_id, start_date, end_date, total_days, reason,
	COALESCE(attachment_path, ''), status, applied_at, approved_by, decision_at,
	COALESCE(manager_comments, '')
`

func (r *repository) Create(ctx context.Context, lr *LeaveRequest) error {
	query := `
        INSERT INTO leave_requests (
            id, employee_id, leave_type_id, start_date, end_date, total_days,
            reason, attachment_path, status, applied_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err := r.querier().ExecContext(
		ctx, query,
		lr.ID, lr.EmployeeID, lr.LeaveTypeID, lr.StartDate, lr.EndDate,
		lr.TotalDays, lr.Reason, lr.AttachmentPath, lr.Status, lr.AppliedAt,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	query := `SELECT ` + leaveColumns + ` FROM leave_requests WHERE id = $1`
	return scanLeave(r.querier().QueryRowContext(ctx, query, id))
}

// FindByIDForUpdate locks the request row so two concurrent decisions on
// the same request serialize before either reads the status.
func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	query := `SELECT ` + leaveColumns + ` FROM leave_requests WHERE id = $1 FOR UPDATE`
	return scanLeave(r.querier().QueryRowContext(ctx, query, id))
}

// HasOverlap reports whether any PENDING or APPROVED request of the
// employee intersects [start, end]. excludeID skips the request being
// edited; pass uuid.Nil on a fresh application.
func (r *repository) HasOverlap(ctx context.Context, employeeID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM leave_requests
            WHERE employee_id = $1
              AND status IN ($2, $3)
              AND NOT (end_date < $4 OR start_date > $5)
              AND id <> $6
        )
    `
	var exists bool
	err := r.querier().QueryRowContext(
		ctx, query,
		employeeID, StatusPending, StatusApproved, start, end, excludeID,
	).Scan(&exists)
	return exists, err
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, approvedBy *uuid.UUID, comment string) error {
	query := `
        UPDATE leave_requests
        SET status = $2,
            approved_by = $3,
            decision_at = NOW(),
            manager_comments = $4,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.querier().ExecContext(ctx, query, id, status, approvedBy, comment)
	return err
}

// List returns requests owned by any of employeeIDs, newest first. A nil
// slice means no ownership filter (ALL visibility); an empty non-nil slice
// matches nothing.
func (r *repository) List(ctx context.Context, employeeIDs []string, filter ListLeaveFilter) ([]LeaveRequest, error) {
	var (
		conds []string
		args  []any
	)
	if employeeIDs != nil {
		if len(employeeIDs) == 0 {
			return nil, nil
		}
		placeholders := make([]string, len(employeeIDs))
		for i, id := range employeeIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conds = append(conds, "employee_id IN ("+strings.Join(placeholders, ", ")+")")
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + leaveColumns + ` FROM leave_requests`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY applied_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.querier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeaves(rows)
}

func (r *repository) ListPendingForApprover(ctx context.Context, approverID uuid.UUID) ([]LeaveRequest, error) {
	query := `
        SELECT ` + leaveColumnsPrefixed("lr") + `
        FROM leave_requests lr
        JOIN employees e ON e.id = lr.employee_id
        WHERE lr.status = $1 AND e.reporting_manager_id = $2
        ORDER BY lr.applied_at ASC
    `
	rows, err := r.querier().QueryContext(ctx, query, StatusPending, approverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeaves(rows)
}

func (r *repository) ListPendingAll(ctx context.Context) ([]LeaveRequest, error) {
	query := `
        SELECT ` + leaveColumns + `
        FROM leave_requests
        WHERE status = $1
        ORDER BY applied_at ASC
    `
	rows, err := r.querier().QueryContext(ctx, query, StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeaves(rows)
}

// TeamCalendar returns the approved requests of the manager's direct
// reports that intersect [from, to].
func (r *repository) TeamCalendar(ctx context.Context, managerID uuid.UUID, from, to time.Time) ([]LeaveRequest, error) {
	query := `
        SELECT ` + leaveColumnsPrefixed("lr") + `
        FROM leave_requests lr
        JOIN employees e ON e.id = lr.employee_id
        WHERE lr.status = $1
          AND e.reporting_manager_id = $2
          AND NOT (lr.end_date < $3 OR lr.start_date > $4)
        ORDER BY lr.start_date ASC
    `
	rows, err := r.querier().QueryContext(ctx, query, StatusApproved, managerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeaves(rows)
}

func (r *repository) ApprovedPeriods(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]Period, error) {
	query := `
        SELECT start_date, end_date
        FROM leave_requests
        WHERE employee_id = $1
          AND status = $2
          AND NOT (end_date < $3 OR start_date > $4)
        ORDER BY start_date ASC
    `
	rows, err := r.querier().QueryContext(ctx, query, employeeID, StatusApproved, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []Period
	for rows.Next() {
		var p Period
		if err := rows.Scan(&p.Start, &p.End); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

type querier interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func (r *repository) querier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func leaveColumnsPrefixed(alias string) string {
	return alias + `.id, ` + alias + `.employee_id, ` + alias + `.leave_type_id, ` +
		alias + `.start_date, ` + alias + `.end_date, ` + alias + `.total_days, ` +
		alias + `.reason, COALESCE(` + alias + `.attachment_path, ''), ` + alias + `.status, ` +
		alias + `.applied_at, ` + alias + `.approved_by, ` + alias + `.decision_at, ` +
		`COALESCE(` + alias + `.manager_comments, '')`
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLeave(row rowScanner) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.LeaveTypeID, &lr.StartDate, &lr.EndDate,
		&lr.TotalDays, &lr.Reason, &lr.AttachmentPath, &lr.Status, &lr.AppliedAt,
		&lr.ApprovedBy, &lr.DecisionAt, &lr.ManagerComments,
	)
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

func scanLeaves(rows *sql.Rows) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	for rows.Next() {
		lr, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *lr)
	}
	return requests, rows.Err()
}
