package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock

// Repository is raw SQL: Create must surface the unique-index violation
// untranslated so the service can turn it into a conflict.
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	Update(ctx context.Context, a *Attendance) error
	FindByEmployeeAndDate(ctx context.Context, employeeID uuid.UUID, date time.Time) (*Attendance, error)
	ListForEmployeeBetween(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]Attendance, error)
	List(ctx context.Context, employeeIDs []string, from, to time.Time) ([]Attendance, error)
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

const attendanceColumns = `
	id, employee_id, date, status, marked_by, is_self_marked,
	COALESCE(correction_reason, ''), marked_at, corrected_at
`

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	query := `
        INSERT INTO attendance (
            id, employee_id, date, status, marked_by, is_self_marked,
            correction_reason, marked_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.execer().ExecContext(
		ctx, query,
		a.ID, a.EmployeeID, a.Date, a.Status, a.MarkedBy,
		a.IsSelfMarked, a.CorrectionReason, a.MarkedAt,
	)
	return err
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	query := `
        UPDATE attendance
        SET status = $2,
            marked_by = $3,
            is_self_marked = $4,
            correction_reason = $5,
            corrected_at = $6,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.execer().ExecContext(
		ctx, query,
		a.ID, a.Status, a.MarkedBy, a.IsSelfMarked, a.CorrectionReason, a.CorrectedAt,
	)
	return err
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID uuid.UUID, date time.Time) (*Attendance, error) {
	query := `
        SELECT ` + attendanceColumns + `
        FROM attendance
        WHERE employee_id = $1 AND date = $2
    `
	return scanAttendance(r.db.QueryRowContext(ctx, query, employeeID, date))
}

func (r *repository) ListForEmployeeBetween(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]Attendance, error) {
	query := `
        SELECT ` + attendanceColumns + `
        FROM attendance
        WHERE employee_id = $1 AND date BETWEEN $2 AND $3
        ORDER BY date ASC
    `
	rows, err := r.db.QueryContext(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttendances(rows)
}

// List returns records for the given owners in [from, to]. nil owners
// means no ownership filter; empty non-nil matches nothing.
func (r *repository) List(ctx context.Context, employeeIDs []string, from, to time.Time) ([]Attendance, error) {
	args := []any{from, to}
	query := `
        SELECT ` + attendanceColumns + `
        FROM attendance
        WHERE date BETWEEN $1 AND $2
    `
	if employeeIDs != nil {
		if len(employeeIDs) == 0 {
			return nil, nil
		}
		placeholders := make([]string, len(employeeIDs))
		for i, id := range employeeIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		query += " AND employee_id IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY date ASC, employee_id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttendances(rows)
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row rowScanner) (*Attendance, error) {
	var a Attendance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Date, &a.Status, &a.MarkedBy,
		&a.IsSelfMarked, &a.CorrectionReason, &a.MarkedAt, &a.CorrectedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanAttendances(rows *sql.Rows) ([]Attendance, error) {
	var records []Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *a)
	}
	return records, rows.Err()
}
