package balance

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock

// Repository is raw SQL throughout. Every method goes through the bound
// transaction when one is set, so the leave workflow can lock and mutate
// ledger rows atomically with the request status flip.
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	UpsertAllocated(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int, days decimal.Decimal) (*LeaveBalance, error)
	Find(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error)
	FindForUpdate(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error)
	ListForEmployee(ctx context.Context, employeeID uuid.UUID, year int) ([]LeaveBalance, error)
	UpdateUsed(ctx context.Context, id uuid.UUID, used decimal.Decimal) error
	UpdateAdjusted(ctx context.Context, id uuid.UUID, adjusted decimal.Decimal) error
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

const balanceColumns = `
	id, employee_id, leave_type_id, year, allocated, used, adjusted
`

func (r *repository) UpsertAllocated(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int, days decimal.Decimal) (*LeaveBalance, error) {
	query := `
        INSERT INTO leave_balances (id, employee_id, leave_type_id, year, allocated, used, adjusted)
        VALUES ($1, $2, $3, $4, $5, 0, 0)
        ON CONFLICT (employee_id, leave_type_id, year)
        DO UPDATE SET allocated = EXCLUDED.allocated, updated_at = NOW()
        RETURNING ` + balanceColumns

	row := r.querier().QueryRowContext(ctx, query, uuid.New(), employeeID, leaveTypeID, year, days)
	return scanBalance(row)
}

func (r *repository) Find(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error) {
	query := `
        SELECT ` + balanceColumns + `
        FROM leave_balances
        WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
    `
	row := r.querier().QueryRowContext(ctx, query, employeeID, leaveTypeID, year)
	return scanBalance(row)
}

// FindForUpdate locks the ledger row for the remainder of the bound
// transaction. Concurrent approvals on the same tuple serialize here.
func (r *repository) FindForUpdate(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error) {
	query := `
        SELECT ` + balanceColumns + `
        FROM leave_balances
        WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
        FOR UPDATE
    `
	row := r.querier().QueryRowContext(ctx, query, employeeID, leaveTypeID, year)
	return scanBalance(row)
}

func (r *repository) ListForEmployee(ctx context.Context, employeeID uuid.UUID, year int) ([]LeaveBalance, error) {
	query := `
        SELECT ` + balanceColumns + `
        FROM leave_balances
        WHERE employee_id = $1 AND year = $2
        ORDER BY leave_type_id
    `
	rows, err := r.querier().QueryContext(ctx, query, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []LeaveBalance
	for rows.Next() {
		var b LeaveBalance
		if err := rows.Scan(
			&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
			&b.Allocated, &b.Used, &b.Adjusted,
		); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (r *repository) UpdateUsed(ctx context.Context, id uuid.UUID, used decimal.Decimal) error {
	query := `UPDATE leave_balances SET used = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.querier().ExecContext(ctx, query, id, used)
	return err
}

func (r *repository) UpdateAdjusted(ctx context.Context, id uuid.UUID, adjusted decimal.Decimal) error {
	query := `UPDATE leave_balances SET adjusted = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.querier().ExecContext(ctx, query, id, adjusted)
	return err
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

func scanBalance(row *sql.Row) (*LeaveBalance, error) {
	var b LeaveBalance
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
		&b.Allocated, &b.Used, &b.Adjusted,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
