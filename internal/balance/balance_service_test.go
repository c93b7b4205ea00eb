package balance_test

import (
	"context"
	"database/sql"
	"testing"

	"go-leavetrack/internal/audit"
	"go-leavetrack/internal/balance"
	balanceerrors "go-leavetrack/internal/balance/errors"
	"go-leavetrack/internal/domain"
	"go-leavetrack/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopRecorder struct {
	entries []audit.Entry
}

func (r *noopRecorder) Record(ctx context.Context, tx *sql.Tx, e audit.Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

var balanceCols = []string{"id", "employee_id", "leave_type_id", "year", "allocated", "used", "adjusted"}

func newBalanceService(t *testing.T) (balance.Service, sqlmock.Sqlmock, *sql.DB, *noopRecorder) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rec := &noopRecorder{}
	svc := balance.NewService(db, balance.NewRepository(db), nil, rec)
	return svc, mock, db, rec
}

func TestLeaveBalance_Available(t *testing.T) {
	b := balance.LeaveBalance{
		Allocated: decimal.NewFromInt(12),
		Used:      decimal.NewFromInt(3),
		Adjusted:  decimal.NewFromInt(2),
	}
	assert.True(t, b.Available().Equal(decimal.NewFromInt(11)))
}

func TestBalanceService_DeductTx(t *testing.T) {
	ctx := context.Background()
	empID := uuid.New()
	typeID := uuid.New()
	rowID := uuid.New()

	t.Run("deducts when enough is available", func(t *testing.T) {
		svc, mock, db, _ := newBalanceService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WithArgs(empID, typeID, 2026).
			WillReturnRows(sqlmock.NewRows(balanceCols).
				AddRow(rowID, empID, typeID, 2026, "12.0", "2.0", "0.0"))
		mock.ExpectExec("UPDATE leave_balances SET used").
			WithArgs(rowID, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.Begin()
		require.NoError(t, err)

		err = svc.DeductTx(ctx, tx, empID, typeID, 2026, decimal.NewFromInt(3), true)
		assert.NoError(t, err)
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient available on a paid type", func(t *testing.T) {
		svc, mock, db, _ := newBalanceService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WithArgs(empID, typeID, 2026).
			WillReturnRows(sqlmock.NewRows(balanceCols).
				AddRow(rowID, empID, typeID, 2026, "2.0", "0.0", "0.0"))
		mock.ExpectRollback()

		tx, err := db.Begin()
		require.NoError(t, err)

		err = svc.DeductTx(ctx, tx, empID, typeID, 2026, decimal.NewFromInt(3), true)
		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
		assert.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row fails for paid types", func(t *testing.T) {
		svc, mock, db, _ := newBalanceService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WithArgs(empID, typeID, 2026).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		tx, err := db.Begin()
		require.NoError(t, err)

		err = svc.DeductTx(ctx, tx, empID, typeID, 2026, decimal.NewFromInt(1), true)
		assert.ErrorIs(t, err, balanceerrors.ErrBalanceNotFound)
		assert.NoError(t, tx.Rollback())
	})

	// Two deductions against one 5-day entitlement: the first commits, the
	// second reads the row after the lock is released, sees the reduced
	// balance, and fails.
	t.Run("back-to-back deductions serialize on the locked row", func(t *testing.T) {
		svc, mock, db, _ := newBalanceService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WithArgs(empID, typeID, 2026).
			WillReturnRows(sqlmock.NewRows(balanceCols).
				AddRow(rowID, empID, typeID, 2026, "5.0", "0.0", "0.0"))
		mock.ExpectExec("UPDATE leave_balances SET used").
			WithArgs(rowID, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WithArgs(empID, typeID, 2026).
			WillReturnRows(sqlmock.NewRows(balanceCols).
				AddRow(rowID, empID, typeID, 2026, "5.0", "4.0", "0.0"))
		mock.ExpectRollback()

		first, err := db.Begin()
		require.NoError(t, err)
		require.NoError(t, svc.DeductTx(ctx, first, empID, typeID, 2026, decimal.NewFromInt(4), true))
		require.NoError(t, first.Commit())

		second, err := db.Begin()
		require.NoError(t, err)
		err = svc.DeductTx(ctx, second, empID, typeID, 2026, decimal.NewFromInt(4), true)
		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
		require.NoError(t, second.Rollback())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is a no-op for unpaid types", func(t *testing.T) {
		svc, mock, db, _ := newBalanceService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WithArgs(empID, typeID, 2026).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectCommit()

		tx, err := db.Begin()
		require.NoError(t, err)

		err = svc.DeductTx(ctx, tx, empID, typeID, 2026, decimal.NewFromInt(1), false)
		assert.NoError(t, err)
		assert.NoError(t, tx.Commit())
	})
}

func TestBalanceService_RestoreTx(t *testing.T) {
	ctx := context.Background()
	empID := uuid.New()
	typeID := uuid.New()
	rowID := uuid.New()

	t.Run("used never drops below zero", func(t *testing.T) {
		svc, mock, db, _ := newBalanceService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WithArgs(empID, typeID, 2026).
			WillReturnRows(sqlmock.NewRows(balanceCols).
				AddRow(rowID, empID, typeID, 2026, "12.0", "1.0", "0.0"))
		mock.ExpectExec("UPDATE leave_balances SET used").
			WithArgs(rowID, decimal.Zero).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.Begin()
		require.NoError(t, err)

		err = svc.RestoreTx(ctx, tx, empID, typeID, 2026, decimal.NewFromInt(3))
		assert.NoError(t, err)
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is a no-op", func(t *testing.T) {
		svc, mock, db, _ := newBalanceService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WithArgs(empID, typeID, 2026).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectCommit()

		tx, err := db.Begin()
		require.NoError(t, err)

		err = svc.RestoreTx(ctx, tx, empID, typeID, 2026, decimal.NewFromInt(3))
		assert.NoError(t, err)
		assert.NoError(t, tx.Commit())
	})
}

func TestBalanceService_Allocate(t *testing.T) {
	ctx := context.Background()
	empID := uuid.New()
	typeID := uuid.New()
	rowID := uuid.New()
	admin := domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleAdmin}

	t.Run("rejected for non-admin actors", func(t *testing.T) {
		svc, _, _, _ := newBalanceService(t)

		actor := domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleManager}
		_, err := svc.Allocate(ctx, actor, balance.AllocateBalanceRequest{
			EmployeeID: empID.String(), LeaveTypeID: typeID.String(), Year: 2026, Days: 12,
		})
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("rejected for negative days", func(t *testing.T) {
		svc, _, _, _ := newBalanceService(t)

		_, err := svc.Allocate(ctx, admin, balance.AllocateBalanceRequest{
			EmployeeID: empID.String(), LeaveTypeID: typeID.String(), Year: 2026, Days: -1,
		})
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidBalanceInput)
	})

	t.Run("zero days revokes the entitlement", func(t *testing.T) {
		svc, mock, _, _ := newBalanceService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO leave_balances").
			WillReturnRows(sqlmock.NewRows(balanceCols).
				AddRow(rowID, empID, typeID, 2026, "0.0", "0.0", "0.0"))
		mock.ExpectCommit()

		res, err := svc.Allocate(ctx, admin, balance.AllocateBalanceRequest{
			EmployeeID: empID.String(), LeaveTypeID: typeID.String(), Year: 2026, Days: 0,
		})
		require.NoError(t, err)
		assert.Equal(t, "0.0", res.Allocated)
		assert.Equal(t, "0.0", res.Available)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("upserts and records an audit entry", func(t *testing.T) {
		svc, mock, _, rec := newBalanceService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO leave_balances").
			WillReturnRows(sqlmock.NewRows(balanceCols).
				AddRow(rowID, empID, typeID, 2026, "12.0", "0.0", "0.0"))
		mock.ExpectCommit()

		res, err := svc.Allocate(ctx, admin, balance.AllocateBalanceRequest{
			EmployeeID: empID.String(), LeaveTypeID: typeID.String(), Year: 2026, Days: 12,
		})
		assert.NoError(t, err)
		assert.Equal(t, "12.0", res.Allocated)
		assert.Equal(t, "12.0", res.Available)
		require.Len(t, rec.entries, 1)
		assert.Equal(t, audit.ActionBalanceAllocated, rec.entries[0].Action)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBalanceService_Adjust(t *testing.T) {
	ctx := context.Background()
	admin := domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleAdmin}

	t.Run("reason is mandatory", func(t *testing.T) {
		svc, _, _, _ := newBalanceService(t)

		_, err := svc.Adjust(ctx, admin, balance.AdjustBalanceRequest{
			EmployeeID:  uuid.New().String(),
			LeaveTypeID: uuid.New().String(),
			Year:        2026,
			Delta:       -2,
		})
		assert.ErrorIs(t, err, balanceerrors.ErrAdjustReasonRequired)
	})

	t.Run("unknown ledger row maps to not found", func(t *testing.T) {
		svc, mock, _, _ := newBalanceService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := svc.Adjust(ctx, admin, balance.AdjustBalanceRequest{
			EmployeeID:  uuid.New().String(),
			LeaveTypeID: uuid.New().String(),
			Year:        2026,
			Delta:       2,
			Reason:      "carry forward",
		})
		assert.ErrorIs(t, err, balanceerrors.ErrBalanceNotFound)
	})
}
