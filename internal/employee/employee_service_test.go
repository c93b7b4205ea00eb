package employee_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-leavetrack/internal/audit"
	"go-leavetrack/internal/domain"
	"go-leavetrack/internal/employee"
	employeeerrors "go-leavetrack/internal/employee/errors"
	"go-leavetrack/internal/messaging/kafka"
	"go-leavetrack/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeEmployeeRepo struct {
	createFn func(ctx context.Context, e *employee.Employee) error

	// byID and managerOf drive FindByID and the reporting chain walk.
	byID      map[string]*employee.Employee
	managerOf map[string]string

	setActiveID string
}

func (r *fakeEmployeeRepo) WithTx(tx *sql.Tx) employee.Repository { return r }

func (r *fakeEmployeeRepo) Create(ctx context.Context, e *employee.Employee) error {
	if r.createFn != nil {
		return r.createFn(ctx, e)
	}
	return nil
}

func (r *fakeEmployeeRepo) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if e, ok := r.byID[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEmployeeRepo) FindByCode(ctx context.Context, code string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEmployeeRepo) FindAll(ctx context.Context, activeOnly bool) ([]employee.Employee, error) {
	return nil, nil
}

func (r *fakeEmployeeRepo) Update(ctx context.Context, e *employee.Employee) error { return nil }

func (r *fakeEmployeeRepo) SetActive(ctx context.Context, id string, active bool) error {
	r.setActiveID = id
	return nil
}

func (r *fakeEmployeeRepo) ReportingManagerID(ctx context.Context, employeeID string) (string, error) {
	return r.managerOf[employeeID], nil
}

func (r *fakeEmployeeRepo) DirectReportIDs(ctx context.Context, managerID string) ([]string, error) {
	return nil, nil
}

type stubOutbox struct {
	events []kafka.OutboxEvent
}

func (o *stubOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return o }
func (o *stubOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	o.events = append(o.events, event)
	return nil
}
func (o *stubOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (o *stubOutbox) MarkSent(ctx context.Context, id string) error                  { return nil }
func (o *stubOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

type stubRecorder struct {
	entries []audit.Entry
	txs     []*sql.Tx
	err     error
}

func (r *stubRecorder) Record(ctx context.Context, tx *sql.Tx, e audit.Entry) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	r.txs = append(r.txs, tx)
	return nil
}

type employeeHarness struct {
	svc      employee.Service
	mock     sqlmock.Sqlmock
	repo     *fakeEmployeeRepo
	outbox   *stubOutbox
	recorder *stubRecorder
}

func newEmployeeHarness(t *testing.T) *employeeHarness {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := &employeeHarness{
		mock:     mock,
		repo:     &fakeEmployeeRepo{byID: map[string]*employee.Employee{}, managerOf: map[string]string{}},
		outbox:   &stubOutbox{},
		recorder: &stubRecorder{},
	}
	h.svc = employee.NewService(db, h.repo, h.outbox, h.recorder)
	return h
}

func (h *employeeHarness) seed(e employee.Employee) *employee.Employee {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	h.repo.byID[e.ID.String()] = &e
	if e.ReportingManagerID != nil {
		h.repo.managerOf[e.ID.String()] = e.ReportingManagerID.String()
	}
	return h.repo.byID[e.ID.String()]
}

var adminActor = domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleAdmin}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("admins only", func(t *testing.T) {
		h := newEmployeeHarness(t)

		manager := domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleManager}
		_, err := h.svc.Create(ctx, manager, employee.CreateEmployeeRequest{
			Code: "E001", FullName: "A", Email: "a@x.io", Role: "EMPLOYEE", DateOfJoining: "2026-01-05",
		})
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("creates with outbox and audit in one transaction", func(t *testing.T) {
		h := newEmployeeHarness(t)
		h.mock.ExpectBegin()
		h.mock.ExpectCommit()

		res, err := h.svc.Create(ctx, adminActor, employee.CreateEmployeeRequest{
			Code: "E001", FullName: "Asha Rao", Email: "asha@x.io", Role: "EMPLOYEE", DateOfJoining: "2026-01-05",
		})
		require.NoError(t, err)
		assert.Equal(t, "E001", res.Code)
		assert.True(t, res.IsActive)
		require.Len(t, h.outbox.events, 1)
		assert.Equal(t, "employee.created", h.outbox.events[0].EventType)
		require.Len(t, h.recorder.entries, 1)
		assert.Equal(t, audit.ActionEmployeeCreated, h.recorder.entries[0].Action)
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})

	t.Run("duplicate code or email", func(t *testing.T) {
		h := newEmployeeHarness(t)
		h.repo.createFn = func(ctx context.Context, e *employee.Employee) error {
			return &pgconn.PgError{Code: "23505"}
		}
		h.mock.ExpectBegin()
		h.mock.ExpectRollback()

		_, err := h.svc.Create(ctx, adminActor, employee.CreateEmployeeRequest{
			Code: "E001", FullName: "Asha Rao", Email: "asha@x.io", Role: "EMPLOYEE", DateOfJoining: "2026-01-05",
		})
		assert.ErrorIs(t, err, employeeerrors.ErrDuplicateEmployee)
	})

	t.Run("bad joining date", func(t *testing.T) {
		h := newEmployeeHarness(t)

		_, err := h.svc.Create(ctx, adminActor, employee.CreateEmployeeRequest{
			Code: "E001", FullName: "Asha Rao", Email: "asha@x.io", Role: "EMPLOYEE", DateOfJoining: "05/01/2026",
		})
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidDateFormat)
	})

	t.Run("unknown manager", func(t *testing.T) {
		h := newEmployeeHarness(t)

		_, err := h.svc.Create(ctx, adminActor, employee.CreateEmployeeRequest{
			Code: "E001", FullName: "Asha Rao", Email: "asha@x.io", Role: "EMPLOYEE",
			DateOfJoining: "2026-01-05", ReportingManagerID: uuid.New().String(),
		})
		assert.ErrorIs(t, err, employeeerrors.ErrManagerNotFound)
	})
}

func TestEmployeeService_Update_ManagerValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("an employee cannot report to themself", func(t *testing.T) {
		h := newEmployeeHarness(t)
		e := h.seed(employee.Employee{Code: "E001", FullName: "Asha Rao", Email: "asha@x.io", Role: "EMPLOYEE", IsActive: true})

		_, err := h.svc.Update(ctx, adminActor, e.ID.String(), employee.UpdateEmployeeRequest{
			FullName: e.FullName, Email: e.Email, Role: e.Role,
			ReportingManagerID: e.ID.String(),
		})
		assert.ErrorIs(t, err, employeeerrors.ErrManagerIsSelf)
	})

	t.Run("a reporting cycle is rejected", func(t *testing.T) {
		h := newEmployeeHarness(t)
		// a reports to b; making b report to a would close the loop.
		a := h.seed(employee.Employee{Code: "A", FullName: "A", Email: "a@x.io", Role: "MANAGER", IsActive: true})
		b := h.seed(employee.Employee{Code: "B", FullName: "B", Email: "b@x.io", Role: "MANAGER", IsActive: true, ReportingManagerID: &a.ID})

		_, err := h.svc.Update(ctx, adminActor, a.ID.String(), employee.UpdateEmployeeRequest{
			FullName: a.FullName, Email: a.Email, Role: a.Role,
			ReportingManagerID: b.ID.String(),
		})
		assert.ErrorIs(t, err, employeeerrors.ErrManagerCycle)
	})

	t.Run("a valid chain passes", func(t *testing.T) {
		h := newEmployeeHarness(t)
		top := h.seed(employee.Employee{Code: "T", FullName: "T", Email: "t@x.io", Role: "ADMIN", IsActive: true})
		mid := h.seed(employee.Employee{Code: "M", FullName: "M", Email: "m@x.io", Role: "MANAGER", IsActive: true, ReportingManagerID: &top.ID})
		leaf := h.seed(employee.Employee{Code: "L", FullName: "L", Email: "l@x.io", Role: "EMPLOYEE", IsActive: true})

		h.mock.ExpectBegin()
		h.mock.ExpectCommit()

		res, err := h.svc.Update(ctx, adminActor, leaf.ID.String(), employee.UpdateEmployeeRequest{
			FullName: leaf.FullName, Email: leaf.Email, Role: leaf.Role,
			ReportingManagerID: mid.ID.String(),
		})
		require.NoError(t, err)
		assert.Equal(t, mid.ID.String(), res.ReportingManagerID)
		require.Len(t, h.recorder.txs, 1)
		assert.NotNil(t, h.recorder.txs[0])
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})

	t.Run("a failing audit write aborts the update", func(t *testing.T) {
		h := newEmployeeHarness(t)
		e := h.seed(employee.Employee{Code: "E001", FullName: "Asha Rao", Email: "asha@x.io", Role: "EMPLOYEE", IsActive: true})
		h.recorder.err = errors.New("audit log unavailable")

		h.mock.ExpectBegin()
		h.mock.ExpectRollback()

		_, err := h.svc.Update(ctx, adminActor, e.ID.String(), employee.UpdateEmployeeRequest{
			FullName: "Asha R", Email: e.Email, Role: e.Role,
		})
		require.Error(t, err)
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})
}

func TestEmployeeService_SetActive(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivating twice is an error", func(t *testing.T) {
		h := newEmployeeHarness(t)
		e := h.seed(employee.Employee{Code: "E001", FullName: "Asha Rao", Email: "asha@x.io", Role: "EMPLOYEE", IsActive: false})

		err := h.svc.Deactivate(ctx, adminActor, e.ID.String())
		assert.ErrorIs(t, err, employeeerrors.ErrAlreadyInactive)
	})

	t.Run("activating an active employee is an error", func(t *testing.T) {
		h := newEmployeeHarness(t)
		e := h.seed(employee.Employee{Code: "E001", FullName: "Asha Rao", Email: "asha@x.io", Role: "EMPLOYEE", IsActive: true})

		err := h.svc.Activate(ctx, adminActor, e.ID.String())
		assert.ErrorIs(t, err, employeeerrors.ErrAlreadyActive)
	})

	t.Run("deactivation emits the lifecycle event", func(t *testing.T) {
		h := newEmployeeHarness(t)
		e := h.seed(employee.Employee{Code: "E001", FullName: "Asha Rao", Email: "asha@x.io", Role: "EMPLOYEE", IsActive: true})

		h.mock.ExpectBegin()
		h.mock.ExpectCommit()

		err := h.svc.Deactivate(ctx, adminActor, e.ID.String())
		require.NoError(t, err)
		assert.Equal(t, e.ID.String(), h.repo.setActiveID)
		require.Len(t, h.outbox.events, 1)
		assert.Equal(t, "employee.deactivated", h.outbox.events[0].EventType)
		require.Len(t, h.recorder.entries, 1)
		assert.Equal(t, audit.ActionEmployeeDeactivated, h.recorder.entries[0].Action)
	})

	t.Run("unknown employee", func(t *testing.T) {
		h := newEmployeeHarness(t)

		err := h.svc.Deactivate(ctx, adminActor, uuid.New().String())
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}
