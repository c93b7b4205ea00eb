package attendance_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-leavetrack/internal/attendance"
	attendanceerrors "go-leavetrack/internal/attendance/errors"
	"go-leavetrack/internal/audit"
	"go-leavetrack/internal/domain"
	"go-leavetrack/internal/holiday"
	"go-leavetrack/internal/leave"
	"go-leavetrack/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttendanceRepo struct {
	createFn  func(ctx context.Context, a *attendance.Attendance) error
	updateFn  func(ctx context.Context, a *attendance.Attendance) error
	findFn    func(ctx context.Context, employeeID uuid.UUID, date time.Time) (*attendance.Attendance, error)
	betweenFn func(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]attendance.Attendance, error)

	created *attendance.Attendance
	updated *attendance.Attendance
}

func (r *fakeAttendanceRepo) WithTx(tx *sql.Tx) attendance.Repository { return r }

func (r *fakeAttendanceRepo) Create(ctx context.Context, a *attendance.Attendance) error {
	r.created = a
	if r.createFn != nil {
		return r.createFn(ctx, a)
	}
	return nil
}

func (r *fakeAttendanceRepo) Update(ctx context.Context, a *attendance.Attendance) error {
	r.updated = a
	if r.updateFn != nil {
		return r.updateFn(ctx, a)
	}
	return nil
}

func (r *fakeAttendanceRepo) FindByEmployeeAndDate(ctx context.Context, employeeID uuid.UUID, date time.Time) (*attendance.Attendance, error) {
	if r.findFn != nil {
		return r.findFn(ctx, employeeID, date)
	}
	return nil, sql.ErrNoRows
}

func (r *fakeAttendanceRepo) ListForEmployeeBetween(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]attendance.Attendance, error) {
	if r.betweenFn != nil {
		return r.betweenFn(ctx, employeeID, from, to)
	}
	return nil, nil
}

func (r *fakeAttendanceRepo) List(ctx context.Context, employeeIDs []string, from, to time.Time) ([]attendance.Attendance, error) {
	return nil, nil
}

type fakeCalendar struct {
	holidays map[string]string // date -> name
}

func (c *fakeCalendar) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	_, ok := c.holidays[date.Format(time.DateOnly)]
	return ok, nil
}

func (c *fakeCalendar) ListBetween(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for d, name := range c.holidays {
		day, err := time.Parse(time.DateOnly, d)
		if err != nil {
			return nil, err
		}
		if !day.Before(from) && !day.After(to) {
			out = append(out, holiday.Holiday{ID: uuid.New(), Name: name, Date: day})
		}
	}
	return out, nil
}

type fakePeriods struct {
	periods []leave.Period
}

func (p *fakePeriods) ApprovedPeriods(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]leave.Period, error) {
	return p.periods, nil
}

type fakeManagerResolver struct {
	managerOf map[string]string
}

func (f *fakeManagerResolver) ReportingManagerID(ctx context.Context, employeeID string) (string, error) {
	return f.managerOf[employeeID], nil
}

type fakeTeamResolver struct{}

func (fakeTeamResolver) DirectReportIDs(ctx context.Context, managerID string) ([]string, error) {
	return nil, nil
}

type spyRecorder struct {
	entries []audit.Entry
	txs     []*sql.Tx
	err     error
}

func (r *spyRecorder) Record(ctx context.Context, tx *sql.Tx, e audit.Entry) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	r.txs = append(r.txs, tx)
	return nil
}

type attendanceHarness struct {
	svc      attendance.Service
	mock     sqlmock.Sqlmock
	repo     *fakeAttendanceRepo
	calendar *fakeCalendar
	periods  *fakePeriods
	recorder *spyRecorder
}

func newAttendanceHarness(t *testing.T) *attendanceHarness {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := &attendanceHarness{
		mock:     mock,
		repo:     &fakeAttendanceRepo{},
		calendar: &fakeCalendar{holidays: map[string]string{}},
		periods:  &fakePeriods{},
		recorder: &spyRecorder{},
	}
	h.svc = attendance.NewService(attendance.Config{
		DB:       db,
		Repo:     h.repo,
		Holidays: h.calendar,
		Leaves:   h.periods,
		Resolver: &fakeManagerResolver{managerOf: map[string]string{}},
		Teams:    fakeTeamResolver{},
		Recorder: h.recorder,
	})
	return h
}

func todayStr() string {
	return time.Now().UTC().Format(time.DateOnly)
}

func TestAttendanceService_MarkSelf(t *testing.T) {
	ctx := context.Background()
	actor := domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleEmployee}

	t.Run("marks today", func(t *testing.T) {
		h := newAttendanceHarness(t)
		h.mock.ExpectBegin()
		h.mock.ExpectCommit()

		res, err := h.svc.MarkSelf(ctx, actor, attendance.MarkSelfRequest{
			Date: todayStr(), Status: attendance.StatusPresent,
		})
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusPresent, res.Status)
		assert.True(t, res.IsSelfMarked)
		require.Len(t, h.recorder.entries, 1)
		assert.Equal(t, audit.ActionAttendanceMarked, h.recorder.entries[0].Action)
		require.Len(t, h.recorder.txs, 1)
		assert.NotNil(t, h.recorder.txs[0])
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})

	t.Run("a failing audit write aborts the mark", func(t *testing.T) {
		h := newAttendanceHarness(t)
		h.recorder.err = errors.New("audit log unavailable")
		h.mock.ExpectBegin()
		h.mock.ExpectRollback()

		_, err := h.svc.MarkSelf(ctx, actor, attendance.MarkSelfRequest{
			Date: todayStr(), Status: attendance.StatusPresent,
		})
		require.Error(t, err)
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})

	t.Run("only today can be self-marked", func(t *testing.T) {
		h := newAttendanceHarness(t)

		yesterday := time.Now().UTC().AddDate(0, 0, -1).Format(time.DateOnly)
		_, err := h.svc.MarkSelf(ctx, actor, attendance.MarkSelfRequest{
			Date: yesterday, Status: attendance.StatusPresent,
		})
		assert.ErrorIs(t, err, attendanceerrors.ErrNotToday)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		h := newAttendanceHarness(t)

		_, err := h.svc.MarkSelf(ctx, actor, attendance.MarkSelfRequest{
			Date: todayStr(), Status: "NAPPING",
		})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidStatus)
	})

	t.Run("holidays cannot be self-marked", func(t *testing.T) {
		h := newAttendanceHarness(t)
		h.calendar.holidays[todayStr()] = "Founders Day"

		_, err := h.svc.MarkSelf(ctx, actor, attendance.MarkSelfRequest{
			Date: todayStr(), Status: attendance.StatusPresent,
		})
		assert.ErrorIs(t, err, attendanceerrors.ErrHolidayConflict)
	})

	t.Run("double marking maps to a conflict", func(t *testing.T) {
		h := newAttendanceHarness(t)
		h.repo.createFn = func(ctx context.Context, a *attendance.Attendance) error {
			return &pgconn.PgError{Code: "23505"}
		}
		h.mock.ExpectBegin()
		h.mock.ExpectRollback()

		_, err := h.svc.MarkSelf(ctx, actor, attendance.MarkSelfRequest{
			Date: todayStr(), Status: attendance.StatusPresent,
		})
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyMarked)
	})
}

func TestAttendanceService_MarkOrCorrect(t *testing.T) {
	ctx := context.Background()
	admin := domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleAdmin}
	empID := uuid.New()

	t.Run("admins only", func(t *testing.T) {
		h := newAttendanceHarness(t)

		manager := domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleManager}
		_, err := h.svc.MarkOrCorrect(ctx, manager, attendance.MarkOrCorrectRequest{
			EmployeeID: empID.String(), Date: "2026-03-02", Status: attendance.StatusPresent,
		})
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("overwriting demands a reason", func(t *testing.T) {
		h := newAttendanceHarness(t)
		h.repo.findFn = func(ctx context.Context, employeeID uuid.UUID, date time.Time) (*attendance.Attendance, error) {
			return &attendance.Attendance{ID: uuid.New(), EmployeeID: empID, Status: attendance.StatusAbsent}, nil
		}

		_, err := h.svc.MarkOrCorrect(ctx, admin, attendance.MarkOrCorrectRequest{
			EmployeeID: empID.String(), Date: "2026-03-02", Status: attendance.StatusPresent,
		})
		assert.ErrorIs(t, err, attendanceerrors.ErrCorrectionReasonRequired)
	})

	t.Run("overwrite is allowed on a holiday", func(t *testing.T) {
		h := newAttendanceHarness(t)
		h.calendar.holidays["2026-03-02"] = "Festival"
		h.repo.findFn = func(ctx context.Context, employeeID uuid.UUID, date time.Time) (*attendance.Attendance, error) {
			return &attendance.Attendance{ID: uuid.New(), EmployeeID: empID, Status: attendance.StatusAbsent}, nil
		}
		h.mock.ExpectBegin()
		h.mock.ExpectCommit()

		res, err := h.svc.MarkOrCorrect(ctx, admin, attendance.MarkOrCorrectRequest{
			EmployeeID: empID.String(), Date: "2026-03-02", Status: attendance.StatusPresent,
			Reason: "worked the festival shift",
		})
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusPresent, res.Status)
		assert.False(t, res.IsSelfMarked)
		assert.NotEmpty(t, res.CorrectedAt)
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})

	t.Run("fresh records still refuse holidays", func(t *testing.T) {
		h := newAttendanceHarness(t)
		h.calendar.holidays["2026-03-02"] = "Festival"

		_, err := h.svc.MarkOrCorrect(ctx, admin, attendance.MarkOrCorrectRequest{
			EmployeeID: empID.String(), Date: "2026-03-02", Status: attendance.StatusPresent,
		})
		assert.ErrorIs(t, err, attendanceerrors.ErrHolidayConflict)
	})

	t.Run("creates when no record exists", func(t *testing.T) {
		h := newAttendanceHarness(t)
		h.mock.ExpectBegin()
		h.mock.ExpectCommit()

		res, err := h.svc.MarkOrCorrect(ctx, admin, attendance.MarkOrCorrectRequest{
			EmployeeID: empID.String(), Date: "2026-03-03", Status: attendance.StatusWFH,
		})
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusWFH, res.Status)
		assert.False(t, res.IsSelfMarked)
		assert.Equal(t, admin.EmployeeID, res.MarkedBy)
		require.Len(t, h.recorder.txs, 1)
		assert.NotNil(t, h.recorder.txs[0])
	})
}

func TestAttendanceService_MonthlyView(t *testing.T) {
	ctx := context.Background()
	empID := uuid.New()
	actor := domain.Actor{EmployeeID: empID.String(), Role: domain.RoleEmployee}

	dayOf := func(res attendance.MonthlyViewResponse, date string) attendance.MonthlyDay {
		for _, d := range res.Days {
			if d.Date == date {
				return d
			}
		}
		return attendance.MonthlyDay{}
	}

	t.Run("recorded rows beat everything", func(t *testing.T) {
		h := newAttendanceHarness(t)
		// 2026-03-02 is a Monday with a stored row and a holiday on top.
		h.calendar.holidays["2026-03-02"] = "Festival"
		h.repo.betweenFn = func(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]attendance.Attendance, error) {
			return []attendance.Attendance{{
				EmployeeID: empID,
				Date:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
				Status:     attendance.StatusPresent,
			}}, nil
		}

		res, err := h.svc.MonthlyView(ctx, actor, "", 3, 2026)
		require.NoError(t, err)
		d := dayOf(res, "2026-03-02")
		assert.Equal(t, attendance.StatusPresent, d.Status)
		assert.False(t, d.Derived)
	})

	t.Run("holiday beats weekend beats leave beats absent", func(t *testing.T) {
		h := newAttendanceHarness(t)
		// Sunday 2026-03-01 is also a holiday; the holiday label wins.
		h.calendar.holidays["2026-03-01"] = "Festival"
		h.periods.periods = []leave.Period{{
			Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		}}

		res, err := h.svc.MonthlyView(ctx, actor, "", 3, 2026)
		require.NoError(t, err)

		assert.Equal(t, attendance.DerivedHoliday, dayOf(res, "2026-03-01").Status)
		assert.Equal(t, "Festival", dayOf(res, "2026-03-01").Note)
		// Saturday inside the leave period stays a weekend.
		assert.Equal(t, attendance.DerivedWeekend, dayOf(res, "2026-03-07").Status)
		// A plain weekday inside the period is on leave.
		assert.Equal(t, attendance.DerivedOnLeave, dayOf(res, "2026-03-03").Status)
		// Outside the period, no row, no holiday: absent.
		assert.Equal(t, attendance.StatusAbsent, dayOf(res, "2026-03-11").Status)
		assert.True(t, dayOf(res, "2026-03-11").Derived)
	})

	t.Run("month bounds are validated", func(t *testing.T) {
		h := newAttendanceHarness(t)

		_, err := h.svc.MonthlyView(ctx, actor, "", 13, 2026)
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidMonth)
	})

	t.Run("employees cannot view someone else's month", func(t *testing.T) {
		h := newAttendanceHarness(t)

		_, err := h.svc.MonthlyView(ctx, actor, uuid.New().String(), 3, 2026)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})
}
