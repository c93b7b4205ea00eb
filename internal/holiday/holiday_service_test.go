package holiday_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-leavetrack/internal/audit"
	"go-leavetrack/internal/domain"
	"go-leavetrack/internal/holiday"
	holidayerrors "go-leavetrack/internal/holiday/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHolidayRepo struct {
	createFn      func(ctx context.Context, h *holiday.Holiday) error
	findByIDFn    func(ctx context.Context, id string) (*holiday.Holiday, error)
	findByYearFn  func(ctx context.Context, year int) ([]holiday.Holiday, error)
	findBetweenFn func(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error)
	existsFn      func(ctx context.Context, date time.Time) (bool, error)

	findByYearCalls int
}

func (r *fakeHolidayRepo) WithTx(tx *sql.Tx) holiday.Repository { return r }

func (r *fakeHolidayRepo) Create(ctx context.Context, h *holiday.Holiday) error {
	if r.createFn != nil {
		return r.createFn(ctx, h)
	}
	return nil
}

func (r *fakeHolidayRepo) FindByID(ctx context.Context, id string) (*holiday.Holiday, error) {
	return r.findByIDFn(ctx, id)
}

func (r *fakeHolidayRepo) FindByDate(ctx context.Context, date time.Time) (*holiday.Holiday, error) {
	return nil, nil
}

func (r *fakeHolidayRepo) FindByYear(ctx context.Context, year int) ([]holiday.Holiday, error) {
	r.findByYearCalls++
	if r.findByYearFn != nil {
		return r.findByYearFn(ctx, year)
	}
	return nil, nil
}

func (r *fakeHolidayRepo) FindBetween(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error) {
	if r.findBetweenFn != nil {
		return r.findBetweenFn(ctx, from, to)
	}
	return nil, nil
}

func (r *fakeHolidayRepo) ExistsOnDate(ctx context.Context, date time.Time) (bool, error) {
	if r.existsFn != nil {
		return r.existsFn(ctx, date)
	}
	return false, nil
}

func (r *fakeHolidayRepo) Update(ctx context.Context, h *holiday.Holiday) error { return nil }
func (r *fakeHolidayRepo) Delete(ctx context.Context, id string) error          { return nil }

type nullRecorder struct{}

func (nullRecorder) Record(ctx context.Context, tx *sql.Tx, e audit.Entry) error { return nil }

type failRecorder struct{ err error }

func (r failRecorder) Record(ctx context.Context, tx *sql.Tx, e audit.Entry) error { return r.err }

func newHolidayDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestHolidayService_Create(t *testing.T) {
	ctx := context.Background()
	admin := domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleAdmin}

	t.Run("creates and drops the year cache", func(t *testing.T) {
		db, dbmock := newHolidayDB(t)
		dbmock.ExpectBegin()
		dbmock.ExpectCommit()
		rdb, rmock := redismock.NewClientMock()
		rmock.ExpectDel("holidays:year:2026").SetVal(1)

		repo := &fakeHolidayRepo{}
		svc := holiday.NewService(db, repo, rdb, nullRecorder{})

		res, err := svc.Create(ctx, admin, holiday.CreateHolidayRequest{
			Name: "Republic Day", Date: "2026-01-26",
		})
		require.NoError(t, err)
		assert.Equal(t, "Republic Day", res.Name)
		assert.Equal(t, "2026-01-26", res.Date)
		assert.NoError(t, rmock.ExpectationsWereMet())
		assert.NoError(t, dbmock.ExpectationsWereMet())
	})

	t.Run("duplicate date maps to a conflict", func(t *testing.T) {
		db, dbmock := newHolidayDB(t)
		dbmock.ExpectBegin()
		dbmock.ExpectRollback()
		rdb, _ := redismock.NewClientMock()
		repo := &fakeHolidayRepo{
			createFn: func(ctx context.Context, h *holiday.Holiday) error {
				return &pgconn.PgError{Code: "23505"}
			},
		}
		svc := holiday.NewService(db, repo, rdb, nullRecorder{})

		_, err := svc.Create(ctx, admin, holiday.CreateHolidayRequest{
			Name: "Republic Day", Date: "2026-01-26",
		})
		assert.ErrorIs(t, err, holidayerrors.ErrDuplicateDate)
	})

	t.Run("a failing audit write aborts the create", func(t *testing.T) {
		db, dbmock := newHolidayDB(t)
		dbmock.ExpectBegin()
		dbmock.ExpectRollback()
		rdb, rmock := redismock.NewClientMock()

		svc := holiday.NewService(db, &fakeHolidayRepo{}, rdb, failRecorder{err: errors.New("audit log unavailable")})

		_, err := svc.Create(ctx, admin, holiday.CreateHolidayRequest{
			Name: "Republic Day", Date: "2026-01-26",
		})
		require.Error(t, err)
		// No commit, so the cache must not be invalidated either.
		assert.NoError(t, rmock.ExpectationsWereMet())
		assert.NoError(t, dbmock.ExpectationsWereMet())
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		db, _ := newHolidayDB(t)
		rdb, _ := redismock.NewClientMock()
		svc := holiday.NewService(db, &fakeHolidayRepo{}, rdb, nullRecorder{})

		_, err := svc.Create(ctx, admin, holiday.CreateHolidayRequest{
			Name: "Oops", Date: "26-01-2026",
		})
		assert.ErrorIs(t, err, holidayerrors.ErrInvalidDateFormat)
	})
}

func TestHolidayService_ListForYear(t *testing.T) {
	ctx := context.Background()
	stored := []holiday.Holiday{
		{ID: uuid.New(), Name: "Republic Day", Date: time.Date(2026, 1, 26, 0, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), Name: "Independence Day", Date: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)},
	}

	t.Run("cache hit skips the repository", func(t *testing.T) {
		cached := []holiday.HolidayResponse{{ID: stored[0].ID.String(), Name: "Republic Day", Date: "2026-01-26"}}
		payload, err := json.Marshal(cached)
		require.NoError(t, err)

		db, _ := newHolidayDB(t)
		rdb, rmock := redismock.NewClientMock()
		rmock.ExpectGet("holidays:year:2026").SetVal(string(payload))

		repo := &fakeHolidayRepo{}
		svc := holiday.NewService(db, repo, rdb, nullRecorder{})

		res, err := svc.ListForYear(ctx, 2026)
		require.NoError(t, err)
		assert.Equal(t, cached, res)
		assert.Zero(t, repo.findByYearCalls)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("cache miss fills from the repository", func(t *testing.T) {
		repo := &fakeHolidayRepo{
			findByYearFn: func(ctx context.Context, year int) ([]holiday.Holiday, error) {
				return stored, nil
			},
		}

		db, _ := newHolidayDB(t)
		rdb, rmock := redismock.NewClientMock()
		rmock.ExpectGet("holidays:year:2026").RedisNil()
		rmock.Regexp().ExpectSet("holidays:year:2026", `.*Republic Day.*`, 30*time.Minute).SetVal("OK")

		svc := holiday.NewService(db, repo, rdb, nullRecorder{})

		res, err := svc.ListForYear(ctx, 2026)
		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.Equal(t, 1, repo.findByYearCalls)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("out-of-range year", func(t *testing.T) {
		db, _ := newHolidayDB(t)
		rdb, _ := redismock.NewClientMock()
		svc := holiday.NewService(db, &fakeHolidayRepo{}, rdb, nullRecorder{})

		_, err := svc.ListForYear(ctx, 123)
		assert.ErrorIs(t, err, holidayerrors.ErrInvalidYear)
	})
}

func TestHolidayService_WorkingDaysBetween(t *testing.T) {
	ctx := context.Background()
	// Mon 2026-03-02 through Sun 2026-03-08: seven days, one holiday on the
	// Tuesday, one weekend.
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	repo := &fakeHolidayRepo{
		findBetweenFn: func(ctx context.Context, f, t time.Time) ([]holiday.Holiday, error) {
			return []holiday.Holiday{{Name: "Festival", Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)}}, nil
		},
	}
	db, _ := newHolidayDB(t)
	rdb, _ := redismock.NewClientMock()
	svc := holiday.NewService(db, repo, rdb, nullRecorder{})

	t.Run("weekends excluded", func(t *testing.T) {
		n, err := svc.WorkingDaysBetween(ctx, from, to, false)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})

	t.Run("weekends included", func(t *testing.T) {
		n, err := svc.WorkingDaysBetween(ctx, from, to, true)
		require.NoError(t, err)
		assert.Equal(t, 6, n)
	})

	t.Run("inverted range is empty", func(t *testing.T) {
		n, err := svc.WorkingDaysBetween(ctx, to, from, false)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}

func TestHolidayService_Delete(t *testing.T) {
	ctx := context.Background()
	admin := domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleAdmin}

	t.Run("invalid id", func(t *testing.T) {
		db, _ := newHolidayDB(t)
		rdb, _ := redismock.NewClientMock()
		svc := holiday.NewService(db, &fakeHolidayRepo{}, rdb, nullRecorder{})

		err := svc.Delete(ctx, admin, "nope")
		assert.ErrorIs(t, err, holidayerrors.ErrInvalidHolidayID)
	})

	t.Run("deletes and drops the year cache", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeHolidayRepo{
			findByIDFn: func(ctx context.Context, _ string) (*holiday.Holiday, error) {
				return &holiday.Holiday{ID: id, Name: "Festival", Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)}, nil
			},
		}
		db, dbmock := newHolidayDB(t)
		dbmock.ExpectBegin()
		dbmock.ExpectCommit()
		rdb, rmock := redismock.NewClientMock()
		rmock.ExpectDel("holidays:year:2026").SetVal(1)

		svc := holiday.NewService(db, repo, rdb, nullRecorder{})
		require.NoError(t, svc.Delete(ctx, admin, id.String()))
		assert.NoError(t, rmock.ExpectationsWereMet())
		assert.NoError(t, dbmock.ExpectationsWereMet())
	})
}
