package holiday

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-leavetrack/internal/audit"
	"go-leavetrack/internal/domain"
	holidayerrors "go-leavetrack/internal/holiday/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	yearCacheKeyPrefix = "holidays:year:"
	yearCacheTTL       = 30 * time.Minute
)

func yearCacheKey(year int) string {
	return fmt.Sprintf("%s%d", yearCacheKeyPrefix, year)
}

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateHolidayRequest) (HolidayResponse, error)
	Update(ctx context.Context, actor domain.Actor, id string, req UpdateHolidayRequest) (HolidayResponse, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	ListForYear(ctx context.Context, year int) ([]HolidayResponse, error)
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]Holiday, error)
	WorkingDaysBetween(ctx context.Context, from, to time.Time, includeWeekends bool) (int, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	rdb      *redis.Client
	recorder audit.Recorder
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, recorder audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		rdb:      rdb,
		recorder: recorder,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateHolidayRequest) (HolidayResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return HolidayResponse{}, err
	}

	createdBy, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidHolidayID
	}

	h := &Holiday{
		ID:          uuid.New(),
		Name:        req.Name,
		Date:        date,
		Description: req.Description,
		IsOptional:  req.IsOptional,
		CreatedBy:   &createdBy,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HolidayResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, h); err != nil {
		s.logger.Warn("create holiday failed", zap.String("date", req.Date), zap.Error(err))
		return HolidayResponse{}, mapRepositoryError(err)
	}

	err = s.recordAudit(ctx, tx, actor, audit.ActionHolidayCreated, h.ID.String(),
		fmt.Sprintf("Created holiday %q on %s", h.Name, req.Date),
		map[string]any{"name": h.Name, "date": req.Date, "is_optional": h.IsOptional},
	)
	if err != nil {
		return HolidayResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return HolidayResponse{}, err
	}

	s.invalidateYear(ctx, date.Year())
	s.logger.Info("holiday created", zap.String("holiday_id", h.ID.String()), zap.String("date", req.Date))
	return mapToResponse(*h), nil
}

func (s *service) Update(ctx context.Context, actor domain.Actor, id string, req UpdateHolidayRequest) (HolidayResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidHolidayID
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return HolidayResponse{}, err
	}

	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return HolidayResponse{}, mapRepositoryError(err)
	}

	oldYear := h.Date.Year()
	before := map[string]any{"name": h.Name, "date": h.Date.Format(time.DateOnly), "is_optional": h.IsOptional}

	h.Name = req.Name
	h.Date = date
	h.Description = req.Description
	h.IsOptional = req.IsOptional

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HolidayResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Update(ctx, h); err != nil {
		return HolidayResponse{}, mapRepositoryError(err)
	}

	err = s.recordAudit(ctx, tx, actor, audit.ActionHolidayUpdated, h.ID.String(),
		fmt.Sprintf("Updated holiday %q", h.Name),
		map[string]any{"before": before, "after": map[string]any{"name": h.Name, "date": req.Date, "is_optional": h.IsOptional}},
	)
	if err != nil {
		return HolidayResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return HolidayResponse{}, err
	}

	s.invalidateYear(ctx, oldYear)
	s.invalidateYear(ctx, date.Year())
	return mapToResponse(*h), nil
}

// Delete removes a holiday unconditionally; attendance rows on the date
// stay valid.
func (s *service) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return holidayerrors.ErrInvalidHolidayID
	}

	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	err = s.recordAudit(ctx, tx, actor, audit.ActionHolidayDeleted, id,
		fmt.Sprintf("Deleted holiday %q on %s", h.Name, h.Date.Format(time.DateOnly)),
		map[string]any{"name": h.Name, "date": h.Date.Format(time.DateOnly)},
	)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateYear(ctx, h.Date.Year())
	s.logger.Info("holiday deleted", zap.String("holiday_id", id))
	return nil
}

func (s *service) ListForYear(ctx context.Context, year int) ([]HolidayResponse, error) {
	if year < 1900 || year > 9999 {
		return nil, holidayerrors.ErrInvalidYear
	}

	key := yearCacheKey(year)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp []HolidayResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	// singleflight collapses concurrent fills for the same year.
	v, err, _ := s.sf.Do(key, func() (any, error) {
		holidays, err := s.repo.FindByYear(ctx, year)
		if err != nil {
			return nil, err
		}
		resp := make([]HolidayResponse, len(holidays))
		for i, h := range holidays {
			resp[i] = mapToResponse(h)
		}
		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, key, string(payload), yearCacheTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]HolidayResponse), nil
}

func (s *service) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	return s.repo.ExistsOnDate(ctx, normalizeDate(date))
}

func (s *service) ListBetween(ctx context.Context, from, to time.Time) ([]Holiday, error) {
	return s.repo.FindBetween(ctx, normalizeDate(from), normalizeDate(to))
}

// WorkingDaysBetween counts days in [from,to] minus holidays, optionally
// minus weekends.
func (s *service) WorkingDaysBetween(ctx context.Context, from, to time.Time, includeWeekends bool) (int, error) {
	from, to = normalizeDate(from), normalizeDate(to)
	if from.After(to) {
		return 0, nil
	}

	total := int(to.Sub(from).Hours()/24) + 1

	holidays, err := s.repo.FindBetween(ctx, from, to)
	if err != nil {
		return 0, err
	}
	working := total - len(holidays)

	if !includeWeekends {
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
				working--
			}
		}
	}

	if working < 0 {
		working = 0
	}
	return working, nil
}

func (s *service) invalidateYear(ctx context.Context, year int) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, yearCacheKey(year)).Err(); err != nil {
		s.logger.Warn("holiday cache invalidation failed", zap.Int("year", year), zap.Error(err))
	}
}

func (s *service) recordAudit(ctx context.Context, tx *sql.Tx, actor domain.Actor, action, entityID, description string, meta map[string]any) error {
	if s.recorder == nil {
		return nil
	}
	return s.recorder.Record(ctx, tx, audit.Entry{
		ActorID:     actor.EmployeeID,
		Action:      action,
		Entity:      "Holiday",
		EntityID:    entityID,
		Description: description,
		Metadata:    meta,
	})
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return holidayerrors.ErrHolidayNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return holidayerrors.ErrDuplicateDate
	}
	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return holidayerrors.ErrDuplicateDate
	}
	return err
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, holidayerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func mapToResponse(h Holiday) HolidayResponse {
	resp := HolidayResponse{
		ID:          h.ID.String(),
		Name:        h.Name,
		Date:        h.Date.Format(time.DateOnly),
		Description: h.Description,
		IsOptional:  h.IsOptional,
	}
	if h.CreatedBy != nil {
		resp.CreatedBy = h.CreatedBy.String()
	}
	return resp
}
