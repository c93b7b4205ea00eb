package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	attendanceerrors "go-leavetrack/internal/attendance/errors"
	"go-leavetrack/internal/audit"
	"go-leavetrack/internal/domain"
	"go-leavetrack/internal/holiday"
	"go-leavetrack/internal/leave"
	"go-leavetrack/internal/scope"
	"go-leavetrack/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock

// HolidayCalendar is the slice of the holiday service the attendance view
// needs.
type HolidayCalendar interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error)
}

// LeavePeriods answers which approved leave intervals cover a range.
type LeavePeriods interface {
	ApprovedPeriods(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]leave.Period, error)
}

type Service interface {
	MarkSelf(ctx context.Context, actor domain.Actor, req MarkSelfRequest) (AttendanceResponse, error)
	MarkOrCorrect(ctx context.Context, actor domain.Actor, req MarkOrCorrectRequest) (AttendanceResponse, error)
	MonthlyView(ctx context.Context, actor domain.Actor, employeeID string, month, year int) (MonthlyViewResponse, error)
	ListMine(ctx context.Context, actor domain.Actor, from, to string) ([]AttendanceResponse, error)
	List(ctx context.Context, actor domain.Actor, employeeID, from, to string) ([]AttendanceResponse, error)
}

type Config struct {
	DB       *sql.DB
	Repo     Repository
	Holidays HolidayCalendar
	Leaves   LeavePeriods
	Resolver scope.ManagerResolver
	Teams    scope.TeamResolver
	Recorder audit.Recorder
	// WeekendDays overrides the synthesized weekend; nil means Sat/Sun.
	WeekendDays []time.Weekday
	Logger      *zap.Logger
}

type service struct {
	db       *sql.DB
	repo     Repository
	holidays HolidayCalendar
	leaves   LeavePeriods
	resolver scope.ManagerResolver
	teams    scope.TeamResolver
	recorder audit.Recorder
	weekend  map[time.Weekday]bool
	logger   *zap.Logger
}

func NewService(cfg Config) Service {
	l := cfg.Logger
	if l == nil {
		l = zap.L()
	}
	days := cfg.WeekendDays
	if days == nil {
		days = []time.Weekday{time.Saturday, time.Sunday}
	}
	weekend := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		weekend[d] = true
	}
	return &service{
		db:       cfg.DB,
		repo:     cfg.Repo,
		holidays: cfg.Holidays,
		leaves:   cfg.Leaves,
		resolver: cfg.Resolver,
		teams:    cfg.Teams,
		recorder: cfg.Recorder,
		weekend:  weekend,
		logger:   l.Named("attendance.service"),
	}
}

// MarkSelf records the actor's own attendance. "Today" is evaluated in UTC.
func (s *service) MarkSelf(ctx context.Context, actor domain.Actor, req MarkSelfRequest) (AttendanceResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return AttendanceResponse{}, err
	}
	today := todayUTC()
	if !date.Equal(today) {
		return AttendanceResponse{}, attendanceerrors.ErrNotToday
	}
	if !ValidStatus(req.Status) {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidStatus
	}

	isHoliday, err := s.holidays.IsHoliday(ctx, date)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if isHoliday {
		return AttendanceResponse{}, attendanceerrors.ErrHolidayConflict
	}

	employeeID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, apperror.ErrUnauthorized
	}

	a := &Attendance{
		ID:           uuid.New(),
		EmployeeID:   employeeID,
		Date:         date,
		Status:       req.Status,
		MarkedBy:     employeeID,
		IsSelfMarked: true,
		MarkedAt:     time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, a); err != nil {
		if isUniqueViolation(err) {
			return AttendanceResponse{}, attendanceerrors.ErrAlreadyMarked
		}
		s.logger.Error("mark self failed", zap.String("employee_id", actor.EmployeeID), zap.Error(err))
		return AttendanceResponse{}, err
	}

	err = s.recordAudit(ctx, tx, actor, audit.ActionAttendanceMarked, a.ID.String(),
		fmt.Sprintf("Self-marked %s on %s", req.Status, req.Date),
		map[string]any{"employee_id": actor.EmployeeID, "date": req.Date, "status": req.Status},
	)
	if err != nil {
		return AttendanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*a), nil
}

// MarkOrCorrect lets an admin write any employee's day. Overwriting demands
// a reason and may land on a holiday; a fresh record on a holiday is still
// rejected.
func (s *service) MarkOrCorrect(ctx context.Context, actor domain.Actor, req MarkOrCorrectRequest) (AttendanceResponse, error) {
	if !actor.IsAdmin() {
		return AttendanceResponse{}, apperror.ErrForbidden
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !ValidStatus(req.Status) {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidStatus
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, apperror.InvalidField("employee_id")
	}
	actorID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, apperror.ErrUnauthorized
	}

	existing, err := s.repo.FindByEmployeeAndDate(ctx, employeeID, date)
	switch {
	case err == nil:
		if req.Reason == "" {
			return AttendanceResponse{}, attendanceerrors.ErrCorrectionReasonRequired
		}
		before := existing.Status
		now := time.Now().UTC()
		existing.Status = req.Status
		existing.MarkedBy = actorID
		existing.IsSelfMarked = false
		existing.CorrectionReason = req.Reason
		existing.CorrectedAt = &now

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return AttendanceResponse{}, err
		}
		defer tx.Rollback()

		if err := s.repo.WithTx(tx).Update(ctx, existing); err != nil {
			return AttendanceResponse{}, err
		}
		err = s.recordAudit(ctx, tx, actor, audit.ActionAttendanceCorrected, existing.ID.String(),
			fmt.Sprintf("Corrected %s from %s to %s: %s", req.Date, before, req.Status, req.Reason),
			map[string]any{
				"employee_id": req.EmployeeID,
				"date":        req.Date,
				"old_status":  before,
				"new_status":  req.Status,
				"reason":      req.Reason,
			},
		)
		if err != nil {
			return AttendanceResponse{}, err
		}
		if err := tx.Commit(); err != nil {
			return AttendanceResponse{}, err
		}
		return mapToResponse(*existing), nil

	case errors.Is(err, sql.ErrNoRows):
		isHoliday, herr := s.holidays.IsHoliday(ctx, date)
		if herr != nil {
			return AttendanceResponse{}, herr
		}
		if isHoliday {
			return AttendanceResponse{}, attendanceerrors.ErrHolidayConflict
		}

		a := &Attendance{
			ID:               uuid.New(),
			EmployeeID:       employeeID,
			Date:             date,
			Status:           req.Status,
			MarkedBy:         actorID,
			IsSelfMarked:     false,
			CorrectionReason: req.Reason,
			MarkedAt:         time.Now().UTC(),
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return AttendanceResponse{}, err
		}
		defer tx.Rollback()

		if err := s.repo.WithTx(tx).Create(ctx, a); err != nil {
			if isUniqueViolation(err) {
				return AttendanceResponse{}, attendanceerrors.ErrAlreadyMarked
			}
			return AttendanceResponse{}, err
		}
		err = s.recordAudit(ctx, tx, actor, audit.ActionAttendanceCorrected, a.ID.String(),
			fmt.Sprintf("Marked %s as %s on %s", req.EmployeeID, req.Status, req.Date),
			map[string]any{
				"employee_id": req.EmployeeID,
				"date":        req.Date,
				"new_status":  req.Status,
				"reason":      req.Reason,
			},
		)
		if err != nil {
			return AttendanceResponse{}, err
		}
		if err := tx.Commit(); err != nil {
			return AttendanceResponse{}, err
		}
		return mapToResponse(*a), nil

	default:
		return AttendanceResponse{}, err
	}
}

// MonthlyView fills every day of the month: a recorded row wins, then
// holiday, weekend, approved leave, absent.
func (s *service) MonthlyView(ctx context.Context, actor domain.Actor, employeeID string, month, year int) (MonthlyViewResponse, error) {
	if month < 1 || month > 12 {
		return MonthlyViewResponse{}, attendanceerrors.ErrInvalidMonth
	}
	if employeeID == "" {
		employeeID = actor.EmployeeID
	}
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return MonthlyViewResponse{}, apperror.InvalidField("employee_id")
	}
	if err := scope.Authorize(ctx, s.resolver, actor, employeeID); err != nil {
		return MonthlyViewResponse{}, err
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	records, err := s.repo.ListForEmployeeBetween(ctx, empID, from, to)
	if err != nil {
		return MonthlyViewResponse{}, err
	}
	byDay := make(map[string]Attendance, len(records))
	for _, a := range records {
		byDay[a.Date.Format(time.DateOnly)] = a
	}

	holidays, err := s.holidays.ListBetween(ctx, from, to)
	if err != nil {
		return MonthlyViewResponse{}, err
	}
	holidayNames := make(map[string]string, len(holidays))
	for _, h := range holidays {
		holidayNames[h.Date.Format(time.DateOnly)] = h.Name
	}

	periods, err := s.leaves.ApprovedPeriods(ctx, empID, from, to)
	if err != nil {
		return MonthlyViewResponse{}, err
	}

	days := make([]MonthlyDay, 0, to.Day())
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		if a, ok := byDay[key]; ok {
			days = append(days, MonthlyDay{Date: key, Status: a.Status})
			continue
		}
		days = append(days, s.synthesizeDay(d, key, holidayNames, periods))
	}

	return MonthlyViewResponse{
		EmployeeID: employeeID,
		Month:      month,
		Year:       year,
		Days:       days,
	}, nil
}

func (s *service) synthesizeDay(d time.Time, key string, holidayNames map[string]string, periods []leave.Period) MonthlyDay {
	if name, ok := holidayNames[key]; ok {
		return MonthlyDay{Date: key, Status: DerivedHoliday, Derived: true, Note: name}
	}
	if s.weekend[d.Weekday()] {
		return MonthlyDay{Date: key, Status: DerivedWeekend, Derived: true}
	}
	for _, p := range periods {
		if p.Covers(d) {
			return MonthlyDay{Date: key, Status: DerivedOnLeave, Derived: true}
		}
	}
	return MonthlyDay{Date: key, Status: StatusAbsent, Derived: true}
}

func (s *service) ListMine(ctx context.Context, actor domain.Actor, from, to string) ([]AttendanceResponse, error) {
	return s.List(ctx, actor, actor.EmployeeID, from, to)
}

func (s *service) List(ctx context.Context, actor domain.Actor, employeeID, from, to string) ([]AttendanceResponse, error) {
	fromDate, toDate, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}

	var owners []string
	if employeeID != "" {
		if err := scope.Authorize(ctx, s.resolver, actor, employeeID); err != nil {
			return nil, err
		}
		owners = []string{employeeID}
	} else {
		switch scope.VisibilityFor(actor.Role) {
		case domain.VisibilityAll:
			owners = nil
		case domain.VisibilityTeam:
			reports, err := s.teams.DirectReportIDs(ctx, actor.EmployeeID)
			if err != nil {
				return nil, err
			}
			owners = append(reports, actor.EmployeeID)
		default:
			owners = []string{actor.EmployeeID}
		}
	}

	records, err := s.repo.List(ctx, owners, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	resp := make([]AttendanceResponse, len(records))
	for i, a := range records {
		resp[i] = mapToResponse(a)
	}
	return resp, nil
}

func (s *service) recordAudit(ctx context.Context, tx *sql.Tx, actor domain.Actor, action, entityID, description string, meta map[string]any) error {
	if s.recorder == nil {
		return nil
	}
	return s.recorder.Record(ctx, tx, audit.Entry{
		ActorID:     actor.EmployeeID,
		Action:      action,
		Entity:      "Attendance",
		EntityID:    entityID,
		Description: description,
		Metadata:    meta,
	})
}

func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// parseRange defaults to the current UTC month when both bounds are empty.
func parseRange(from, to string) (time.Time, time.Time, error) {
	if from == "" && to == "" {
		start := todayUTC().AddDate(0, 0, 1-todayUTC().Day())
		return start, start.AddDate(0, 1, -1), nil
	}
	fromDate, err := parseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	toDate, err := parseDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return fromDate, toDate, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
