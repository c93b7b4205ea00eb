package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-leavetrack/internal/audit"
	"go-leavetrack/internal/balance"
	"go-leavetrack/internal/domain"
	"go-leavetrack/internal/events"
	leaveerrors "go-leavetrack/internal/leave/errors"
	"go-leavetrack/internal/leavetype"
	"go-leavetrack/internal/messaging/kafka"
	"go-leavetrack/internal/scope"
	"go-leavetrack/internal/shared/apperror"
	"go-leavetrack/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, actor domain.Actor, req ApplyLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, actor domain.Actor, id string, req ApproveLeaveRequest) (LeaveResponse, error)
	Reject(ctx context.Context, actor domain.Actor, id string, req RejectLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error)
	List(ctx context.Context, actor domain.Actor, filter ListLeaveFilter) ([]LeaveResponse, error)
	ListPendingForApprover(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error)
	TeamCalendar(ctx context.Context, actor domain.Actor, month, year int) ([]LeaveResponse, error)

	// ApprovedPeriods feeds the attendance monthly view; scope is the
	// caller's responsibility.
	ApprovedPeriods(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]Period, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	types    leavetype.Repository
	balances balance.Service
	resolver scope.ManagerResolver
	teams    scope.TeamResolver
	outbox   kafka.OutboxRepository
	recorder audit.Recorder
	logger   *zap.Logger
}

type Config struct {
	DB       *sql.DB
	Repo     Repository
	Types    leavetype.Repository
	Balances balance.Service
	Resolver scope.ManagerResolver
	Teams    scope.TeamResolver
	Outbox   kafka.OutboxRepository
	Recorder audit.Recorder
	Logger   *zap.Logger
}

func NewService(cfg Config) Service {
	l := cfg.Logger
	if l == nil {
		l = zap.L()
	}
	return &service{
		db:       cfg.DB,
		repo:     cfg.Repo,
		types:    cfg.Types,
		balances: cfg.Balances,
		resolver: cfg.Resolver,
		teams:    cfg.Teams,
		outbox:   cfg.Outbox,
		recorder: cfg.Recorder,
		logger:   l.Named("leave.service"),
	}
}

// Apply validates in a fixed order and reports the first failure: dates,
// range, overlap, balance, consecutive-day cap, documentation.
func (s *service) Apply(ctx context.Context, actor domain.Actor, req ApplyLeaveRequest) (LeaveResponse, error) {
	targetID := req.EmployeeID
	if targetID == "" {
		targetID = actor.EmployeeID
	}
	employeeID, err := uuid.Parse(targetID)
	if err != nil {
		return LeaveResponse{}, apperror.InvalidField("employee_id")
	}
	if err := scope.Authorize(ctx, s.resolver, actor, targetID); err != nil {
		return LeaveResponse{}, err
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if start.After(end) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	lt, err := s.types.FindByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, apperror.ErrNotFound
		}
		return LeaveResponse{}, err
	}

	// Raw inclusive day count; holidays and weekends inside the range
	// count toward the total.
	totalDays := decimal.NewFromInt(int64(end.Sub(start).Hours()/24) + 1)

	overlap, err := s.repo.HasOverlap(ctx, employeeID, start, end, uuid.Nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	if overlap {
		return LeaveResponse{}, leaveerrors.ErrOverlappingRequest
	}

	if lt.IsPaid {
		available, err := s.balances.GetAvailable(ctx, actor, targetID, req.LeaveTypeID, start.Year())
		if err != nil {
			return LeaveResponse{}, err
		}
		avail, err := decimal.NewFromString(available.Available)
		if err != nil {
			return LeaveResponse{}, err
		}
		if avail.LessThan(totalDays) {
			return LeaveResponse{}, apperror.New(
				apperror.CodeInsufficientBalance,
				fmt.Sprintf("requested %s days but only %s available", totalDays.StringFixed(1), avail.StringFixed(1)),
				http.StatusUnprocessableEntity,
			)
		}
	}

	if lt.MaxConsecutiveDays != nil && totalDays.GreaterThan(decimal.NewFromInt(int64(*lt.MaxConsecutiveDays))) {
		return LeaveResponse{}, leaveerrors.ExceedsMaxConsecutive(*lt.MaxConsecutiveDays)
	}

	if lt.RequiresDocumentation && req.AttachmentPath == "" {
		return LeaveResponse{}, leaveerrors.ErrAttachmentRequired
	}

	lr := &LeaveRequest{
		ID:             uuid.New(),
		EmployeeID:     employeeID,
		LeaveTypeID:    lt.ID,
		StartDate:      start,
		EndDate:        end,
		TotalDays:      totalDays,
		Reason:         req.Reason,
		AttachmentPath: req.AttachmentPath,
		Status:         StatusPending,
		AppliedAt:      time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, lr); err != nil {
		s.logger.Error("leave apply failed", zap.String("employee_id", targetID), zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := s.enqueueLifecycleEvent(ctx, tx, events.LeaveRequestedEvent, lr, lt.Code); err != nil {
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave requested",
		zap.String("request_id", lr.ID.String()),
		zap.String("employee_id", targetID),
		zap.String("leave_type", lt.Code),
		zap.String("total_days", totalDays.StringFixed(1)),
	)
	return mapToResponse(*lr), nil
}

// Approve flips PENDING to APPROVED and spends the balance in one
// transaction. Concurrent approvals serialize on the locked ledger row.
func (s *service) Approve(ctx context.Context, actor domain.Actor, id string, req ApproveLeaveRequest) (LeaveResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	repo := s.repo.WithTx(tx)
	lr, err := repo.FindByIDForUpdate(ctx, requestID)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if err := s.authorizeDecision(ctx, actor, lr); err != nil {
		return LeaveResponse{}, err
	}
	if lr.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	lt, err := s.types.FindByID(ctx, lr.LeaveTypeID.String())
	if err != nil {
		return LeaveResponse{}, err
	}

	err = s.balances.DeductTx(ctx, tx, lr.EmployeeID, lr.LeaveTypeID, lr.StartDate.Year(), lr.TotalDays, lt.IsPaid)
	if err != nil {
		return LeaveResponse{}, err
	}

	approverID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return LeaveResponse{}, apperror.ErrUnauthorized
	}
	if err := repo.UpdateStatus(ctx, requestID, StatusApproved, &approverID, req.Comment); err != nil {
		return LeaveResponse{}, err
	}

	lr.Status = StatusApproved
	lr.ApprovedBy = &approverID
	now := time.Now().UTC()
	lr.DecisionAt = &now
	lr.ManagerComments = req.Comment

	err = s.recorder.Record(ctx, tx, audit.Entry{
		ActorID:     actor.EmployeeID,
		Action:      audit.ActionLeaveApproved,
		Entity:      "LeaveRequest",
		EntityID:    id,
		Description: fmt.Sprintf("Approved %s leave, %s days", lt.Code, lr.TotalDays.StringFixed(1)),
		Metadata: map[string]any{
			"employee_id": lr.EmployeeID.String(),
			"leave_type":  lt.Code,
			"start_date":  lr.StartDate.Format(time.DateOnly),
			"end_date":    lr.EndDate.Format(time.DateOnly),
			"total_days":  lr.TotalDays.StringFixed(1),
			"comment":     req.Comment,
		},
	})
	if err != nil {
		return LeaveResponse{}, err
	}
	if err := s.enqueueLifecycleEvent(ctx, tx, events.LeaveApprovedEvent, lr, lt.Code); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave approved",
		zap.String("request_id", id),
		zap.String("approver_id", actor.EmployeeID),
	)
	return mapToResponse(*lr), nil
}

func (s *service) Reject(ctx context.Context, actor domain.Actor, id string, req RejectLeaveRequest) (LeaveResponse, error) {
	if req.Reason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectReasonRequired
	}
	requestID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	repo := s.repo.WithTx(tx)
	lr, err := repo.FindByIDForUpdate(ctx, requestID)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if err := s.authorizeDecision(ctx, actor, lr); err != nil {
		return LeaveResponse{}, err
	}
	if lr.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	approverID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return LeaveResponse{}, apperror.ErrUnauthorized
	}
	if err := repo.UpdateStatus(ctx, requestID, StatusRejected, &approverID, req.Reason); err != nil {
		return LeaveResponse{}, err
	}

	lr.Status = StatusRejected
	lr.ApprovedBy = &approverID
	now := time.Now().UTC()
	lr.DecisionAt = &now
	lr.ManagerComments = req.Reason

	err = s.recorder.Record(ctx, tx, audit.Entry{
		ActorID:     actor.EmployeeID,
		Action:      audit.ActionLeaveRejected,
		Entity:      "LeaveRequest",
		EntityID:    id,
		Description: "Rejected leave request: " + req.Reason,
		Metadata: map[string]any{
			"employee_id": lr.EmployeeID.String(),
			"reason":      req.Reason,
		},
	})
	if err != nil {
		return LeaveResponse{}, err
	}
	if err := s.enqueueLifecycleEvent(ctx, tx, events.LeaveRejectedEvent, lr, ""); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*lr), nil
}

// Cancel is allowed from PENDING and APPROVED. Cancelling an approved
// request returns its days to the ledger in the same transaction.
func (s *service) Cancel(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	repo := s.repo.WithTx(tx)
	lr, err := repo.FindByIDForUpdate(ctx, requestID)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if err := scope.Authorize(ctx, s.resolver, actor, lr.EmployeeID.String()); err != nil {
		return LeaveResponse{}, err
	}
	if lr.Status != StatusPending && lr.Status != StatusApproved {
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	wasApproved := lr.Status == StatusApproved
	if wasApproved {
		err = s.balances.RestoreTx(ctx, tx, lr.EmployeeID, lr.LeaveTypeID, lr.StartDate.Year(), lr.TotalDays)
		if err != nil {
			return LeaveResponse{}, err
		}
	}

	if err := repo.UpdateStatus(ctx, requestID, StatusCancelled, lr.ApprovedBy, lr.ManagerComments); err != nil {
		return LeaveResponse{}, err
	}
	lr.Status = StatusCancelled

	err = s.recorder.Record(ctx, tx, audit.Entry{
		ActorID:     actor.EmployeeID,
		Action:      audit.ActionLeaveCancelled,
		Entity:      "LeaveRequest",
		EntityID:    id,
		Description: "Cancelled leave request",
		Metadata: map[string]any{
			"employee_id":    lr.EmployeeID.String(),
			"was_approved":   wasApproved,
			"restored_days":  lr.TotalDays.StringFixed(1),
			"restore_needed": wasApproved,
		},
	})
	if err != nil {
		return LeaveResponse{}, err
	}
	if err := s.enqueueLifecycleEvent(ctx, tx, events.LeaveCancelledEvent, lr, ""); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave cancelled",
		zap.String("request_id", id),
		zap.Bool("was_approved", wasApproved),
	)
	return mapToResponse(*lr), nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	lr, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if err := scope.Authorize(ctx, s.resolver, actor, lr.EmployeeID.String()); err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*lr), nil
}

func (s *service) List(ctx context.Context, actor domain.Actor, filter ListLeaveFilter) ([]LeaveResponse, error) {
	owners, err := s.visibleEmployeeIDs(ctx, actor, filter.EmployeeID)
	if err != nil {
		return nil, err
	}

	requests, err := s.repo.List(ctx, owners, filter)
	if err != nil {
		return nil, err
	}
	return mapToResponses(requests), nil
}

func (s *service) ListPendingForApprover(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error) {
	switch {
	case actor.IsAdmin():
		requests, err := s.repo.ListPendingAll(ctx)
		if err != nil {
			return nil, err
		}
		return mapToResponses(requests), nil
	case actor.IsManager():
		managerID, err := uuid.Parse(actor.EmployeeID)
		if err != nil {
			return nil, apperror.ErrUnauthorized
		}
		requests, err := s.repo.ListPendingForApprover(ctx, managerID)
		if err != nil {
			return nil, err
		}
		return mapToResponses(requests), nil
	default:
		return nil, apperror.ErrForbidden
	}
}

func (s *service) TeamCalendar(ctx context.Context, actor domain.Actor, month, year int) ([]LeaveResponse, error) {
	if !actor.IsManager() && !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	if month < 1 || month > 12 {
		return nil, apperror.InvalidField("month")
	}
	managerID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	requests, err := s.repo.TeamCalendar(ctx, managerID, from, to)
	if err != nil {
		return nil, err
	}
	return mapToResponses(requests), nil
}

func (s *service) ApprovedPeriods(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]Period, error) {
	return s.repo.ApprovedPeriods(ctx, employeeID, from, to)
}

// authorizeDecision enforces who may approve or reject: never the owner,
// otherwise an admin or the owner's reporting manager.
func (s *service) authorizeDecision(ctx context.Context, actor domain.Actor, lr *LeaveRequest) error {
	if actor.EmployeeID == lr.EmployeeID.String() {
		return leaveerrors.ErrSelfApproval
	}
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsManager() {
		managerID, err := s.resolver.ReportingManagerID(ctx, lr.EmployeeID.String())
		if err != nil {
			return err
		}
		if managerID == actor.EmployeeID {
			return nil
		}
	}
	return leaveerrors.ErrNotApprover
}

// visibleEmployeeIDs translates the actor's visibility into an ownership
// filter. nil means unfiltered (ALL); requesting someone out of scope is a
// scope error rather than an empty list.
func (s *service) visibleEmployeeIDs(ctx context.Context, actor domain.Actor, requested string) ([]string, error) {
	if requested != "" {
		if err := scope.Authorize(ctx, s.resolver, actor, requested); err != nil {
			return nil, err
		}
		return []string{requested}, nil
	}

	switch scope.VisibilityFor(actor.Role) {
	case domain.VisibilityAll:
		return nil, nil
	case domain.VisibilityTeam:
		reports, err := s.teams.DirectReportIDs(ctx, actor.EmployeeID)
		if err != nil {
			return nil, err
		}
		return append(reports, actor.EmployeeID), nil
	default:
		return []string{actor.EmployeeID}, nil
	}
}

func (s *service) enqueueLifecycleEvent(ctx context.Context, tx *sql.Tx, eventType string, lr *LeaveRequest, leaveTypeCode string) error {
	payload, err := json.Marshal(events.LeaveLifecycleEvent{
		EventType:  eventType,
		RequestID:  lr.ID.String(),
		EmployeeID: lr.EmployeeID.String(),
		LeaveType:  leaveTypeCode,
		StartDate:  lr.StartDate.Format(time.DateOnly),
		EndDate:    lr.EndDate.Format(time.DateOnly),
		TotalDays:  lr.TotalDays.StringFixed(1),
		Status:     lr.Status,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "LeaveRequest",
		AggregateID:   lr.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapRepositoryError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return leaveerrors.ErrLeaveNotFound
	}
	return err
}

func mapToResponses(requests []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(requests))
	for i, lr := range requests {
		resp[i] = mapToResponse(lr)
	}
	return resp
}
