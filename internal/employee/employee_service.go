package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-leavetrack/internal/audit"
	"go-leavetrack/internal/domain"
	employeeerrors "go-leavetrack/internal/employee/errors"
	"go-leavetrack/internal/events"
	"go-leavetrack/internal/messaging/kafka"
	"go-leavetrack/internal/shared/apperror"
	"go-leavetrack/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxChainDepth bounds the walk up the reporting chain when validating a
// manager assignment. A legitimate chain is never this deep.
const maxChainDepth = 100

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	GetAll(ctx context.Context, activeOnly bool) ([]EmployeeResponse, error)
	Update(ctx context.Context, actor domain.Actor, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, actor domain.Actor, id string) error
	Activate(ctx context.Context, actor domain.Actor, id string) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	outbox   kafka.OutboxRepository
	recorder audit.Recorder
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, recorder audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, recorder: recorder, logger: l}
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateEmployeeRequest) (EmployeeResponse, error) {
	if !actor.IsAdmin() {
		return EmployeeResponse{}, apperror.ErrForbidden
	}
	doj, err := time.Parse(time.DateOnly, req.DateOfJoining)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidDateFormat
	}

	e := &Employee{
		ID:            uuid.New(),
		Code:          req.Code,
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		Role:          req.Role,
		DateOfJoining: doj,
		IsActive:      true,
	}
	if e.ReportingManagerID, err = s.validateManager(ctx, e.ID.String(), req.ReportingManagerID); err != nil {
		return EmployeeResponse{}, err
	}
	e.DepartmentID = parseOptionalUUID(req.DepartmentID)
	e.DesignationID = parseOptionalUUID(req.DesignationID)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, e); err != nil {
		if isUniqueViolation(err) {
			return EmployeeResponse{}, employeeerrors.ErrDuplicateEmployee
		}
		s.logger.Error("create employee failed", zap.String("code", req.Code), zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := s.enqueueLifecycleEvent(ctx, tx, events.EmployeeCreatedEvent, e); err != nil {
		return EmployeeResponse{}, err
	}
	err = s.recorder.Record(ctx, tx, audit.Entry{
		ActorID:     actor.EmployeeID,
		Action:      audit.ActionEmployeeCreated,
		Entity:      "Employee",
		EntityID:    e.ID.String(),
		Description: fmt.Sprintf("Created employee %s (%s)", e.FullName, e.Code),
		Metadata:    map[string]any{"code": e.Code, "role": e.Role},
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	s.logger.Info("employee created", zap.String("employee_id", e.ID.String()), zap.String("code", e.Code))
	return mapToResponse(*e), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context, activeOnly bool) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, actor domain.Actor, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	if !actor.IsAdmin() {
		return EmployeeResponse{}, apperror.ErrForbidden
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	managerID, err := s.validateManager(ctx, id, req.ReportingManagerID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	e.FullName = req.FullName
	e.Email = req.Email
	e.Phone = req.Phone
	e.Role = req.Role
	e.ReportingManagerID = managerID
	e.DepartmentID = parseOptionalUUID(req.DepartmentID)
	e.DesignationID = parseOptionalUUID(req.DesignationID)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Update(ctx, e); err != nil {
		if isUniqueViolation(err) {
			return EmployeeResponse{}, employeeerrors.ErrDuplicateEmployee
		}
		return EmployeeResponse{}, err
	}

	err = s.recorder.Record(ctx, tx, audit.Entry{
		ActorID:     actor.EmployeeID,
		Action:      audit.ActionEmployeeUpdated,
		Entity:      "Employee",
		EntityID:    id,
		Description: fmt.Sprintf("Updated employee %s", e.Code),
		Metadata:    map[string]any{"code": e.Code, "role": e.Role},
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) Deactivate(ctx context.Context, actor domain.Actor, id string) error {
	return s.setActive(ctx, actor, id, false)
}

func (s *service) Activate(ctx context.Context, actor domain.Actor, id string) error {
	return s.setActive(ctx, actor, id, true)
}

func (s *service) setActive(ctx context.Context, actor domain.Actor, id string, active bool) error {
	if !actor.IsAdmin() {
		return apperror.ErrForbidden
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if e.IsActive == active {
		if active {
			return employeeerrors.ErrAlreadyActive
		}
		return employeeerrors.ErrAlreadyInactive
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).SetActive(ctx, id, active); err != nil {
		return err
	}

	eventType := events.EmployeeDeactivatedEvent
	action := audit.ActionEmployeeDeactivated
	if active {
		eventType = events.EmployeeActivatedEvent
		action = audit.ActionEmployeeActivated
	}
	e.IsActive = active

	if err := s.enqueueLifecycleEvent(ctx, tx, eventType, e); err != nil {
		return err
	}
	err = s.recorder.Record(ctx, tx, audit.Entry{
		ActorID:     actor.EmployeeID,
		Action:      action,
		Entity:      "Employee",
		EntityID:    id,
		Description: fmt.Sprintf("Set employee %s active=%t", e.Code, active),
		Metadata:    map[string]any{"code": e.Code, "is_active": active},
	})
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("employee active flag changed",
		zap.String("employee_id", id),
		zap.Bool("is_active", active),
	)
	return nil
}

// validateManager checks a reporting manager assignment: the manager must
// exist, must not be the employee, and must not sit below the employee in
// the chain. The walk is depth-bounded so a corrupt chain cannot loop
// forever.
func (s *service) validateManager(ctx context.Context, employeeID, managerID string) (*uuid.UUID, error) {
	if managerID == "" {
		return nil, nil
	}
	if managerID == employeeID {
		return nil, employeeerrors.ErrManagerIsSelf
	}
	parsed, err := uuid.Parse(managerID)
	if err != nil {
		return nil, employeeerrors.ErrManagerNotFound
	}
	if _, err := s.repo.FindByID(ctx, managerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrManagerNotFound
		}
		return nil, err
	}

	current := managerID
	for depth := 0; depth < maxChainDepth; depth++ {
		next, err := s.repo.ReportingManagerID(ctx, current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return nil, err
		}
		if next == "" {
			return &parsed, nil
		}
		if next == employeeID {
			return nil, employeeerrors.ErrManagerCycle
		}
		current = next
	}
	return nil, employeeerrors.ErrManagerCycle
}

func (s *service) enqueueLifecycleEvent(ctx context.Context, tx *sql.Tx, eventType string, e *Employee) error {
	payload, err := json.Marshal(events.EmployeeLifecycleEvent{
		EventType:  eventType,
		EmployeeID: e.ID.String(),
		Code:       e.Code,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "Employee",
		AggregateID:   e.ID.String(),
		EventType:     eventType,
		Topic:         events.EmployeeLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func parseOptionalUUID(v string) *uuid.UUID {
	if v == "" {
		return nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
