package balance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-leavetrack/internal/audit"
	balanceerrors "go-leavetrack/internal/balance/errors"
	"go-leavetrack/internal/domain"
	"go-leavetrack/internal/scope"
	"go-leavetrack/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	GetAvailable(ctx context.Context, actor domain.Actor, employeeID, leaveTypeID string, year int) (BalanceResponse, error)
	ListForEmployee(ctx context.Context, actor domain.Actor, employeeID string, year int) ([]BalanceResponse, error)
	Allocate(ctx context.Context, actor domain.Actor, req AllocateBalanceRequest) (BalanceResponse, error)
	Adjust(ctx context.Context, actor domain.Actor, req AdjustBalanceRequest) (BalanceResponse, error)

	// DeductTx and RestoreTx run inside the caller's transaction. They lock
	// the ledger row, so the caller's status flip and the ledger move commit
	// or roll back together.
	DeductTx(ctx context.Context, tx *sql.Tx, employeeID, leaveTypeID uuid.UUID, year int, days decimal.Decimal, paid bool) error
	RestoreTx(ctx context.Context, tx *sql.Tx, employeeID, leaveTypeID uuid.UUID, year int, days decimal.Decimal) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	resolver scope.ManagerResolver
	recorder audit.Recorder
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, resolver scope.ManagerResolver, recorder audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{db: db, repo: repo, resolver: resolver, recorder: recorder, logger: l}
}

func (s *service) GetAvailable(ctx context.Context, actor domain.Actor, employeeID, leaveTypeID string, year int) (BalanceResponse, error) {
	empID, typeID, err := parseIDs(employeeID, leaveTypeID)
	if err != nil {
		return BalanceResponse{}, err
	}
	if err := scope.Authorize(ctx, s.resolver, actor, employeeID); err != nil {
		return BalanceResponse{}, err
	}

	b, err := s.repo.Find(ctx, empID, typeID, year)
	if err != nil {
		return BalanceResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*b), nil
}

func (s *service) ListForEmployee(ctx context.Context, actor domain.Actor, employeeID string, year int) ([]BalanceResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, balanceerrors.ErrInvalidBalanceInput
	}
	if err := scope.Authorize(ctx, s.resolver, actor, employeeID); err != nil {
		return nil, err
	}

	balances, err := s.repo.ListForEmployee(ctx, empID, year)
	if err != nil {
		return nil, err
	}
	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp, nil
}

func (s *service) Allocate(ctx context.Context, actor domain.Actor, req AllocateBalanceRequest) (BalanceResponse, error) {
	if !actor.IsAdmin() {
		return BalanceResponse{}, apperror.ErrForbidden
	}
	empID, typeID, err := parseIDs(req.EmployeeID, req.LeaveTypeID)
	if err != nil {
		return BalanceResponse{}, err
	}
	// Zero is a valid allocation: it revokes the entitlement for the year.
	days := decimal.NewFromFloat(req.Days)
	if days.LessThan(decimal.Zero) {
		return BalanceResponse{}, balanceerrors.ErrInvalidBalanceInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BalanceResponse{}, err
	}
	defer tx.Rollback()

	b, err := s.repo.WithTx(tx).UpsertAllocated(ctx, empID, typeID, req.Year, days)
	if err != nil {
		s.logger.Error("allocate failed", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return BalanceResponse{}, err
	}

	err = s.recorder.Record(ctx, tx, audit.Entry{
		ActorID:     actor.EmployeeID,
		Action:      audit.ActionBalanceAllocated,
		Entity:      "LeaveBalance",
		EntityID:    b.ID.String(),
		Description: fmt.Sprintf("Allocated %s days for year %d", days.StringFixed(1), req.Year),
		Metadata: map[string]any{
			"employee_id":   req.EmployeeID,
			"leave_type_id": req.LeaveTypeID,
			"year":          req.Year,
			"allocated":     days.StringFixed(1),
		},
	})
	if err != nil {
		return BalanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return BalanceResponse{}, err
	}

	s.logger.Info("balance allocated",
		zap.String("employee_id", req.EmployeeID),
		zap.Int("year", req.Year),
		zap.String("days", days.StringFixed(1)),
	)
	return mapToResponse(*b), nil
}

func (s *service) Adjust(ctx context.Context, actor domain.Actor, req AdjustBalanceRequest) (BalanceResponse, error) {
	if !actor.IsAdmin() {
		return BalanceResponse{}, apperror.ErrForbidden
	}
	if req.Reason == "" {
		return BalanceResponse{}, balanceerrors.ErrAdjustReasonRequired
	}
	empID, typeID, err := parseIDs(req.EmployeeID, req.LeaveTypeID)
	if err != nil {
		return BalanceResponse{}, err
	}
	delta := decimal.NewFromFloat(req.Delta)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BalanceResponse{}, err
	}
	defer tx.Rollback()

	repo := s.repo.WithTx(tx)
	b, err := repo.FindForUpdate(ctx, empID, typeID, req.Year)
	if err != nil {
		return BalanceResponse{}, mapRepositoryError(err)
	}

	oldAdjusted := b.Adjusted
	b.Adjusted = b.Adjusted.Add(delta)
	if err := repo.UpdateAdjusted(ctx, b.ID, b.Adjusted); err != nil {
		return BalanceResponse{}, err
	}

	err = s.recorder.Record(ctx, tx, audit.Entry{
		ActorID:     actor.EmployeeID,
		Action:      audit.ActionBalanceAdjusted,
		Entity:      "LeaveBalance",
		EntityID:    b.ID.String(),
		Description: fmt.Sprintf("Adjusted balance by %s: %s", delta.StringFixed(1), req.Reason),
		Metadata: map[string]any{
			"employee_id":   req.EmployeeID,
			"leave_type_id": req.LeaveTypeID,
			"year":          req.Year,
			"old_adjusted":  oldAdjusted.StringFixed(1),
			"new_adjusted":  b.Adjusted.StringFixed(1),
			"reason":        req.Reason,
		},
	})
	if err != nil {
		return BalanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return BalanceResponse{}, err
	}
	return mapToResponse(*b), nil
}

// DeductTx spends days from the ledger row. Unpaid types skip the available
// check; a missing row for them is a no-op.
func (s *service) DeductTx(ctx context.Context, tx *sql.Tx, employeeID, leaveTypeID uuid.UUID, year int, days decimal.Decimal, paid bool) error {
	repo := s.repo.WithTx(tx)

	b, err := repo.FindForUpdate(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if paid {
				return balanceerrors.ErrBalanceNotFound
			}
			return nil
		}
		return err
	}

	if paid && b.Available().LessThan(days) {
		return balanceerrors.ErrInsufficientBalance
	}

	return repo.UpdateUsed(ctx, b.ID, b.Used.Add(days))
}

// RestoreTx returns days to the ledger row, flooring used at zero.
func (s *service) RestoreTx(ctx context.Context, tx *sql.Tx, employeeID, leaveTypeID uuid.UUID, year int, days decimal.Decimal) error {
	repo := s.repo.WithTx(tx)

	b, err := repo.FindForUpdate(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}

	used := b.Used.Sub(days)
	if used.LessThan(decimal.Zero) {
		used = decimal.Zero
	}
	return repo.UpdateUsed(ctx, b.ID, used)
}

func parseIDs(employeeID, leaveTypeID string) (uuid.UUID, uuid.UUID, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, balanceerrors.ErrInvalidBalanceInput
	}
	typeID, err := uuid.Parse(leaveTypeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, balanceerrors.ErrInvalidBalanceInput
	}
	return empID, typeID, nil
}

func mapRepositoryError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return balanceerrors.ErrBalanceNotFound
	}
	return err
}
