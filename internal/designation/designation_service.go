package designation

import (
	"context"
	"errors"
	"strings"

	designationerrors "go-leavetrack/internal/designation/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=designation_service.go -destination=mock/designation_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateDesignationRequest) (DesignationResponse, error)
	GetAll(ctx context.Context) ([]DesignationResponse, error)
	GetByID(ctx context.Context, id string) (DesignationResponse, error)
	Update(ctx context.Context, id string, req UpdateDesignationRequest) (DesignationResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("designation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("designation.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateDesignationRequest) (DesignationResponse, error) {
	d := &Designation{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return DesignationResponse{}, mapRepositoryError(err)
	}
	s.logger.Info("designation created", zap.String("designation_id", d.ID.String()), zap.String("title", d.Title))
	return mapToResponse(*d), nil
}

func (s *service) GetAll(ctx context.Context) ([]DesignationResponse, error) {
	designations, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]DesignationResponse, len(designations))
	for i, d := range designations {
		resp[i] = mapToResponse(d)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (DesignationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DesignationResponse{}, designationerrors.ErrInvalidDesignationID
	}
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DesignationResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*d), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateDesignationRequest) (DesignationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DesignationResponse{}, designationerrors.ErrInvalidDesignationID
	}
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DesignationResponse{}, mapRepositoryError(err)
	}

	d.Title = req.Title
	d.Description = req.Description
	if err := s.repo.Update(ctx, d); err != nil {
		return DesignationResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*d), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return designationerrors.ErrInvalidDesignationID
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	referenced, err := s.repo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return designationerrors.ErrDesignationReferenced
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	s.logger.Info("designation deleted", zap.String("designation_id", id))
	return nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return designationerrors.ErrDesignationNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return designationerrors.ErrDuplicateTitle
	}
	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return designationerrors.ErrDuplicateTitle
	}
	return err
}
