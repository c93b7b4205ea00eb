package holiday

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_repo.go -destination=mock/holiday_repo_mock.go -package=mock

// Repository mixes the ORM for reads with raw SQL for the writes, which must
// be able to share a transaction with the audit insert.
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, h *Holiday) error
	FindByID(ctx context.Context, id string) (*Holiday, error)
	FindByDate(ctx context.Context, date time.Time) (*Holiday, error)
	FindByYear(ctx context.Context, year int) ([]Holiday, error)
	FindBetween(ctx context.Context, from, to time.Time) ([]Holiday, error)
	ExistsOnDate(ctx context.Context, date time.Time) (bool, error)
	Update(ctx context.Context, h *Holiday) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, h *Holiday) error {
	query := `
        INSERT INTO holidays (id, name, date, description, is_optional, created_by)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	exec, err := r.execer(ctx)
	if err != nil {
		return err
	}
	_, err = exec.ExecContext(ctx, query, h.ID, h.Name, h.Date, h.Description, h.IsOptional, h.CreatedBy)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Holiday, error) {
	var h Holiday
	err := r.db.WithContext(ctx).First(&h, "id = ?", id).Error
	return &h, err
}

func (r *repository) FindByDate(ctx context.Context, date time.Time) (*Holiday, error) {
	var h Holiday
	err := r.db.WithContext(ctx).First(&h, "date = ?", date).Error
	return &h, err
}

func (r *repository) FindByYear(ctx context.Context, year int) ([]Holiday, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return r.FindBetween(ctx, from, to)
}

func (r *repository) FindBetween(ctx context.Context, from, to time.Time) ([]Holiday, error) {
	var holidays []Holiday
	err := r.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", from, to).
		Order("date ASC").
		Find(&holidays).Error
	return holidays, err
}

func (r *repository) ExistsOnDate(ctx context.Context, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Holiday{}).
		Where("date = ?", date).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, h *Holiday) error {
	query := `
        UPDATE holidays
        SET name = $2, date = $3, description = $4, is_optional = $5, updated_at = NOW()
        WHERE id = $1
    `
	exec, err := r.execer(ctx)
	if err != nil {
		return err
	}
	_, err = exec.ExecContext(ctx, query, h.ID, h.Name, h.Date, h.Description, h.IsOptional)
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	exec, err := r.execer(ctx)
	if err != nil {
		return err
	}
	_, err = exec.ExecContext(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	return err
}

type execer interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}

func (r *repository) execer(ctx context.Context) (execer, error) {
	if r.tx != nil {
		return r.tx, nil
	}
	db, err := r.db.WithContext(ctx).DB()
	if err != nil {
		return nil, err
	}
	return db, nil
}
