package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock

// Repository mixes the ORM for reads and plain updates with raw SQL for
// the writes that must share a transaction with an outbox insert.
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByCode(ctx context.Context, code string) (*Employee, error)
	FindAll(ctx context.Context, activeOnly bool) ([]Employee, error)
	Update(ctx context.Context, e *Employee) error
	SetActive(ctx context.Context, id string, active bool) error

	// ReportingManagerID and DirectReportIDs implement the role-scoped
	// query layer's resolver interfaces.
	ReportingManagerID(ctx context.Context, employeeID string) (string, error)
	DirectReportIDs(ctx context.Context, managerID string) ([]string, error)
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

func (r *repository) Create(ctx context.Context, e *Employee) error {
	query := `
        INSERT INTO employees (
            id, code, full_name, email, phone, role, reporting_manager_id,
            department_id, designation_id, date_of_joining, is_active
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `
	exec, err := r.execer(ctx)
	if err != nil {
		return err
	}
	_, err = exec.ExecContext(
		ctx, query,
		e.ID, e.Code, e.FullName, e.Email, e.Phone, e.Role, e.ReportingManagerID,
		e.DepartmentID, e.DesignationID, e.DateOfJoining, e.IsActive,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByCode(ctx context.Context, code string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "code = ?", code).Error
	return &e, err
}

func (r *repository) FindAll(ctx context.Context, activeOnly bool) ([]Employee, error) {
	var employees []Employee
	q := r.db.WithContext(ctx).Order("code ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&employees).Error
	return employees, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	query := `
        UPDATE employees
        SET full_name = $2, email = $3, phone = $4, role = $5,
            reporting_manager_id = $6, department_id = $7, designation_id = $8,
            updated_at = NOW()
        WHERE id = $1
    `
	exec, err := r.execer(ctx)
	if err != nil {
		return err
	}
	_, err = exec.ExecContext(
		ctx, query,
		e.ID, e.FullName, e.Email, e.Phone, e.Role,
		e.ReportingManagerID, e.DepartmentID, e.DesignationID,
	)
	return err
}

func (r *repository) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE employees SET is_active = $2, updated_at = NOW() WHERE id = $1`
	exec, err := r.execer(ctx)
	if err != nil {
		return err
	}
	_, err = exec.ExecContext(ctx, query, id, active)
	return err
}

func (r *repository) ReportingManagerID(ctx context.Context, employeeID string) (string, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Select("reporting_manager_id").
		First(&e, "id = ?", employeeID).Error
	if err != nil {
		return "", err
	}
	if e.ReportingManagerID == nil {
		return "", nil
	}
	return e.ReportingManagerID.String(), nil
}

func (r *repository) DirectReportIDs(ctx context.Context, managerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("reporting_manager_id = ? AND is_active = ?", managerID, true).
		Pluck("id", &ids).Error
	return ids, err
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
