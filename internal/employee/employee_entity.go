package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is the identity every other module hangs off. Rows are never
// hard-deleted: deactivation clears IsActive and history stays intact.
type Employee struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code               string     `gorm:"type:varchar(20);not null;uniqueIndex"`
	FullName           string     `gorm:"type:varchar(200);not null"`
	Email              string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone              string     `gorm:"type:varchar(20)"`
	Role               string     `gorm:"type:varchar(20);not null;default:'EMPLOYEE'"`
	ReportingManagerID *uuid.UUID `gorm:"type:uuid;index"`
	DepartmentID       *uuid.UUID `gorm:"type:uuid"`
	DesignationID      *uuid.UUID `gorm:"type:uuid"`
	DateOfJoining      time.Time  `gorm:"type:date;not null"`
	IsActive           bool       `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string { return "employees" }
