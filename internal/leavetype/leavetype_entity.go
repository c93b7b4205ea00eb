package leavetype

import (
	"time"

	"github.com/google/uuid"
)

// LeaveType is master data (CL, SL, EL, LWP, ...). Rows are standalone
// reference data: deletable only while no balance or request points at them.
type LeaveType struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code                  string    `gorm:"type:varchar(10);not null;uniqueIndex"`
	Name                  string    `gorm:"type:varchar(50);not null"`
	IsPaid                bool      `gorm:"not null;default:true"`
	RequiresDocumentation bool      `gorm:"not null;default:false"`
	MaxConsecutiveDays    *int      `gorm:"type:int"`
	Description           string    `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveType) TableName() string { return "leave_types" }
