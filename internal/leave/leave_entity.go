package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// LeaveRequest rows are never deleted; every lifecycle transition is a
// status flip with the decision metadata set alongside.
type LeaveRequest struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	LeaveTypeID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	StartDate       time.Time       `gorm:"type:date;not null"`
	EndDate         time.Time       `gorm:"type:date;not null"`
	TotalDays       decimal.Decimal `gorm:"type:numeric(4,1);not null"`
	Reason          string          `gorm:"type:text;not null"`
	AttachmentPath  string          `gorm:"type:varchar(500)"`
	Status          string          `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	AppliedAt       time.Time       `gorm:"not null"`
	ApprovedBy      *uuid.UUID      `gorm:"type:uuid"`
	DecisionAt      *time.Time
	ManagerComments string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string { return "leave_requests" }

// Period is a closed date interval of an approved request. The attendance
// view consumes these to synthesize ON_LEAVE days.
type Period struct {
	Start time.Time
	End   time.Time
}

// Covers reports whether the day falls inside the period.
func (p Period) Covers(day time.Time) bool {
	return !day.Before(p.Start) && !day.After(p.End)
}
