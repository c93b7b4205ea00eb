package attendance

import (
	"time"

	"github.com/google/uuid"
)

// Recorded statuses. The monthly view additionally synthesizes HOLIDAY,
// WEEKEND and ON_LEAVE for days without a row; those are never stored.
const (
	StatusPresent = "PRESENT"
	StatusWFH     = "WFH"
	StatusHalfDay = "HALF_DAY"
	StatusAbsent  = "ABSENT"

	DerivedHoliday = "HOLIDAY"
	DerivedWeekend = "WEEKEND"
	DerivedOnLeave = "ON_LEAVE"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPresent, StatusWFH, StatusHalfDay, StatusAbsent:
		return true
	}
	return false
}

// Attendance is one fact per employee per day, enforced by the unique
// index. Corrections overwrite in place and keep the reason.
type Attendance struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_day,priority:1"`
	Date             time.Time `gorm:"type:date;not null;uniqueIndex:idx_attendance_day,priority:2"`
	Status           string    `gorm:"type:varchar(20);not null"`
	MarkedBy         uuid.UUID `gorm:"type:uuid;not null"`
	IsSelfMarked     bool      `gorm:"not null;default:true"`
	CorrectionReason string    `gorm:"type:text"`
	MarkedAt         time.Time `gorm:"not null"`
	CorrectedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Attendance) TableName() string { return "attendance" }
