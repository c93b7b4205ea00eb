package balance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaveBalance is one ledger row per (employee, leave type, year).
// Available is never stored: it is always allocated + adjusted - used.
type LeaveBalance struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_balance_tuple,priority:1"`
	LeaveTypeID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_balance_tuple,priority:2"`
	Year        int             `gorm:"not null;uniqueIndex:idx_balance_tuple,priority:3"`
	Allocated   decimal.Decimal `gorm:"type:numeric(5,1);not null;default:0"`
	Used        decimal.Decimal `gorm:"type:numeric(5,1);not null;default:0"`
	Adjusted    decimal.Decimal `gorm:"type:numeric(5,1);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string { return "leave_balances" }

// Available reports the spendable days on this row.
func (b LeaveBalance) Available() decimal.Decimal {
	return b.Allocated.Add(b.Adjusted).Sub(b.Used)
}
