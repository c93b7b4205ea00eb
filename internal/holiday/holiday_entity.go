package holiday

import (
	"time"

	"github.com/google/uuid"
)

// Holiday is an organization-wide non-working day. Dates are unique across
// the whole calendar; optional holidays are flagged, not excluded.
type Holiday struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string     `gorm:"type:varchar(200);not null"`
	Date        time.Time  `gorm:"type:date;not null;uniqueIndex"`
	Description string     `gorm:"type:text"`
	IsOptional  bool       `gorm:"not null;default:false"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Holiday) TableName() string { return "holidays" }
