package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Log is the append-only audit_logs row. The core only ever inserts these;
// there is no update, delete, or read path back into business logic.
type Log struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ActorID     *uuid.UUID     `gorm:"type:uuid;index:idx_audit_logs_actor_created"`
	Action      string         `gorm:"type:varchar(50);not null;index:idx_audit_logs_action"`
	Entity      string         `gorm:"type:varchar(50);not null;index:idx_audit_logs_entity"`
	EntityID    string         `gorm:"type:varchar(64);not null;index:idx_audit_logs_entity"`
	Description string         `gorm:"type:text;not null"`
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
	RequestID   string         `gorm:"type:varchar(64)"`
	CreatedAt   time.Time      `gorm:"index:idx_audit_logs_actor_created"`
}

func (Log) TableName() string { return "audit_logs" }
