package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go-leavetrack/internal/events"
	"go-leavetrack/internal/messaging/kafka"
	"go-leavetrack/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Action kinds. Closed set mirrored by the compliance consumer.
const (
	ActionLeaveApproved        = "LEAVE_APPROVED"
	ActionLeaveRejected        = "LEAVE_REJECTED"
	ActionLeaveCancelled       = "LEAVE_CANCELLED"
	ActionBalanceAllocated     = "BALANCE_ALLOCATED"
	ActionBalanceAdjusted      = "BALANCE_ADJUSTED"
	ActionAttendanceMarked     = "ATTENDANCE_MARKED"
	ActionAttendanceCorrected  = "ATTENDANCE_CORRECTED"
	ActionEmployeeCreated      = "EMPLOYEE_CREATED"
	ActionEmployeeUpdated      = "EMPLOYEE_UPDATED"
	ActionEmployeeDeactivated  = "EMPLOYEE_DEACTIVATED"
	ActionEmployeeActivated    = "EMPLOYEE_ACTIVATED"
	ActionHolidayCreated       = "HOLIDAY_CREATED"
	ActionHolidayUpdated       = "HOLIDAY_UPDATED"
	ActionHolidayDeleted       = "HOLIDAY_DELETED"
)

// Entry is one audit fact: who did what to which entity, with the
// before/after snapshot in Metadata.
type Entry struct {
	ActorID     string
	Action      string
	Entity      string
	EntityID    string
	Description string
	Metadata    map[string]any
}

//go:generate mockgen -source=audit_recorder.go -destination=mock/audit_recorder_mock.go -package=mock

// Recorder appends audit entries. Record must run inside the caller's
// transaction so the audit row commits or rolls back with the mutation it
// describes.
type Recorder interface {
	Record(ctx context.Context, tx *sql.Tx, e Entry) error
}

type recorder struct {
	db     *sql.DB
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewRecorder(db *sql.DB, outbox kafka.OutboxRepository, logger ...*zap.Logger) Recorder {
	l := zap.L().Named("audit.recorder")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.recorder")
	}
	return &recorder{db: db, outbox: outbox, logger: l}
}

func (r *recorder) Record(ctx context.Context, tx *sql.Tx, e Entry) error {
	rid := contextutil.GetRequestID(ctx)

	meta, err := json.Marshal(e.Metadata)
	if err != nil {
		return err
	}

	id := uuid.New()
	query := `
        INSERT INTO audit_logs (
            id, actor_id, action, entity, entity_id, description, metadata, request_id
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	exec := r.execer(tx)
	if _, err := exec.ExecContext(
		ctx, query,
		id, nullableUUID(e.ActorID), e.Action, e.Entity, e.EntityID, e.Description, meta, rid,
	); err != nil {
		r.logger.Error("audit insert failed",
			zap.String("action", e.Action),
			zap.String("entity", e.Entity),
			zap.Error(err),
		)
		return err
	}

	payload, err := json.Marshal(events.AuditTrailEvent{
		EventType:   "audit.recorded",
		ActorID:     e.ActorID,
		Action:      e.Action,
		Entity:      e.Entity,
		EntityID:    e.EntityID,
		Description: e.Description,
		Metadata:    e.Metadata,
		RequestID:   rid,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	outbox := r.outbox
	if tx != nil {
		outbox = r.outbox.WithTx(tx)
	}
	return outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     rid,
		AggregateType: e.Entity,
		AggregateID:   e.EntityID,
		EventType:     "audit.recorded",
		Topic:         events.AuditTrailTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (r *recorder) execer(tx *sql.Tx) interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if tx != nil {
		return tx
	}
	return r.db
}

func nullableUUID(s string) any {
	if s == "" {
		return nil
	}
	return s
}
