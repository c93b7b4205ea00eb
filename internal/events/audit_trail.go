package events

import "time"

const AuditTrailTopic = "hr.audit.trail.v1"

// AuditTrailEvent mirrors the audit_logs row that was written in the same
// transaction; downstream consumers (compliance archive, alerting) get the
// same before/after snapshot the row carries.
type AuditTrailEvent struct {
	EventType   string         `json:"event_type"`
	ActorID     string         `json:"actor_id"`
	Action      string         `json:"action"`
	Entity      string         `json:"entity"`
	EntityID    string         `json:"entity_id"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	RequestID   string         `json:"request_id,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}
