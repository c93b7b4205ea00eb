package events

import "time"

const EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"

const (
	EmployeeCreatedEvent     = "employee.created"
	EmployeeDeactivatedEvent = "employee.deactivated"
	EmployeeActivatedEvent   = "employee.activated"
)

type EmployeeLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID string    `json:"employee_id"`
	Code       string    `json:"code"`
	OccurredAt time.Time `json:"occurred_at"`
}
