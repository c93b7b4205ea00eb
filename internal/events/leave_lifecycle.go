package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	LeaveRequestedEvent = "leave.requested"
	LeaveApprovedEvent  = "leave.approved"
	LeaveRejectedEvent  = "leave.rejected"
	LeaveCancelledEvent = "leave.cancelled"
)

// LeaveLifecycleEvent notifies downstream consumers (manager inbox,
// calendar sync) of a leave request transition.
type LeaveLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	EmployeeID string    `json:"employee_id"`
	LeaveType  string    `json:"leave_type"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	TotalDays  string    `json:"total_days"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
