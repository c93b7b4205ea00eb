package leave

import "time"

type ApplyLeaveRequest struct {
	// EmployeeID is optional: empty means the actor applies for themself.
	// Managers and admins may apply on behalf of someone in scope.
	EmployeeID     string `json:"employee_id" binding:"omitempty,uuid"`
	LeaveTypeID    string `json:"leave_type_id" binding:"required,uuid"`
	StartDate      string `json:"start_date" binding:"required"`
	EndDate        string `json:"end_date" binding:"required"`
	Reason         string `json:"reason" binding:"required"`
	AttachmentPath string `json:"attachment_path"`
}

type ApproveLeaveRequest struct {
	Comment string `json:"comment"`
}

type RejectLeaveRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ListLeaveFilter struct {
	EmployeeID string
	Status     string
	Limit      int
	Offset     int
}

type LeaveResponse struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employee_id"`
	LeaveTypeID     string `json:"leave_type_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	TotalDays       string `json:"total_days"`
	Reason          string `json:"reason"`
	AttachmentPath  string `json:"attachment_path,omitempty"`
	Status          string `json:"status"`
	AppliedAt       string `json:"applied_at"`
	ApprovedBy      string `json:"approved_by,omitempty"`
	DecisionAt      string `json:"decision_at,omitempty"`
	ManagerComments string `json:"manager_comments,omitempty"`
}

func mapToResponse(lr LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:              lr.ID.String(),
		EmployeeID:      lr.EmployeeID.String(),
		LeaveTypeID:     lr.LeaveTypeID.String(),
		StartDate:       lr.StartDate.Format(time.DateOnly),
		EndDate:         lr.EndDate.Format(time.DateOnly),
		TotalDays:       lr.TotalDays.StringFixed(1),
		Reason:          lr.Reason,
		AttachmentPath:  lr.AttachmentPath,
		Status:          lr.Status,
		AppliedAt:       lr.AppliedAt.UTC().Format(time.RFC3339),
		ManagerComments: lr.ManagerComments,
	}
	if lr.ApprovedBy != nil {
		resp.ApprovedBy = lr.ApprovedBy.String()
	}
	if lr.DecisionAt != nil {
		resp.DecisionAt = lr.DecisionAt.UTC().Format(time.RFC3339)
	}
	return resp
}
