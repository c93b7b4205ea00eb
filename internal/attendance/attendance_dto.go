package attendance

import "time"

type MarkSelfRequest struct {
	Date   string `json:"date" binding:"required"`
	Status string `json:"status" binding:"required"`
}

type MarkOrCorrectRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Date       string `json:"date" binding:"required"`
	Status     string `json:"status" binding:"required"`
	Reason     string `json:"reason"`
}

type AttendanceResponse struct {
	ID               string `json:"id"`
	EmployeeID       string `json:"employee_id"`
	Date             string `json:"date"`
	Status           string `json:"status"`
	MarkedBy         string `json:"marked_by"`
	IsSelfMarked     bool   `json:"is_self_marked"`
	CorrectionReason string `json:"correction_reason,omitempty"`
	MarkedAt         string `json:"marked_at"`
	CorrectedAt      string `json:"corrected_at,omitempty"`
}

// MonthlyDay is one calendar day of the monthly view. Recorded days carry
// the stored status; the rest are synthesized and flagged as derived.
type MonthlyDay struct {
	Date    string `json:"date"`
	Status  string `json:"status"`
	Derived bool   `json:"derived"`
	Note    string `json:"note,omitempty"`
}

type MonthlyViewResponse struct {
	EmployeeID string       `json:"employee_id"`
	Month      int          `json:"month"`
	Year       int          `json:"year"`
	Days       []MonthlyDay `json:"days"`
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:               a.ID.String(),
		EmployeeID:       a.EmployeeID.String(),
		Date:             a.Date.Format(time.DateOnly),
		Status:           a.Status,
		MarkedBy:         a.MarkedBy.String(),
		IsSelfMarked:     a.IsSelfMarked,
		CorrectionReason: a.CorrectionReason,
		MarkedAt:         a.MarkedAt.UTC().Format(time.RFC3339),
	}
	if a.CorrectedAt != nil {
		resp.CorrectedAt = a.CorrectedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
