package leavetype

type CreateLeaveTypeRequest struct {
	Code                  string `json:"code" binding:"required,max=10"`
	Name                  string `json:"name" binding:"required,max=50"`
	IsPaid                *bool  `json:"is_paid" binding:"required"`
	RequiresDocumentation bool   `json:"requires_documentation"`
	MaxConsecutiveDays    *int   `json:"max_consecutive_days" binding:"omitempty,gt=0"`
	Description           string `json:"description"`
}

type UpdateLeaveTypeRequest struct {
	Name                  string `json:"name" binding:"required,max=50"`
	IsPaid                *bool  `json:"is_paid" binding:"required"`
	RequiresDocumentation bool   `json:"requires_documentation"`
	MaxConsecutiveDays    *int   `json:"max_consecutive_days" binding:"omitempty,gt=0"`
	Description           string `json:"description"`
}

type LeaveTypeResponse struct {
	ID                    string `json:"id"`
	Code                  string `json:"code"`
	Name                  string `json:"name"`
	IsPaid                bool   `json:"is_paid"`
	RequiresDocumentation bool   `json:"requires_documentation"`
	MaxConsecutiveDays    *int   `json:"max_consecutive_days,omitempty"`
	Description           string `json:"description,omitempty"`
}
