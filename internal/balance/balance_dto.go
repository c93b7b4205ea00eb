package balance

type AllocateBalanceRequest struct {
	EmployeeID  string  `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID string  `json:"leave_type_id" binding:"required,uuid"`
	Year        int     `json:"year" binding:"required,min=1900,max=9999"`
	Days        float64 `json:"days" binding:"gte=0"`
}

type AdjustBalanceRequest struct {
	EmployeeID  string  `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID string  `json:"leave_type_id" binding:"required,uuid"`
	Year        int     `json:"year" binding:"required,min=1900,max=9999"`
	Delta       float64 `json:"delta" binding:"required"`
	Reason      string  `json:"reason" binding:"required"`
}

type BalanceResponse struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`
	Year        int    `json:"year"`
	Allocated   string `json:"allocated"`
	Used        string `json:"used"`
	Adjusted    string `json:"adjusted"`
	Available   string `json:"available"`
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		ID:          b.ID.String(),
		EmployeeID:  b.EmployeeID.String(),
		LeaveTypeID: b.LeaveTypeID.String(),
		Year:        b.Year,
		Allocated:   b.Allocated.StringFixed(1),
		Used:        b.Used.StringFixed(1),
		Adjusted:    b.Adjusted.StringFixed(1),
		Available:   b.Available().StringFixed(1),
	}
}
