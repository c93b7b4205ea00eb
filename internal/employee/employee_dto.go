package employee

import "time"

type CreateEmployeeRequest struct {
	Code               string `json:"code" binding:"required,max=20"`
	FullName           string `json:"full_name" binding:"required,max=200"`
	Email              string `json:"email" binding:"required,email"`
	Phone              string `json:"phone" binding:"omitempty,max=20"`
	Role               string `json:"role" binding:"required,oneof=EMPLOYEE MANAGER ADMIN"`
	ReportingManagerID string `json:"reporting_manager_id" binding:"omitempty,uuid"`
	DepartmentID       string `json:"department_id" binding:"omitempty,uuid"`
	DesignationID      string `json:"designation_id" binding:"omitempty,uuid"`
	DateOfJoining      string `json:"date_of_joining" binding:"required"`
}

type UpdateEmployeeRequest struct {
	FullName           string `json:"full_name" binding:"required,max=200"`
	Email              string `json:"email" binding:"required,email"`
	Phone              string `json:"phone" binding:"omitempty,max=20"`
	Role               string `json:"role" binding:"required,oneof=EMPLOYEE MANAGER ADMIN"`
	ReportingManagerID string `json:"reporting_manager_id" binding:"omitempty,uuid"`
	DepartmentID       string `json:"department_id" binding:"omitempty,uuid"`
	DesignationID      string `json:"designation_id" binding:"omitempty,uuid"`
}

type EmployeeResponse struct {
	ID                 string `json:"id"`
	Code               string `json:"code"`
	FullName           string `json:"full_name"`
	Email              string `json:"email"`
	Phone              string `json:"phone,omitempty"`
	Role               string `json:"role"`
	ReportingManagerID string `json:"reporting_manager_id,omitempty"`
	DepartmentID       string `json:"department_id,omitempty"`
	DesignationID      string `json:"designation_id,omitempty"`
	DateOfJoining      string `json:"date_of_joining"`
	IsActive           bool   `json:"is_active"`
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:            e.ID.String(),
		Code:          e.Code,
		FullName:      e.FullName,
		Email:         e.Email,
		Phone:         e.Phone,
		Role:          e.Role,
		DateOfJoining: e.DateOfJoining.Format(time.DateOnly),
		IsActive:      e.IsActive,
	}
	if e.ReportingManagerID != nil {
		resp.ReportingManagerID = e.ReportingManagerID.String()
	}
	if e.DepartmentID != nil {
		resp.DepartmentID = e.DepartmentID.String()
	}
	if e.DesignationID != nil {
		resp.DesignationID = e.DesignationID.String()
	}
	return resp
}
