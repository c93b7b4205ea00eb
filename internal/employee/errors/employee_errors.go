package employeeerrors

import (
	"net/http"

	"go-leavetrack/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrDuplicateEmployee = apperror.New(
		apperror.CodeConflict,
		"an employee with this code or email already exists",
		http.StatusConflict,
	)
	ErrManagerIsSelf = apperror.New(
		apperror.CodeInvalidInput,
		"an employee cannot report to themself",
		http.StatusBadRequest,
	)
	ErrManagerCycle = apperror.New(
		apperror.CodeInvalidInput,
		"this reporting manager assignment would create a cycle",
		http.StatusBadRequest,
	)
	ErrManagerNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"reporting manager does not exist",
		http.StatusBadRequest,
	)
	ErrAlreadyInactive = apperror.New(
		apperror.CodeInvalidState,
		"employee is already deactivated",
		http.StatusConflict,
	)
	ErrAlreadyActive = apperror.New(
		apperror.CodeInvalidState,
		"employee is already active",
		http.StatusConflict,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
