package balanceerrors

import (
	"net/http"

	"go-leavetrack/internal/shared/apperror"
)

var (
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"no leave balance allocated for this employee, leave type and year",
		http.StatusNotFound,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"insufficient leave balance",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidBalanceInput = apperror.New(
		apperror.CodeInvalidInput,
		"invalid balance input",
		http.StatusBadRequest,
	)
	ErrAdjustReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"a reason is required when adjusting a balance",
		http.StatusBadRequest,
	)
)
