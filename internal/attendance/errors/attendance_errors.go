package attendanceerrors

import (
	"net/http"

	"go-leavetrack/internal/shared/apperror"
)

var (
	ErrAttendanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance record not found",
		http.StatusNotFound,
	)
	ErrAlreadyMarked = apperror.New(
		apperror.CodeConflict,
		"attendance is already marked for this day",
		http.StatusConflict,
	)
	ErrHolidayConflict = apperror.New(
		apperror.CodeConflict,
		"cannot mark attendance on a holiday",
		http.StatusConflict,
	)
	ErrNotToday = apperror.New(
		apperror.CodeInvalidInput,
		"self-marking is only allowed for today",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid attendance status",
		http.StatusBadRequest,
	)
	ErrCorrectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"a reason is required when overwriting an existing attendance record",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"month must be between 1 and 12",
		http.StatusBadRequest,
	)
)
