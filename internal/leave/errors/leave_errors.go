package leaveerrors

import (
	"fmt"
	"net/http"

	"go-leavetrack/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start date must not be after end date",
		http.StatusBadRequest,
	)
	ErrOverlappingRequest = apperror.New(
		apperror.CodeConflict,
		"an active leave request already covers part of this period",
		http.StatusConflict,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"leave request is not in a state that allows this transition",
		http.StatusConflict,
	)
	ErrSelfApproval = apperror.New(
		apperror.CodeForbidden,
		"you cannot decide your own leave request",
		http.StatusForbidden,
	)
	ErrNotApprover = apperror.New(
		apperror.CodeForbidden,
		"only the reporting manager or an admin may decide this request",
		http.StatusForbidden,
	)
	ErrRejectReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"a reason is required when rejecting a leave request",
		http.StatusBadRequest,
	)
	ErrAttachmentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"this leave type requires supporting documentation",
		http.StatusBadRequest,
	)
)

// ExceedsMaxConsecutive carries the type's cap so the client can show it.
func ExceedsMaxConsecutive(cap int) *apperror.AppError {
	return apperror.New(
		apperror.CodeInvalidInput,
		fmt.Sprintf("request exceeds the maximum of %d consecutive days for this leave type", cap),
		http.StatusBadRequest,
	)
}
