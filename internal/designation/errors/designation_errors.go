package designationerrors

import (
	"net/http"

	"go-leavetrack/internal/shared/apperror"
)

var (
	ErrDesignationNotFound = apperror.New(
		apperror.CodeNotFound,
		"designation not found",
		http.StatusNotFound,
	)
	ErrDuplicateTitle = apperror.New(
		apperror.CodeConflict,
		"a designation with this title already exists",
		http.StatusConflict,
	)
	ErrDesignationReferenced = apperror.New(
		apperror.CodeConflict,
		"designation is still assigned to employees",
		http.StatusConflict,
	)
	ErrInvalidDesignationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid designation id",
		http.StatusBadRequest,
	)
)
