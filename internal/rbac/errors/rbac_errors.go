package rbacerrors

import (
	"net/http"

	"go-hrdash/internal/shared/apperror"
)

var (
	ErrUnknownRole = apperror.New(
		apperror.CodeInvalidInput,
		"unknown role",
		http.StatusBadRequest,
	)
	ErrUnknownPermission = apperror.New(
		apperror.CodeInvalidInput,
		"unknown resource or action",
		http.StatusBadRequest,
	)
	ErrPermissionNotFound = apperror.New(
		apperror.CodeNotFound,
		"permission grant not found",
		http.StatusNotFound,
	)
	ErrBuiltInPermission = apperror.New(
		apperror.CodeConflict,
		"permission is already granted by default",
		http.StatusConflict,
	)
)
