package apperror

import (
	"fmt"
	"net/http"
)

// ErrInternal is what clients see for any failure they cannot act on.
var ErrInternal = New(CodeInternalError, "Internal server error", http.StatusInternalServerError)

// RequiredField reports a missing request field using its human readable name.
func RequiredField(field string) *AppError {
	return New(CodeValidationError, fmt.Sprintf("%s is required", field), http.StatusBadRequest)
}

// InvalidField reports a request field that failed validation.
func InvalidField(field string) *AppError {
	return New(CodeValidationError, fmt.Sprintf("%s is invalid", field), http.StatusBadRequest)
}

// Unavailable wraps a dependency failure the client may retry later.
func Unavailable(err error, message string) *AppError {
	return Wrap(err, CodeServiceUnavailable, message, http.StatusServiceUnavailable)
}
