package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"go-hrdash/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error", func(t *testing.T) {
		err := apperror.New(apperror.CodeConflict, "duplicate", http.StatusConflict)
		got := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusConflict, got.Status)
		assert.Equal(t, apperror.CodeConflict, got.Code)
		assert.Equal(t, "duplicate", got.Message)
	})

	t.Run("wrapped app error", func(t *testing.T) {
		base := apperror.New(apperror.CodeNotFound, "leave not found", http.StatusNotFound)
		got := apperror.ToHTTP(fmt.Errorf("lookup: %w", base))
		assert.Equal(t, http.StatusNotFound, got.Status)
		assert.Equal(t, apperror.CodeNotFound, got.Code)
	})

	t.Run("unknown error is hidden", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("pq: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.CodeInternalError, got.Code)
		assert.Equal(t, "Internal server error", got.Message)
	})
}

func TestWrap(t *testing.T) {
	assert.Nil(t, apperror.Wrap(nil, apperror.CodeInternalError, "x", 500))

	cause := errors.New("boom")
	err := apperror.Wrap(cause, apperror.CodeServiceUnavailable, "upstream down", http.StatusServiceUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "upstream down: boom", err.Error())
}

func TestUnavailable(t *testing.T) {
	cause := errors.New("connection refused")
	got := apperror.ToHTTP(apperror.Unavailable(cause, "try again later"))

	assert.Equal(t, http.StatusServiceUnavailable, got.Status)
	assert.Equal(t, apperror.CodeServiceUnavailable, got.Code)
	assert.Equal(t, "try again later", got.Message)
}

type sample struct {
	StartDate string `json:"start_date" validate:"required"`
	Year      int    `form:"year" validate:"min=1900"`
}

func TestMapValidationError(t *testing.T) {
	v := validator.New()
	v.RegisterTagNameFunc(apperror.JSONTagName)

	t.Run("required", func(t *testing.T) {
		err := apperror.MapValidationError(v.Struct(sample{Year: 2025}))
		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeValidationError, appErr.Code)
		assert.Equal(t, "Start Date is required", appErr.Message)
	})

	t.Run("invalid uses form tag", func(t *testing.T) {
		err := apperror.MapValidationError(v.Struct(sample{StartDate: "2025-01-01", Year: 10}))
		assert.Equal(t, "Year is invalid", err.Error())
	})

	t.Run("non validator error", func(t *testing.T) {
		err := apperror.MapValidationError(errors.New("unexpected EOF"))
		assert.Equal(t, http.StatusBadRequest, apperror.ToHTTP(err).Status)
	})
}

func TestJSONTagName(t *testing.T) {
	typ := reflect.TypeOf(struct {
		A string `json:"a_field,omitempty"`
		B string `json:"-"`
		C string `form:"c_field"`
		D string
	}{})
	assert.Equal(t, "a_field", apperror.JSONTagName(typ.Field(0)))
	assert.Equal(t, "", apperror.JSONTagName(typ.Field(1)))
	assert.Equal(t, "c_field", apperror.JSONTagName(typ.Field(2)))
	assert.Equal(t, "", apperror.JSONTagName(typ.Field(3)))
}
