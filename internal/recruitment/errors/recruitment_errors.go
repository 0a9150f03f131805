package recruitmenterrors

import (
	"net/http"

	"go-hrdash/internal/shared/apperror"
)

var (
	ErrApplicantNotFound = apperror.New(
		apperror.CodeNotFound,
		"Applicant not found",
		http.StatusNotFound,
	)
	ErrApplicantAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Applicant already applied for this position",
		http.StatusConflict,
	)
	ErrReferenceAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Applicant reference number already exists in this company",
		http.StatusConflict,
	)
	ErrInvalidApplicantID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid applicant ID",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid actor ID",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidStage = apperror.New(
		apperror.CodeInvalidInput,
		"Stage must be one of SCREENING, INTERVIEW, OFFER",
		http.StatusBadRequest,
	)
	ErrInvalidStageFilter = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown applicant stage",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"Decision must be hire or reject",
		http.StatusBadRequest,
	)
	ErrApplicantAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"Applicant has already been decided",
		http.StatusBadRequest,
	)
	ErrStageNotForward = apperror.New(
		apperror.CodeInvalidState,
		"Applicant can only move forward in the pipeline",
		http.StatusBadRequest,
	)
)
