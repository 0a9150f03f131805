package recruitment

import (
	"errors"
	"strings"

	recruitmenterrors "go-hrdash/internal/recruitment/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

var constraintErrors = map[string]error{
	"uq_applicant_reference": recruitmenterrors.ErrReferenceAlreadyExists,
	"uq_applicant_position":  recruitmenterrors.ErrApplicantAlreadyExists,
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return recruitmenterrors.ErrApplicantNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
			return mapped
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") {
		for name, mapped := range constraintErrors {
			if strings.Contains(errMsg, name) {
				return mapped
			}
		}
	}

	return err
}
