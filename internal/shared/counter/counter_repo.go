package counter

import (
	"context"
	"database/sql"
	"fmt"

	"go-hrdash/internal/shared/gormtx"

	"gorm.io/gorm"
)

const (
	EmployeeNumber     = "employee_number"
	ApplicantReference = "applicant_reference"
	employeeNumberFmt  = "EMP-%06d"
	applicantRefNumFmt = "APP-%06d"
)

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// GetNextValue increments the per-company counter atomically and returns the
// new value, starting at 1.
func (r *repository) GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error) {
	var nextValue int64
	err := gormtx.Conn(ctx, r.db, r.tx).Raw(`
		INSERT INTO company_counters (company_id, counter_type, last_value, updated_at)
		VALUES (?, ?, 1, now())
		ON CONFLICT (company_id, counter_type) DO UPDATE
		SET last_value = company_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, companyID, counterType).Scan(&nextValue).Error
	if err != nil {
		return 0, err
	}
	return nextValue, nil
}

func FormatEmployeeNumber(n int64) string {
	return fmt.Sprintf(employeeNumberFmt, n)
}

func FormatApplicantReference(n int64) string {
	return fmt.Sprintf(applicantRefNumFmt, n)
}
