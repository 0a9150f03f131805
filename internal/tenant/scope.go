package tenant

import (
	"fmt"

	"gorm.io/gorm"
)

func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

// YearScope keeps rows whose date column falls in year. A zero year is a
// no-op.
func YearScope(column string, year int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if year == 0 {
			return db
		}
		return db.Where(fmt.Sprintf("EXTRACT(YEAR FROM %s) = ?", column), year)
	}
}
