package dashboard

import (
	"context"

	"go-hrdash/internal/employee"
	"go-hrdash/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	HeadcountByDepartment(ctx context.Context, companyID string) ([]NamedCount, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// HeadcountByDepartment counts employees in an active status, grouping blank
// departments under UnassignedDepartment.
func (r *repository) HeadcountByDepartment(ctx context.Context, companyID string) ([]NamedCount, error) {
	var rows []NamedCount
	err := r.db.WithContext(ctx).
		Model(&employee.Employee{}).
		Select("COALESCE(NULLIF(TRIM(department), ''), ?) AS name, COUNT(*) AS count", UnassignedDepartment).
		Scopes(tenant.Scope(companyID)).
		Where("employment_status IN ?", employee.ActiveStatuses).
		Group("name").
		Order("count DESC, name ASC").
		Scan(&rows).Error
	return rows, err
}
