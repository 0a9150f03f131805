package rbac

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RolePermission is a company specific grant on top of the default policy.
type RolePermission struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_role_permission"`
	Role      string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_role_permission"`
	Resource  string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_role_permission"`
	Action    string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_role_permission"`
	CreatedAt time.Time
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

type Repository interface {
	ListByCompany(ctx context.Context, companyID string) ([]RolePermission, error)
	Create(ctx context.Context, p *RolePermission) error
	Delete(ctx context.Context, companyID, role, resource, action string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByCompany(ctx context.Context, companyID string) ([]RolePermission, error) {
	var rows []RolePermission
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("role, resource, action").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Create(ctx context.Context, p *RolePermission) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) Delete(ctx context.Context, companyID, role, resource, action string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("company_id = ? AND role = ? AND resource = ? AND action = ?", companyID, role, resource, action).
		Delete(&RolePermission{})
	return res.RowsAffected, res.Error
}
