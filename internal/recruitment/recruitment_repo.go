package recruitment

import (
	"context"
	"database/sql"

	"go-hrdash/internal/shared/gormtx"
	"go-hrdash/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=recruitment_repo.go -destination=mock/recruitment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Applicant) error
	FindAllByCompany(ctx context.Context, companyID string, filter ListApplicantsRequest) ([]Applicant, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Applicant, error)
	FindByIDForUpdate(ctx context.Context, companyID, id string) (*Applicant, error)
	Update(ctx context.Context, a *Applicant) error
	Delete(ctx context.Context, companyID, id string) error
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

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return gormtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, a *Applicant) error {
	return r.conn(ctx).Create(a).Error
}

// FindAllByCompany filters on stored columns only. Stage is derived and is
// filtered by the caller.
func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListApplicantsRequest) ([]Applicant, error) {
	q := r.conn(ctx).Scopes(tenant.Scope(companyID), tenant.YearScope("applied_at", filter.Year))
	if filter.Position != "" {
		q = q.Where("LOWER(position) = LOWER(?)", filter.Position)
	}

	var applicants []Applicant
	err := q.Order("applied_at DESC, reference_no DESC").Find(&applicants).Error
	return applicants, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Applicant, error) {
	var a Applicant
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (r *repository) FindByIDForUpdate(ctx context.Context, companyID, id string) (*Applicant, error) {
	var a Applicant
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) Update(ctx context.Context, a *Applicant) error {
	return r.conn(ctx).Save(a).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	res := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Applicant{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
