package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	appDomain "loantrackr-backend/internal/domain/application"
)

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *appDomain.LoanApplication) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApplicationRepository) Save(ctx context.Context, a *appDomain.LoanApplication) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *ApplicationRepository) GetByApplicationID(ctx context.Context, applicationID string) (*appDomain.LoanApplication, error) {
	var out appDomain.LoanApplication
	res := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		First(&out)
	return &out, res.Error
}

func (r *ApplicationRepository) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*appDomain.LoanApplication, error) {
	var out appDomain.LoanApplication
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("application_id = ?", applicationID).
		First(&out)
	return &out, res.Error
}

func (r *ApplicationRepository) ExistsByBorrowerAndStatusIn(ctx context.Context, borrowerID string, statuses []appDomain.Status) (bool, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&appDomain.LoanApplication{}).
		Where("borrower_id = ? AND status IN ?", borrowerID, statuses).
		Count(&n)
	return n > 0, res.Error
}

func (r *ApplicationRepository) LatestByBorrowerAndStatus(ctx context.Context, borrowerID string, status appDomain.Status) (*appDomain.LoanApplication, error) {
	var out appDomain.LoanApplication
	res := r.db.WithContext(ctx).
		Where("borrower_id = ? AND status = ?", borrowerID, status).
		Order("applied_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *ApplicationRepository) ListByBorrower(ctx context.Context, borrowerID string) ([]appDomain.LoanApplication, error) {
	var out []appDomain.LoanApplication
	res := r.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Order("applied_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *ApplicationRepository) ListByLender(ctx context.Context, lenderID string) ([]appDomain.LoanApplication, error) {
	var out []appDomain.LoanApplication
	res := r.db.WithContext(ctx).
		Where("lender_id = ?", lenderID).
		Order("applied_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *ApplicationRepository) ListByLenderAndStatus(ctx context.Context, lenderID string, status appDomain.Status) ([]appDomain.LoanApplication, error) {
	var out []appDomain.LoanApplication
	res := r.db.WithContext(ctx).
		Where("lender_id = ? AND status = ?", lenderID, status).
		Order("applied_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}
