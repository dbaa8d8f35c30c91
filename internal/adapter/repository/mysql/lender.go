package mysql

import (
	"context"

	"gorm.io/gorm"

	lenderDomain "loantrackr-backend/internal/domain/lender"
)

type LenderRepository struct{ db *gorm.DB }

func NewLenderRepository(db *gorm.DB) *LenderRepository { return &LenderRepository{db: db} }

func (r *LenderRepository) GetByLenderID(ctx context.Context, lenderID string) (*lenderDomain.Profile, error) {
	var out lenderDomain.Profile
	res := r.db.WithContext(ctx).Where("lender_id = ?", lenderID).First(&out)
	return &out, res.Error
}

func (r *LenderRepository) ListActive(ctx context.Context) ([]lenderDomain.Profile, error) {
	var out []lenderDomain.Profile
	res := r.db.WithContext(ctx).
		Where("verified = ? AND active = ?", true, true).
		Order("organization_name ASC").
		Find(&out)
	return out, res.Error
}
