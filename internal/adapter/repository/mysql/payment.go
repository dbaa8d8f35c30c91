package mysql

import (
	"context"

	"gorm.io/gorm"

	loanDomain "loantrackr-backend/internal/domain/loan"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *loanDomain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) ListByLoan(ctx context.Context, loanID uint64) ([]loanDomain.Payment, error) {
	var out []loanDomain.Payment
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}
