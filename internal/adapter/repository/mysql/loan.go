package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "loantrackr-backend/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ListByLenderAndStatus(ctx context.Context, lenderID string, status loanDomain.Status) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("lender_id = ? AND status = ?", lenderID, status).
		Order("disbursed_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}
