package mysql

import (
	"context"

	"gorm.io/gorm"

	loanDomain "loantrackr-backend/internal/domain/loan"
)

type ScheduleRepository struct{ db *gorm.DB }

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository { return &ScheduleRepository{db: db} }

func (r *ScheduleRepository) CreateBatch(ctx context.Context, items []loanDomain.RepaymentSchedule) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *ScheduleRepository) Save(ctx context.Context, s *loanDomain.RepaymentSchedule) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *ScheduleRepository) NextPending(ctx context.Context, loanID uint64) (*loanDomain.RepaymentSchedule, error) {
	var out loanDomain.RepaymentSchedule
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND status = ?", loanID, loanDomain.RepaymentPending).
		Order("installment_number ASC").
		First(&out)
	return &out, res.Error
}

func (r *ScheduleRepository) ListByLoan(ctx context.Context, loanID uint64) ([]loanDomain.RepaymentSchedule, error) {
	var out []loanDomain.RepaymentSchedule
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("installment_number ASC").
		Find(&out)
	return out, res.Error
}
