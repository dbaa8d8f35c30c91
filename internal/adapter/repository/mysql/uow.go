package mysql

import (
	"context"

	"gorm.io/gorm"

	"loantrackr-backend/internal/domain/loan"
	"loantrackr-backend/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Applications: &ApplicationRepository{db: tx},
		Loans:        &LoanRepository{db: tx},
		Schedules:    &ScheduleRepository{db: tx},
		Payments:     &PaymentRepository{db: tx},
		Lenders:      &LenderRepository{db: tx},
		Configs:      &ConfigRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repos(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repos(tx)
		// lock the loan row up-front to serialize payments per loan
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}
