package uow

import (
	"context"

	"loantrackr-backend/internal/domain/application"
	"loantrackr-backend/internal/domain/lender"
	"loantrackr-backend/internal/domain/loan"
	"loantrackr-backend/internal/domain/loanconfig"
)

// Repos bundles every repository bound to one transaction.
type Repos struct {
	Applications application.Repository
	Loans        loan.Repository
	Schedules    loan.ScheduleRepository
	Payments     loan.PaymentRepository
	Lenders      lender.Repository
	Configs      loanconfig.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn inside one transaction; any error rolls back.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row first, then runs fn. Installment
	// selection, late-fee write and balance update for one payment all
	// happen under this lock.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
