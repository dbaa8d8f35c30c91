package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the loan row for the transaction; it is
	// the serialization point for payment application.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	ListByLenderAndStatus(ctx context.Context, lenderID string, status Status) ([]Loan, error)
}

type ScheduleRepository interface {
	CreateBatch(ctx context.Context, items []RepaymentSchedule) error
	Save(ctx context.Context, s *RepaymentSchedule) error
	// NextPending returns the PENDING installment with the lowest
	// installment number, the only legal settlement target.
	NextPending(ctx context.Context, loanID uint64) (*RepaymentSchedule, error)
	ListByLoan(ctx context.Context, loanID uint64) ([]RepaymentSchedule, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	// ListByLoan returns attempts newest first.
	ListByLoan(ctx context.Context, loanID uint64) ([]Payment, error)
}
