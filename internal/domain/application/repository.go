package application

import "context"

type Repository interface {
	Create(ctx context.Context, a *LoanApplication) error
	Save(ctx context.Context, a *LoanApplication) error
	GetByApplicationID(ctx context.Context, applicationID string) (*LoanApplication, error)
	// GetByApplicationIDForUpdate locks the row for the transaction.
	GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*LoanApplication, error)
	ExistsByBorrowerAndStatusIn(ctx context.Context, borrowerID string, statuses []Status) (bool, error)
	// LatestByBorrowerAndStatus returns the most recently submitted match.
	LatestByBorrowerAndStatus(ctx context.Context, borrowerID string, status Status) (*LoanApplication, error)
	ListByBorrower(ctx context.Context, borrowerID string) ([]LoanApplication, error)
	ListByLender(ctx context.Context, lenderID string) ([]LoanApplication, error)
	ListByLenderAndStatus(ctx context.Context, lenderID string, status Status) ([]LoanApplication, error)
}
