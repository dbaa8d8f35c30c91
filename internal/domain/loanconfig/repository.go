package loanconfig

import "context"

type Repository interface {
	// GetActive returns the active configuration row, or
	// gorm.ErrRecordNotFound if none is flagged active.
	GetActive(ctx context.Context) (*Config, error)
}
