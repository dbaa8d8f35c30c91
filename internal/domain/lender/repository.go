package lender

import "context"

type Repository interface {
	GetByLenderID(ctx context.Context, lenderID string) (*Profile, error)
	ListActive(ctx context.Context) ([]Profile, error)
}
