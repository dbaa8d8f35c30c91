// Package gateway defines the settlement processor contract. The gateway
// is the sole source of truth for whether money moved; the engine acts
// only on a SUCCESS outcome and records everything else as a failed
// attempt.
package gateway

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusSuccess   Status = "SUCCESS"
	StatusFailed    Status = "FAILED"
	StatusPending   Status = "PENDING"
	StatusCancelled Status = "CANCELLED"
)

type DisbursementRequest struct {
	LoanID             string
	BorrowerAccountRef string
	Amount             decimal.Decimal
}

type DisbursementResponse struct {
	TransactionID string
	Status        Status
	Amount        decimal.Decimal
	FailureReason string
	DisbursedAt   time.Time
}

type PaymentRequest struct {
	Amount            decimal.Decimal
	PaymentMethod     string
	LoanID            string
	InstallmentNumber int
}

type PaymentResponse struct {
	TransactionID string
	Status        Status
	Amount        decimal.Decimal
	PaymentMethod string
	FailureReason string
	ProcessedAt   time.Time
}

// Gateway is synchronous: both calls return a definitive terminal
// outcome. A transport timeout must be surfaced as a FAILED response by
// the implementation, never left pending.
type Gateway interface {
	Disburse(ctx context.Context, req DisbursementRequest) (DisbursementResponse, error)
	SettlePayment(ctx context.Context, req PaymentRequest) (PaymentResponse, error)
}
