// Package gatewaymock is a func-backed settlement gateway test double.
package gatewaymock

import (
	"context"

	"loantrackr-backend/internal/gateway"
)

type Gateway struct {
	DisburseFn func(ctx context.Context, req gateway.DisbursementRequest) (gateway.DisbursementResponse, error)
	SettleFn   func(ctx context.Context, req gateway.PaymentRequest) (gateway.PaymentResponse, error)
}

func (g *Gateway) Disburse(ctx context.Context, req gateway.DisbursementRequest) (gateway.DisbursementResponse, error) {
	return g.DisburseFn(ctx, req)
}

func (g *Gateway) SettlePayment(ctx context.Context, req gateway.PaymentRequest) (gateway.PaymentResponse, error) {
	return g.SettleFn(ctx, req)
}

// AlwaysSucceed returns a gateway approving everything, echoing the
// request amount and stamping fixed transaction ids.
func AlwaysSucceed() *Gateway {
	return &Gateway{
		DisburseFn: func(_ context.Context, req gateway.DisbursementRequest) (gateway.DisbursementResponse, error) {
			return gateway.DisbursementResponse{
				TransactionID: "GW-disb-" + req.LoanID,
				Status:        gateway.StatusSuccess,
				Amount:        req.Amount,
			}, nil
		},
		SettleFn: func(_ context.Context, req gateway.PaymentRequest) (gateway.PaymentResponse, error) {
			return gateway.PaymentResponse{
				TransactionID: "GW-pay-" + req.LoanID,
				Status:        gateway.StatusSuccess,
				Amount:        req.Amount,
				PaymentMethod: req.PaymentMethod,
			}, nil
		},
	}
}

// AlwaysFail returns a gateway declining everything with the given reason.
func AlwaysFail(reason string) *Gateway {
	return &Gateway{
		DisburseFn: func(_ context.Context, req gateway.DisbursementRequest) (gateway.DisbursementResponse, error) {
			return gateway.DisbursementResponse{
				TransactionID: "GW-disb-" + req.LoanID,
				Status:        gateway.StatusFailed,
				Amount:        req.Amount,
				FailureReason: reason,
			}, nil
		},
		SettleFn: func(_ context.Context, req gateway.PaymentRequest) (gateway.PaymentResponse, error) {
			return gateway.PaymentResponse{
				TransactionID: "GW-pay-" + req.LoanID,
				Status:        gateway.StatusFailed,
				Amount:        req.Amount,
				PaymentMethod: req.PaymentMethod,
				FailureReason: reason,
			}, nil
		},
	}
}
