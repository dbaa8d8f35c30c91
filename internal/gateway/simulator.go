package gateway

import (
	"context"
	"log"
	"math/rand"
	"time"

	"loantrackr-backend/pkg/id"
)

const (
	defaultPaymentSuccessRate      = 0.90
	defaultDisbursementSuccessRate = 0.95
)

var failureReasons = []string{
	"Insufficient funds",
	"Card declined",
	"Network timeout",
	"Account blocked",
	"Invalid credentials",
	"Transaction limit exceeded",
}

// Simulator stands in for a real payment processor. Outcomes are random
// (90% payment / 95% disbursement success); only the response shape and
// terminal statuses are contractual.
type Simulator struct {
	r            *rand.Rand
	paymentRate  float64
	disburseRate float64
}

func NewSimulator() *Simulator {
	return NewSimulatorWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewSimulatorWithSource lets tests pin the outcome sequence.
func NewSimulatorWithSource(src rand.Source) *Simulator {
	return &Simulator{
		r:            rand.New(src),
		paymentRate:  defaultPaymentSuccessRate,
		disburseRate: defaultDisbursementSuccessRate,
	}
}

// WithRates overrides the success probabilities (0 always fails,
// 1 always succeeds).
func (s *Simulator) WithRates(payment, disbursement float64) *Simulator {
	s.paymentRate = payment
	s.disburseRate = disbursement
	return s
}

func (s *Simulator) Disburse(_ context.Context, req DisbursementRequest) (DisbursementResponse, error) {
	resp := DisbursementResponse{
		TransactionID: id.NewTransactionID("GW"),
		Status:        StatusSuccess,
		Amount:        req.Amount,
		DisbursedAt:   time.Now().UTC(),
	}
	if s.r.Float64() >= s.disburseRate {
		resp.Status = StatusFailed
		resp.FailureReason = "Insufficient funds in lender account"
	}
	log.Printf("gateway: disbursement loan=%s amount=%s status=%s txn=%s",
		req.LoanID, req.Amount, resp.Status, resp.TransactionID)
	return resp, nil
}

func (s *Simulator) SettlePayment(_ context.Context, req PaymentRequest) (PaymentResponse, error) {
	resp := PaymentResponse{
		TransactionID: id.NewTransactionID("GW"),
		Status:        StatusSuccess,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		ProcessedAt:   time.Now().UTC(),
	}
	if s.r.Float64() >= s.paymentRate {
		resp.Status = StatusFailed
		resp.FailureReason = failureReasons[s.r.Intn(len(failureReasons))]
	}
	log.Printf("gateway: payment loan=%s installment=%d amount=%s status=%s txn=%s",
		req.LoanID, req.InstallmentNumber, req.Amount, resp.Status, resp.TransactionID)
	return resp, nil
}
