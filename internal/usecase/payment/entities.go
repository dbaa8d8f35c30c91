package payment

import (
	"time"

	"github.com/shopspring/decimal"

	loandomain "loantrackr-backend/internal/domain/loan"
)

type PaymentInput struct {
	Amount decimal.Decimal
	Method loandomain.PaymentMethod
}

type PaymentDTO struct {
	PaymentID         string          `json:"payment_id"`
	TransactionID     string          `json:"transaction_id"`
	Status            string          `json:"status"`
	Amount            decimal.Decimal `json:"amount"`
	InstallmentNumber int             `json:"installment_number"`
	RemainingAmount   decimal.Decimal `json:"remaining_amount"`
	NextDueDate       *time.Time      `json:"next_due_date"`
	Message           string          `json:"message"`
}

type InstallmentDTO struct {
	InstallmentNumber int                 `json:"installment_number"`
	EmiAmount         decimal.Decimal     `json:"emi_amount"`
	PrincipalAmount   decimal.Decimal     `json:"principal_amount"`
	InterestAmount    decimal.Decimal     `json:"interest_amount"`
	DueDate           time.Time           `json:"due_date"`
	PaidDate          *time.Time          `json:"paid_date,omitempty"`
	Status            string              `json:"status"`
	LateFee           decimal.Decimal     `json:"late_fee"`
	TotalAmountPaid   decimal.NullDecimal `json:"total_amount_paid,omitempty"`
}

type PaymentRecordDTO struct {
	PaymentID            string          `json:"payment_id"`
	InstallmentNumber    int             `json:"installment_number"`
	Amount               decimal.Decimal `json:"amount"`
	PaymentMethod        string          `json:"payment_method"`
	Status               string          `json:"status"`
	TransactionID        string          `json:"transaction_id"`
	GatewayTransactionID string          `json:"gateway_transaction_id"`
	FailureReason        string          `json:"failure_reason,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	PaidAt               *time.Time      `json:"paid_at,omitempty"`
}

type LoanDetailsDTO struct {
	LoanID                string          `json:"loan_id"`
	BorrowerID            string          `json:"borrower_id"`
	PrincipalAmount       decimal.Decimal `json:"principal_amount"`
	TotalAmountToRepay    decimal.Decimal `json:"total_amount_to_repay"`
	RemainingAmount       decimal.Decimal `json:"remaining_amount"`
	TotalInterestAmount   decimal.Decimal `json:"total_interest_amount"`
	TotalInstallments     int             `json:"total_installments"`
	PaidInstallments      int             `json:"paid_installments"`
	RemainingInstallments int             `json:"remaining_installments"`
	CompletionPercentage  decimal.Decimal `json:"completion_percentage"`
	NextDueDate           *time.Time      `json:"next_due_date"`
	Status                string          `json:"status"`
	DisbursedAt           time.Time       `json:"disbursed_at"`
	FullyRepaidAt         *time.Time      `json:"fully_repaid_at,omitempty"`
	FullyRepaid           bool            `json:"is_fully_repaid"`
}
