package application

import (
	"time"

	"github.com/shopspring/decimal"
)

type ApplyInput struct {
	Amount        decimal.Decimal
	TenureMonths  int
	Purpose       string
	IncomeSource  string
	MonthlyIncome decimal.Decimal
}

type ApplicationDTO struct {
	ApplicationID string          `json:"application_id"`
	LenderName    string          `json:"lender_name"`
	LoanAmount    decimal.Decimal `json:"loan_amount"`
	TenureMonths  int             `json:"tenure_months"`
	Emi           decimal.Decimal `json:"emi"`
	InterestRate  decimal.Decimal `json:"interest_rate"`
	ProcessingFee decimal.Decimal `json:"processing_fee"`
	Status        string          `json:"status"`
	Purpose       string          `json:"purpose,omitempty"`
	AppliedAt     time.Time       `json:"applied_at"`
}

// ApplicationForLenderDTO adds the borrower fields a lender reviews.
type ApplicationForLenderDTO struct {
	ApplicationDTO
	BorrowerID    string          `json:"borrower_id"`
	IncomeSource  string          `json:"income_source"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
}

type LenderSummaryDTO struct {
	LenderID         string          `json:"lender_id"`
	OrganizationName string          `json:"organization_name"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	ProcessingFee    decimal.Decimal `json:"processing_fee"`
	SupportedTenures []int           `json:"supported_tenures"`
}

type EmiPreviewDTO struct {
	Organization  string          `json:"organization"`
	Emi           decimal.Decimal `json:"emi"`
	TotalPayable  decimal.Decimal `json:"total_payable"`
	TotalInterest decimal.Decimal `json:"total_interest"`
	ProcessingFee decimal.Decimal `json:"processing_fee"`
}

type DisbursementDTO struct {
	LoanID          string          `json:"loan_id"`
	DisbursedAmount decimal.Decimal `json:"disbursed_amount"`
	EmiAmount       decimal.Decimal `json:"emi_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	TotalInterest   decimal.Decimal `json:"total_interest"`
	FirstDueDate    time.Time       `json:"first_due_date"`
	TransactionID   string          `json:"disbursement_transaction_id"`
	Message         string          `json:"message"`
}
