package application

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusDisbursed Status = "DISBURSED"
	StatusWithdrawn Status = "WITHDRAWN"
)

// ActiveStatuses are the states that count against the single-active-loan
// invariant: at most one application per borrower may be in any of them.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusApproved, StatusDisbursed}
}

// Terminal reports whether no further application transition is legal.
// DISBURSED is terminal for the application; the Loan carries on.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusWithdrawn || s == StatusDisbursed
}

// LoanApplication is one borrower's request to one lender. Rate, fee and
// EMI are snapshots of the lender's terms at submission time and never
// re-read from the profile afterwards.
type LoanApplication struct {
	ID            uint64 `gorm:"primaryKey;column:id" json:"-"`
	ApplicationID string `gorm:"size:32;uniqueIndex:ux_applications_application_id" json:"application_id"`
	BorrowerID    string `gorm:"size:32;index:idx_applications_borrower" json:"borrower_id"`
	LenderID      string `gorm:"size:32;index:idx_applications_lender" json:"lender_id"`
	// LoanRequested is net of the processing fee deducted at creation.
	LoanRequested decimal.Decimal `gorm:"type:decimal(15,2)" json:"loan_requested"`
	InterestRate  decimal.Decimal `gorm:"type:decimal(6,2)" json:"interest_rate"`
	ProcessingFee decimal.Decimal `gorm:"type:decimal(15,2)" json:"processing_fee"`
	TenureMonths  int             `gorm:"not null" json:"tenure_months"`
	EmiAmount     decimal.Decimal `gorm:"type:decimal(15,2)" json:"emi_amount"`
	Status        Status          `gorm:"size:16;index:idx_applications_status" json:"status"`
	Purpose       string          `gorm:"type:text" json:"purpose"`
	IncomeSource  string          `gorm:"size:64" json:"income_source"`
	MonthlyIncome decimal.Decimal `gorm:"type:decimal(15,2)" json:"monthly_income"`
	// LoanID links the funded Loan, set exactly once at disbursement.
	LoanID    *uint64    `gorm:"uniqueIndex:ux_applications_loan" json:"-"`
	AppliedAt time.Time  `gorm:"autoCreateTime" json:"applied_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"-"`
}

func (LoanApplication) TableName() string { return "loan_applications" }
