package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDisbursed Status = "DISBURSED"
	StatusClosed    Status = "CLOSED"
)

type RepaymentStatus string

const (
	RepaymentPending  RepaymentStatus = "PENDING"
	RepaymentPaid     RepaymentStatus = "PAID"
	RepaymentLatePaid RepaymentStatus = "LATE_PAID"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentSuccess   PaymentStatus = "SUCCESS"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

type PaymentMethod string

const (
	MethodUPI        PaymentMethod = "UPI"
	MethodCard       PaymentMethod = "CARD"
	MethodNetbanking PaymentMethod = "NETBANKING"
	MethodWallet     PaymentMethod = "WALLET"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodUPI, MethodCard, MethodNetbanking, MethodWallet:
		return true
	}
	return false
}

// Loan is the funded obligation created at disbursement.
//
// TotalAmountToRepay is the sum of the generated schedule's EMI amounts
// (the final installment absorbs rounding drift), so RemainingAmount
// reaches exactly zero when the last installment settles.
type Loan struct {
	ID     uint64 `gorm:"primaryKey;column:id" json:"-"`
	LoanID string `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	// ApplicationID is the numeric FK to the 1:1 application, immutable.
	ApplicationID       uint64          `gorm:"not null;uniqueIndex:ux_loans_application" json:"-"`
	BorrowerID          string          `gorm:"size:32;index:idx_loans_borrower" json:"borrower_id"`
	LenderID            string          `gorm:"size:32;index:idx_loans_lender" json:"lender_id"`
	PrincipalAmount     decimal.Decimal `gorm:"type:decimal(15,2)" json:"principal_amount"`
	TotalAmountToRepay  decimal.Decimal `gorm:"type:decimal(15,2)" json:"total_amount_to_repay"`
	RemainingAmount     decimal.Decimal `gorm:"type:decimal(15,2)" json:"remaining_amount"`
	TotalInterestAmount decimal.Decimal `gorm:"type:decimal(15,2)" json:"total_interest_amount"`
	TotalInstallments   int             `gorm:"not null" json:"total_installments"`
	PaidInstallments    int             `gorm:"not null;default:0" json:"paid_installments"`
	NextDueDate         *time.Time      `gorm:"type:date" json:"next_due_date"`
	Status              Status          `gorm:"size:16;index:idx_loans_status" json:"status"`
	DisbursedAt         time.Time       `gorm:"not null" json:"disbursed_at"`
	FullyRepaidAt       *time.Time      `json:"fully_repaid_at,omitempty"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"-"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"-"`
}

func (Loan) TableName() string { return "loans" }

func (l *Loan) FullyRepaid() bool { return l.PaidInstallments == l.TotalInstallments }

func (l *Loan) RemainingInstallments() int { return l.TotalInstallments - l.PaidInstallments }

// CompletionPercentage is paid/total as a percentage with 2 decimals.
func (l *Loan) CompletionPercentage() decimal.Decimal {
	if l.TotalInstallments == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(l.PaidInstallments)).
		DivRound(decimal.NewFromInt(int64(l.TotalInstallments)), 4).
		Mul(decimal.NewFromInt(100)).Round(2)
}

// RepaymentSchedule is one installment of a loan's amortization table.
// Immutable after creation except for status, paid date, late fee and
// total amount paid, each set exactly once when it leaves PENDING.
type RepaymentSchedule struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID            uint64          `gorm:"not null;uniqueIndex:ux_schedule_loan_installment,priority:1" json:"-"`
	InstallmentNumber int             `gorm:"not null;uniqueIndex:ux_schedule_loan_installment,priority:2" json:"installment_number"`
	EmiAmount         decimal.Decimal `gorm:"type:decimal(15,2)" json:"emi_amount"`
	PrincipalAmount   decimal.Decimal `gorm:"type:decimal(15,2)" json:"principal_amount"`
	InterestAmount    decimal.Decimal `gorm:"type:decimal(15,2)" json:"interest_amount"`
	DueDate           time.Time       `gorm:"type:date;not null" json:"due_date"`
	PaidDate          *time.Time      `gorm:"type:date" json:"paid_date,omitempty"`
	Status            RepaymentStatus `gorm:"size:16;index:idx_schedule_status" json:"status"`
	LateFee           decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"late_fee"`
	// TotalAmountPaid is EMI + late fee, set when the installment settles.
	TotalAmountPaid decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"total_amount_paid,omitempty"`
	CreatedAt       time.Time           `gorm:"autoCreateTime" json:"-"`
	UpdatedAt       time.Time           `gorm:"autoUpdateTime" json:"-"`
}

func (RepaymentSchedule) TableName() string { return "loan_repayment_schedule" }

// Overdue reports whether today is past the due date plus grace days.
func (s *RepaymentSchedule) Overdue(today time.Time, graceDays int) bool {
	return today.After(s.DueDate.AddDate(0, 0, graceDays))
}

func (s *RepaymentSchedule) Paid() bool {
	return s.Status == RepaymentPaid || s.Status == RepaymentLatePaid
}

// TotalAmountDue is EMI plus any late fee already persisted.
func (s *RepaymentSchedule) TotalAmountDue() decimal.Decimal {
	return s.EmiAmount.Add(s.LateFee)
}

// Payment is an immutable record of one settlement attempt, successful
// or not. Status comes from the gateway response and is never mutated.
type Payment struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"-"`
	PaymentID         string          `gorm:"size:32;uniqueIndex:ux_payments_payment_id" json:"payment_id"`
	LoanID            uint64          `gorm:"not null;index:idx_payments_loan" json:"-"`
	ScheduleID        uint64          `gorm:"not null;index:idx_payments_schedule" json:"-"`
	InstallmentNumber int             `gorm:"not null" json:"installment_number"`
	Amount            decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount"`
	PaymentMethod     PaymentMethod   `gorm:"size:16" json:"payment_method"`
	Status            PaymentStatus   `gorm:"size:16" json:"status"`
	// TransactionID is generated by the engine; GatewayTransactionID is
	// whatever the settlement gateway assigned.
	TransactionID        string     `gorm:"size:64;uniqueIndex:ux_payments_txn" json:"transaction_id"`
	GatewayTransactionID string     `gorm:"size:64" json:"gateway_transaction_id"`
	FailureReason        string     `gorm:"size:255" json:"failure_reason,omitempty"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
	PaidAt               *time.Time `json:"paid_at,omitempty"`
}

func (Payment) TableName() string { return "loan_payments" }

func (p *Payment) Successful() bool { return p.Status == PaymentSuccess }
