package mysql

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schemas only for tests (no ENUM, no DECIMAL) ---
// Decimal columns become TEXT; the domain types marshal to strings.

type applicationSQLite struct {
	ID            uint64     `gorm:"primaryKey;column:id"`
	ApplicationID string     `gorm:"size:32;column:application_id"`
	BorrowerID    string     `gorm:"size:32;column:borrower_id"`
	LenderID      string     `gorm:"size:32;column:lender_id"`
	LoanRequested string     `gorm:"column:loan_requested"`
	InterestRate  string     `gorm:"column:interest_rate"`
	ProcessingFee string     `gorm:"column:processing_fee"`
	TenureMonths  int        `gorm:"column:tenure_months"`
	EmiAmount     string     `gorm:"column:emi_amount"`
	Status        string     `gorm:"type:text;column:status"`
	Purpose       string     `gorm:"column:purpose"`
	IncomeSource  string     `gorm:"column:income_source"`
	MonthlyIncome string     `gorm:"column:monthly_income"`
	LoanID        *uint64    `gorm:"column:loan_id"`
	AppliedAt     time.Time  `gorm:"column:applied_at"`
	ClosedAt      *time.Time `gorm:"column:closed_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (applicationSQLite) TableName() string { return "loan_applications" }

type loanSQLite struct {
	ID                  uint64     `gorm:"primaryKey;column:id"`
	LoanID              string     `gorm:"size:32;column:loan_id"`
	ApplicationID       uint64     `gorm:"column:application_id"`
	BorrowerID          string     `gorm:"size:32;column:borrower_id"`
	LenderID            string     `gorm:"size:32;column:lender_id"`
	PrincipalAmount     string     `gorm:"column:principal_amount"`
	TotalAmountToRepay  string     `gorm:"column:total_amount_to_repay"`
	RemainingAmount     string     `gorm:"column:remaining_amount"`
	TotalInterestAmount string     `gorm:"column:total_interest_amount"`
	TotalInstallments   int        `gorm:"column:total_installments"`
	PaidInstallments    int        `gorm:"column:paid_installments"`
	NextDueDate         *time.Time `gorm:"column:next_due_date"`
	Status              string     `gorm:"type:text;column:status"`
	DisbursedAt         time.Time  `gorm:"column:disbursed_at"`
	FullyRepaidAt       *time.Time `gorm:"column:fully_repaid_at"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (loanSQLite) TableName() string { return "loans" }

type scheduleSQLite struct {
	ID                uint64     `gorm:"primaryKey;column:id"`
	LoanID            uint64     `gorm:"column:loan_id"`
	InstallmentNumber int        `gorm:"column:installment_number"`
	EmiAmount         string     `gorm:"column:emi_amount"`
	PrincipalAmount   string     `gorm:"column:principal_amount"`
	InterestAmount    string     `gorm:"column:interest_amount"`
	DueDate           time.Time  `gorm:"column:due_date"`
	PaidDate          *time.Time `gorm:"column:paid_date"`
	Status            string     `gorm:"type:text;column:status"`
	LateFee           string     `gorm:"column:late_fee"`
	TotalAmountPaid   *string    `gorm:"column:total_amount_paid"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (scheduleSQLite) TableName() string { return "loan_repayment_schedule" }

type paymentSQLite struct {
	ID                   uint64     `gorm:"primaryKey;column:id"`
	PaymentID            string     `gorm:"size:32;column:payment_id"`
	LoanID               uint64     `gorm:"column:loan_id"`
	ScheduleID           uint64     `gorm:"column:schedule_id"`
	InstallmentNumber    int        `gorm:"column:installment_number"`
	Amount               string     `gorm:"column:amount"`
	PaymentMethod        string     `gorm:"type:text;column:payment_method"`
	Status               string     `gorm:"type:text;column:status"`
	TransactionID        string     `gorm:"size:64;column:transaction_id"`
	GatewayTransactionID string     `gorm:"size:64;column:gateway_transaction_id"`
	FailureReason        string     `gorm:"column:failure_reason"`
	CreatedAt            time.Time  `gorm:"column:created_at"`
	PaidAt               *time.Time `gorm:"column:paid_at"`
}

func (paymentSQLite) TableName() string { return "loan_payments" }

type lenderSQLite struct {
	ID               uint64    `gorm:"primaryKey;column:id"`
	LenderID         string    `gorm:"size:32;column:lender_id"`
	OrganizationName string    `gorm:"column:organization_name"`
	InterestRate     string    `gorm:"column:interest_rate"`
	ProcessingFee    string    `gorm:"column:processing_fee"`
	SupportedTenures string    `gorm:"column:supported_tenures"`
	Verified         bool      `gorm:"column:verified"`
	Active           bool      `gorm:"column:active"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (lenderSQLite) TableName() string { return "lender_profiles" }

type configSQLite struct {
	ID                    uint64    `gorm:"primaryKey;column:id"`
	LateFeeAmount         string    `gorm:"column:late_fee_amount"`
	GracePeriodDays       int       `gorm:"column:grace_period_days"`
	ReminderBeforeDueDays int       `gorm:"column:reminder_before_due_days"`
	Active                bool      `gorm:"column:active"`
	CreatedAt             time.Time `gorm:"column:created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at"`
}

func (configSQLite) TableName() string { return "loan_configurations" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the
// sqlite-safe schemas, NOT the domain models.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&applicationSQLite{},
		&loanSQLite{},
		&scheduleSQLite{},
		&paymentSQLite{},
		&lenderSQLite{},
		&configSQLite{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
