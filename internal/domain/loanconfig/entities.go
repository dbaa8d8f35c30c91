package loanconfig

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config is the singleton repayment configuration; the row with
// active=true wins. Default applies when no active row exists.
type Config struct {
	ID                    uint64          `gorm:"primaryKey;column:id" json:"-"`
	LateFeeAmount         decimal.Decimal `gorm:"type:decimal(15,2)" json:"late_fee_amount"`
	GracePeriodDays       int             `gorm:"not null" json:"grace_period_days"`
	ReminderBeforeDueDays int             `gorm:"not null" json:"reminder_before_due_days"`
	Active                bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt             time.Time       `gorm:"autoCreateTime" json:"-"`
	UpdatedAt             time.Time       `gorm:"autoUpdateTime" json:"-"`
}

func (Config) TableName() string { return "loan_configurations" }

// Default is the fallback: flat 500.00 late fee, 3-day grace period.
func Default() Config {
	return Config{
		LateFeeAmount:         decimal.NewFromInt(500),
		GracePeriodDays:       3,
		ReminderBeforeDueDays: 3,
		Active:                true,
	}
}
