package lender

import (
	"time"

	"github.com/shopspring/decimal"
)

// Profile is the lender configuration the engine consumes: verification
// flags plus the terms snapshotted into every application at submit time.
type Profile struct {
	ID               uint64          `gorm:"primaryKey;column:id" json:"-"`
	LenderID         string          `gorm:"size:32;uniqueIndex:ux_lenders_lender_id" json:"lender_id"`
	OrganizationName string          `gorm:"size:255" json:"organization_name"`
	InterestRate     decimal.Decimal `gorm:"type:decimal(6,2)" json:"interest_rate"`
	ProcessingFee    decimal.Decimal `gorm:"type:decimal(15,2)" json:"processing_fee"`
	// SupportedTenures is a comma-separated list of month counts, e.g. "6,12,24".
	SupportedTenures string    `gorm:"size:255" json:"supported_tenures"`
	Verified         bool      `gorm:"not null;default:false" json:"verified"`
	Active           bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "lender_profiles" }

// Eligible reports whether the lender may receive applications.
func (p *Profile) Eligible() bool { return p.Verified && p.Active }
