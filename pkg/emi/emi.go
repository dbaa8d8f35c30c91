// Package emi holds the pure installment arithmetic. All functions are
// side-effect free; amounts are decimal and rounded half-up to 2 places.
package emi

import (
	"github.com/shopspring/decimal"

	"loantrackr-backend/pkg/apperr"
)

var (
	one   = decimal.NewFromInt(1)
	d1200 = decimal.NewFromInt(1200)
)

// MonthlyRate converts an annual percentage rate (e.g. 12.5) into a
// monthly fraction at scale 10, half-up. Scale matters: the amortization
// schedule multiplies this against large balances.
func MonthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.DivRound(d1200, 10)
}

// Calculate returns the equated monthly installment:
//
//	EMI = P*r*(1+r)^n / ((1+r)^n - 1)
//
// rounded half-up to 2 decimal places.
func Calculate(principal, annualRate decimal.Decimal, tenureMonths int) (decimal.Decimal, error) {
	if principal.LessThanOrEqual(decimal.Zero) || annualRate.LessThanOrEqual(decimal.Zero) || tenureMonths <= 0 {
		return decimal.Zero, apperr.Validationf("invalid input for EMI calculation")
	}
	r := MonthlyRate(annualRate)
	onePlusRPowN := one.Add(r).Pow(decimal.NewFromInt(int64(tenureMonths)))
	numerator := principal.Mul(r).Mul(onePlusRPowN)
	denominator := onePlusRPowN.Sub(one)
	return numerator.DivRound(denominator, 2), nil
}

// TotalPayable is EMI x tenure, rounded to 2 places.
func TotalPayable(emiAmount decimal.Decimal, tenureMonths int) decimal.Decimal {
	return emiAmount.Mul(decimal.NewFromInt(int64(tenureMonths))).Round(2)
}

// TotalInterest is total payable minus principal, rounded to 2 places.
func TotalInterest(emiAmount, principal decimal.Decimal, tenureMonths int) decimal.Decimal {
	return TotalPayable(emiAmount, tenureMonths).Sub(principal).Round(2)
}
