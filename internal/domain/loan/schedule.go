package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"loantrackr-backend/pkg/apperr"
	"loantrackr-backend/pkg/emi"
)

// GenerateSchedule builds the full amortization table for a loan about to
// be disbursed. Reducing-balance, flat EMI:
//
//	interest_i  = round2(balance * monthlyRate)
//	principal_i = EMI - interest_i            (i < n)
//	principal_n = balance                      (absorbs rounding drift)
//	EMI_n       = principal_n + interest_n
//
// Due dates advance one month per installment starting at firstDueDate.
// The returned entries are PENDING with a zero late fee and no LoanID;
// the caller stamps the loan's numeric id before persisting.
func GenerateSchedule(principal, annualRate, emiAmount decimal.Decimal, tenureMonths int, firstDueDate time.Time) ([]RepaymentSchedule, error) {
	if principal.LessThanOrEqual(decimal.Zero) || annualRate.LessThanOrEqual(decimal.Zero) || tenureMonths <= 0 {
		return nil, apperr.Validationf("invalid input for schedule generation")
	}

	monthlyRate := emi.MonthlyRate(annualRate)
	balance := principal
	dueDate := firstDueDate

	schedule := make([]RepaymentSchedule, 0, tenureMonths)
	for i := 1; i <= tenureMonths; i++ {
		interest := balance.Mul(monthlyRate).Round(2)
		principalPart := emiAmount.Sub(interest)
		installmentEmi := emiAmount

		if i == tenureMonths {
			principalPart = balance
			installmentEmi = principalPart.Add(interest)
		}

		schedule = append(schedule, RepaymentSchedule{
			InstallmentNumber: i,
			EmiAmount:         installmentEmi,
			PrincipalAmount:   principalPart,
			InterestAmount:    interest,
			DueDate:           dueDate,
			Status:            RepaymentPending,
			LateFee:           decimal.Zero,
		})

		balance = balance.Sub(principalPart)
		dueDate = dueDate.AddDate(0, 1, 0)
	}

	// The last installment takes the whole balance; anything left over
	// means the inputs were inconsistent (e.g. EMI below first interest).
	if !balance.IsZero() {
		return nil, apperr.Validationf("schedule does not amortize to zero (leftover %s)", balance)
	}
	return schedule, nil
}

// ScheduleTotals sums EMI and interest over a generated schedule. The
// EMI total is what a Loan records as TotalAmountToRepay.
func ScheduleTotals(schedule []RepaymentSchedule) (totalPayable, totalInterest decimal.Decimal) {
	totalPayable, totalInterest = decimal.Zero, decimal.Zero
	for i := range schedule {
		totalPayable = totalPayable.Add(schedule[i].EmiAmount)
		totalInterest = totalInterest.Add(schedule[i].InterestAmount)
	}
	return totalPayable, totalInterest
}
