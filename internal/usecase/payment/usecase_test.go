package payment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loantrackr-backend/internal/domain/actor"
	loandomain "loantrackr-backend/internal/domain/loan"
	"loantrackr-backend/internal/domain/loanconfig"
	"loantrackr-backend/internal/testutil/gatewaymock"
	"loantrackr-backend/internal/testutil/memstore"
	"loantrackr-backend/pkg/apperr"
	"loantrackr-backend/pkg/emi"
)

const (
	borrowerID = "b1000000000000000000000000000001"
	lenderID   = "d2000000000000000000000000000002"
	loanID     = "aa000000000000000000000000000001"
)

var (
	borrower = actor.Actor{UserID: borrowerID, Role: actor.RoleBorrower}
	lenderAc = actor.Actor{UserID: lenderID, Role: actor.RoleLender}

	disbursedAt = time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)
	firstDue    = time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// seedDisbursedLoan puts a funded loan with its full schedule into the
// store, mirroring what disbursement produces.
func seedDisbursedLoan(t *testing.T, s *memstore.Store, principal string, months int) loandomain.Loan {
	t.Helper()
	p := dec(principal)
	rate := dec("12.00")
	emiAmount, err := emi.Calculate(p, rate, months)
	require.NoError(t, err)
	schedule, err := loandomain.GenerateSchedule(p, rate, emiAmount, months, firstDue)
	require.NoError(t, err)
	totalPayable, totalInterest := loandomain.ScheduleTotals(schedule)

	due := firstDue
	l := s.SeedLoan(loandomain.Loan{
		LoanID:              loanID,
		ApplicationID:       1,
		BorrowerID:          borrowerID,
		LenderID:            lenderID,
		PrincipalAmount:     p,
		TotalAmountToRepay:  totalPayable,
		RemainingAmount:     totalPayable,
		TotalInterestAmount: totalInterest,
		TotalInstallments:   months,
		NextDueDate:         &due,
		Status:              loandomain.StatusDisbursed,
		DisbursedAt:         disbursedAt,
	})
	for i := range schedule {
		schedule[i].LoanID = l.ID
	}
	s.SeedSchedules(schedule)
	return l
}

func newTestUsecase(s *memstore.Store, gw *gatewaymock.Gateway, now time.Time) *Usecase {
	u := NewUsecase(s.Repos().Loans, memstore.NewUnitOfWork(s), gw)
	return u.WithClock(func() time.Time { return now })
}

func TestMakePayment(t *testing.T) {
	s := memstore.New()
	l := seedDisbursedLoan(t, s, "120000.00", 12)
	onTime := time.Date(2025, 5, 8, 10, 0, 0, 0, time.UTC)
	u := newTestUsecase(s, gatewaymock.AlwaysSucceed(), onTime)

	dto, err := u.MakePayment(context.Background(), borrower, loanID, PaymentInput{
		Amount: dec("10661.85"),
		Method: loandomain.MethodUPI,
	})
	require.NoError(t, err)

	assert.Equal(t, "SUCCESS", dto.Status)
	assert.Equal(t, 1, dto.InstallmentNumber)
	assert.Equal(t, "Payment processed successfully", dto.Message)
	assert.True(t, dto.RemainingAmount.Equal(dec("117280.41")), "remaining %s", dto.RemainingAmount)
	require.NotNil(t, dto.NextDueDate)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), *dto.NextDueDate)

	inst, ok := s.Schedule(l.ID, 1)
	require.True(t, ok)
	assert.Equal(t, loandomain.RepaymentPaid, inst.Status)
	require.NotNil(t, inst.PaidDate)
	require.True(t, inst.TotalAmountPaid.Valid)
	assert.True(t, inst.TotalAmountPaid.Decimal.Equal(dec("10661.85")))

	stored, ok := s.Loan(loanID)
	require.True(t, ok)
	assert.Equal(t, 1, stored.PaidInstallments)
	assert.Equal(t, loandomain.StatusDisbursed, stored.Status)
}

func TestMakePaymentExactAmountRequired(t *testing.T) {
	s := memstore.New()
	seedDisbursedLoan(t, s, "120000.00", 12)
	onTime := time.Date(2025, 5, 8, 10, 0, 0, 0, time.UTC)
	u := newTestUsecase(s, gatewaymock.AlwaysSucceed(), onTime)

	for _, amount := range []string{"10661.84", "10661.86", "10000.00", "21323.70"} {
		_, err := u.MakePayment(context.Background(), borrower, loanID, PaymentInput{
			Amount: dec(amount),
			Method: loandomain.MethodUPI,
		})
		require.Error(t, err, "amount %s", amount)
		assert.True(t, apperr.IsKind(err, apperr.KindNotAllowed))
		assert.Contains(t, err.Error(), "exactly 10661.85")
	}

	// Nothing recorded for refused amounts.
	stored, _ := s.Loan(loanID)
	assert.Empty(t, s.Payments(stored.ID))
}

func TestMakePaymentTargetsLowestPendingInstallment(t *testing.T) {
	s := memstore.New()
	l := seedDisbursedLoan(t, s, "120000.00", 12)
	onTime := time.Date(2025, 5, 8, 10, 0, 0, 0, time.UTC)
	u := newTestUsecase(s, gatewaymock.AlwaysSucceed(), onTime)

	first, err := u.MakePayment(context.Background(), borrower, loanID, PaymentInput{
		Amount: dec("10661.85"),
		Method: loandomain.MethodCard,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.InstallmentNumber)

	second, err := u.MakePayment(context.Background(), borrower, loanID, PaymentInput{
		Amount: dec("10661.85"),
		Method: loandomain.MethodUPI,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.InstallmentNumber)

	inst, _ := s.Schedule(l.ID, 3)
	assert.Equal(t, loandomain.RepaymentPending, inst.Status)
}

func TestLateFeeAppliedExactlyOnce(t *testing.T) {
	s := memstore.New()
	s.SeedConfig(loanconfig.Config{
		LateFeeAmount:         dec("500.00"),
		GracePeriodDays:       3,
		ReminderBeforeDueDays: 3,
		Active:                true,
	})
	l := seedDisbursedLoan(t, s, "120000.00", 12)
	// Due 2025-05-10, grace 3 days: overdue from the 14th on.
	overdue := time.Date(2025, 5, 14, 10, 0, 0, 0, time.UTC)
	u := newTestUsecase(s, gatewaymock.AlwaysSucceed(), overdue)

	// The bare EMI no longer settles the installment.
	_, err := u.MakePayment(context.Background(), borrower, loanID, PaymentInput{
		Amount: dec("10661.85"),
		Method: loandomain.MethodUPI,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotAllowed))
	assert.Contains(t, err.Error(), "exactly 11161.85")

	dto, err := u.MakePayment(context.Background(), borrower, loanID, PaymentInput{
		Amount: dec("11161.85"),
		Method: loandomain.MethodUPI,
	})
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", dto.Status)

	inst, ok := s.Schedule(l.ID, 1)
	require.True(t, ok)
	assert.Equal(t, loandomain.RepaymentLatePaid, inst.Status)
	assert.True(t, inst.LateFee.Equal(dec("500.00")))
	require.True(t, inst.TotalAmountPaid.Valid)
	assert.True(t, inst.TotalAmountPaid.Decimal.Equal(dec("11161.85")))

	// The fee is penalty revenue: the outstanding balance drops by the
	// EMI only.
	stored, _ := s.Loan(loanID)
	assert.True(t, stored.RemainingAmount.Equal(dec("117280.41")), "remaining %s", stored.RemainingAmount)
}

func TestLateFeeFallsBackToDefaults(t *testing.T) {
	s := memstore.New() // no active config row
	seedDisbursedLoan(t, s, "120000.00", 12)
	overdue := time.Date(2025, 5, 14, 10, 0, 0, 0, time.UTC)
	u := newTestUsecase(s, gatewaymock.AlwaysSucceed(), overdue)

	_, err := u.MakePayment(context.Background(), borrower, loanID, PaymentInput{
		Amount: dec("10661.85"),
		Method: loandomain.MethodUPI,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly 11161.85")
}

func TestLastDayOfGraceIsNotLate(t *testing.T) {
	s := memstore.New()
	seedDisbursedLoan(t, s, "120000.00", 12)
	graceEdge := time.Date(2025, 5, 13, 23, 0, 0, 0, time.UTC)
	u := newTestUsecase(s, gatewaymock.AlwaysSucceed(), graceEdge)

	dto, err := u.MakePayment(context.Background(), borrower, loanID, PaymentInput{
		Amount: dec("10661.85"),
		Method: loandomain.MethodUPI,
	})
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", dto.Status)
}

func TestLastDayOfGraceInWesternTimezone(t *testing.T) {
	s := memstore.New()
	l := seedDisbursedLoan(t, s, "120000.00", 12)
	// Morning of the last grace day on a UTC-7 server. The wall-clock
	// date, not the zone offset, decides whether the payment is late.
	graceEdge := time.Date(2025, 5, 13, 10, 0, 0, 0, time.FixedZone("PDT", -7*3600))
	u := newTestUsecase(s, gatewaymock.AlwaysSucceed(), graceEdge)

	dto, err := u.MakePayment(context.Background(), borrower, loanID, PaymentInput{
		Amount: dec("10661.85"),
		Method: loandomain.MethodUPI,
	})
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", dto.Status)

	inst, ok := s.Schedule(l.ID, 1)
	require.True(t, ok)
	assert.Equal(t, loandomain.RepaymentPaid, inst.Status)
	assert.True(t, inst.LateFee.IsZero(), "late fee %s", inst.LateFee)
}

func TestOverdueWithZeroFeeConfigIsLatePaid(t *testing.T) {
	s := memstore.New()
	s.SeedConfig(loanconfig.Config{
		LateFeeAmount:         decimal.Zero,
		GracePeriodDays:       3,
		ReminderBeforeDueDays: 3,
		Active:                true,
	})
	l := seedDisbursedLoan(t, s, "120000.00", 12)
	overdue := time.Date(2025, 5, 14, 10, 0, 0, 0, time.UTC)
	u := newTestUsecase(s, gatewaymock.AlwaysSucceed(), overdue)

	// With no fee to add, the bare EMI settles the installment, but the
	// settlement is still recorded as late.
	dto, err := u.MakePayment(context.Background(), borrower, loanID, PaymentInput{
		Amount: dec("10661.85"),
		Method: loandomain.MethodUPI,
	})
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", dto.Status)

	inst, ok := s.Schedule(l.ID, 1)
	require.True(t, ok)
	assert.Equal(t, loandomain.RepaymentLatePaid, inst.Status)
	assert.True(t, inst.LateFee.IsZero())
	require.True(t, inst.TotalAmountPaid.Valid)
	assert.True(t, inst.TotalAmountPaid.Decimal.Equal(dec("10661.85")))
}

func TestMakePaymentGatewayFailureRecordsAttempt(t *testing.T) {
	s := memstore.New()
	l := seedDisbursedLoan(t, s, "120000.00", 12)
	onTime := time.Date(2025, 5, 8, 10, 0, 0, 0, time.UTC)
	u := newTestUsecase(s, gatewaymock.AlwaysFail("Insufficient balance in account"), onTime)

	dto, err := u.MakePayment(context.Background(), borrower, loanID, PaymentInput{
		Amount: dec("10661.85"),
		Method: loandomain.MethodUPI,
	})
	require.NoError(t, err)
	assert.Equal(t, "FAILED", dto.Status)
	assert.Equal(t, "Payment failed: Insufficient balance in account", dto.Message)

	// The attempt is on record; nothing else moved.
	attempts := s.Payments(l.ID)
	require.Len(t, attempts, 1)
	assert.Equal(t, loandomain.PaymentFailed, attempts[0].Status)
	assert.Equal(t, "Insufficient balance in account", attempts[0].FailureReason)
	assert.Nil(t, attempts[0].PaidAt)

	inst, _ := s.Schedule(l.ID, 1)
	assert.Equal(t, loandomain.RepaymentPending, inst.Status)
	stored, _ := s.Loan(loanID)
	assert.True(t, stored.RemainingAmount.Equal(l.RemainingAmount))
	assert.Equal(t, 0, stored.PaidInstallments)
}

func TestLoanClosesAtExactZero(t *testing.T) {
	s := memstore.New()
	l := seedDisbursedLoan(t, s, "50000.00", 6)
	onTime := time.Date(2025, 4, 15, 10, 0, 0, 0, time.UTC)
	u := newTestUsecase(s, gatewaymock.AlwaysSucceed(), onTime)

	var last *PaymentDTO
	for i := 1; i <= 6; i++ {
		inst, ok := s.Schedule(l.ID, i)
		require.True(t, ok)
		dto, err := u.MakePayment(context.Background(), borrower, loanID, PaymentInput{
			Amount: inst.TotalAmountDue(),
			Method: loandomain.MethodUPI,
		})
		require.NoError(t, err, "installment %d", i)
		last = dto
	}

	assert.True(t, last.RemainingAmount.IsZero(), "remaining %s", last.RemainingAmount)
	assert.Nil(t, last.NextDueDate)
	assert.Equal(t, "Payment processed successfully", last.Message)

	stored, ok := s.Loan(loanID)
	require.True(t, ok)
	assert.Equal(t, loandomain.StatusClosed, stored.Status)
	assert.Equal(t, 6, stored.PaidInstallments)
	require.NotNil(t, stored.FullyRepaidAt)
	assert.Nil(t, stored.NextDueDate)

	// A closed loan takes no further payments.
	_, err := u.MakePayment(context.Background(), borrower, loanID, PaymentInput{
		Amount: dec("100.00"),
		Method: loandomain.MethodUPI,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotAllowed))
	assert.Contains(t, err.Error(), "not active for payments")
}

func TestMakePaymentAuthorization(t *testing.T) {
	s := memstore.New()
	seedDisbursedLoan(t, s, "120000.00", 12)
	onTime := time.Date(2025, 5, 8, 10, 0, 0, 0, time.UTC)
	u := newTestUsecase(s, gatewaymock.AlwaysSucceed(), onTime)

	in := PaymentInput{Amount: dec("10661.85"), Method: loandomain.MethodUPI}

	_, err := u.MakePayment(context.Background(), lenderAc, loanID, in)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	other := actor.Actor{UserID: "c9000000000000000000000000000009", Role: actor.RoleBorrower}
	_, err = u.MakePayment(context.Background(), other, loanID, in)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	_, err = u.MakePayment(context.Background(), borrower, "ff000000000000000000000000000000", in)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestMakePaymentInvalidMethod(t *testing.T) {
	s := memstore.New()
	seedDisbursedLoan(t, s, "120000.00", 12)
	onTime := time.Date(2025, 5, 8, 10, 0, 0, 0, time.UTC)
	u := newTestUsecase(s, gatewaymock.AlwaysSucceed(), onTime)

	_, err := u.MakePayment(context.Background(), borrower, loanID, PaymentInput{
		Amount: dec("10661.85"),
		Method: loandomain.PaymentMethod("CHEQUE"),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestGetPaymentHistoryNewestFirst(t *testing.T) {
	s := memstore.New()
	seedDisbursedLoan(t, s, "120000.00", 12)
	onTime := time.Date(2025, 5, 8, 10, 0, 0, 0, time.UTC)

	failing := newTestUsecase(s, gatewaymock.AlwaysFail("Transaction declined by bank"), onTime)
	_, err := failing.MakePayment(context.Background(), borrower, loanID, PaymentInput{
		Amount: dec("10661.85"),
		Method: loandomain.MethodUPI,
	})
	require.NoError(t, err)

	u := newTestUsecase(s, gatewaymock.AlwaysSucceed(), onTime)
	_, err = u.MakePayment(context.Background(), borrower, loanID, PaymentInput{
		Amount: dec("10661.85"),
		Method: loandomain.MethodUPI,
	})
	require.NoError(t, err)

	history, err := u.GetPaymentHistory(context.Background(), borrower, loanID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "SUCCESS", history[0].Status)
	assert.Equal(t, "FAILED", history[1].Status)
	assert.Equal(t, "Transaction declined by bank", history[1].FailureReason)

	// The funding lender may inspect the same history.
	history, err = u.GetPaymentHistory(context.Background(), lenderAc, loanID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestGetSchedule(t *testing.T) {
	s := memstore.New()
	seedDisbursedLoan(t, s, "120000.00", 12)
	onTime := time.Date(2025, 5, 8, 10, 0, 0, 0, time.UTC)
	u := newTestUsecase(s, gatewaymock.AlwaysSucceed(), onTime)

	_, err := u.MakePayment(context.Background(), borrower, loanID, PaymentInput{
		Amount: dec("10661.85"),
		Method: loandomain.MethodUPI,
	})
	require.NoError(t, err)

	items, err := u.GetSchedule(context.Background(), borrower, loanID)
	require.NoError(t, err)
	require.Len(t, items, 12)
	assert.Equal(t, 1, items[0].InstallmentNumber)
	assert.Equal(t, "PAID", items[0].Status)
	assert.Equal(t, "PENDING", items[1].Status)
	assert.Equal(t, firstDue.AddDate(0, 1, 0), items[1].DueDate)
}

func TestGetLoanDetails(t *testing.T) {
	s := memstore.New()
	seedDisbursedLoan(t, s, "120000.00", 12)
	onTime := time.Date(2025, 5, 8, 10, 0, 0, 0, time.UTC)
	u := newTestUsecase(s, gatewaymock.AlwaysSucceed(), onTime)

	for i := 0; i < 3; i++ {
		_, err := u.MakePayment(context.Background(), borrower, loanID, PaymentInput{
			Amount: dec("10661.85"),
			Method: loandomain.MethodUPI,
		})
		require.NoError(t, err)
	}

	out, err := u.GetLoanDetails(context.Background(), borrower, loanID)
	require.NoError(t, err)
	assert.Equal(t, 3, out.PaidInstallments)
	assert.Equal(t, 9, out.RemainingInstallments)
	assert.Equal(t, "25.00", out.CompletionPercentage.StringFixed(2))
	assert.False(t, out.FullyRepaid)

	other := actor.Actor{UserID: "c9000000000000000000000000000009", Role: actor.RoleBorrower}
	_, err = u.GetLoanDetails(context.Background(), other, loanID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

func TestListLenderLoans(t *testing.T) {
	s := memstore.New()
	l := seedDisbursedLoan(t, s, "50000.00", 6)
	onTime := time.Date(2025, 4, 15, 10, 0, 0, 0, time.UTC)
	u := newTestUsecase(s, gatewaymock.AlwaysSucceed(), onTime)

	active, err := u.ListLenderLoans(context.Background(), lenderAc, loandomain.StatusDisbursed)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, loanID, active[0].LoanID)

	completed, err := u.ListLenderLoans(context.Background(), lenderAc, loandomain.StatusClosed)
	require.NoError(t, err)
	assert.Empty(t, completed)

	for i := 1; i <= 6; i++ {
		inst, ok := s.Schedule(l.ID, i)
		require.True(t, ok)
		_, err := u.MakePayment(context.Background(), borrower, loanID, PaymentInput{
			Amount: inst.TotalAmountDue(),
			Method: loandomain.MethodUPI,
		})
		require.NoError(t, err)
	}

	completed, err = u.ListLenderLoans(context.Background(), lenderAc, loandomain.StatusClosed)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.True(t, completed[0].FullyRepaid)

	_, err = u.ListLenderLoans(context.Background(), borrower, loandomain.StatusDisbursed)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	_, err = u.ListLenderLoans(context.Background(), lenderAc, loandomain.Status("OPEN"))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}
