// Package payment orchestrates installment settlement: one pending
// installment at a time, exact-amount only, serialized per loan by a
// row lock on the loan itself.
package payment

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"loantrackr-backend/internal/domain/actor"
	loandomain "loantrackr-backend/internal/domain/loan"
	"loantrackr-backend/internal/domain/loanconfig"
	"loantrackr-backend/internal/domain/uow"
	"loantrackr-backend/internal/gateway"
	"loantrackr-backend/pkg/apperr"
	"loantrackr-backend/pkg/id"
)

type Usecase struct {
	loans loandomain.Repository
	uow   uow.UnitOfWork
	gw    gateway.Gateway
	now   func() time.Time
}

func NewUsecase(loans loandomain.Repository, tx uow.UnitOfWork, gw gateway.Gateway) *Usecase {
	return &Usecase{loans: loans, uow: tx, gw: gw, now: time.Now}
}

// WithClock overrides the time source; tests use it to push the clock
// past due dates.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// MakePayment settles the next pending installment of a loan. The loan
// row is locked for the whole flow, so concurrent payments against the
// same loan are applied one at a time. The attempt is recorded whatever
// the gateway says; installment and balance mutate only on SUCCESS.
func (u *Usecase) MakePayment(ctx context.Context, act actor.Actor, loanID string, in PaymentInput) (*PaymentDTO, error) {
	if !act.IsBorrower() {
		return nil, apperr.Unauthorizedf("only borrowers can make payments")
	}
	if !in.Method.Valid() {
		return nil, apperr.Validationf("unsupported payment method %q", in.Method)
	}
	if !in.Amount.IsPositive() {
		return nil, apperr.Validationf("payment amount must be positive")
	}

	var dto *PaymentDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loandomain.Loan) error {
		if l.BorrowerID != act.UserID {
			return apperr.Unauthorizedf("loan does not belong to this borrower")
		}
		if l.Status != loandomain.StatusDisbursed {
			return apperr.NotAllowedf("loan is not active for payments")
		}

		inst, err := r.Schedules.NextPending(ctx, l.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotAllowedf("no pending installments found")
		}
		if err != nil {
			return err
		}

		cfg := u.activeConfig(ctx, r.Configs)
		today := dateOnly(u.now())
		overdue := inst.Overdue(today, cfg.GracePeriodDays)

		// The late fee is assessed once, the first time the overdue
		// installment is targeted, and sticks to it from then on.
		if overdue && inst.LateFee.IsZero() && !cfg.LateFeeAmount.IsZero() {
			inst.LateFee = cfg.LateFeeAmount
			if err := r.Schedules.Save(ctx, inst); err != nil {
				return err
			}
			log.Printf("loan %s installment %d overdue, late fee %s applied",
				l.LoanID, inst.InstallmentNumber, cfg.LateFeeAmount)
		}

		due := inst.TotalAmountDue()
		if !in.Amount.Equal(due) {
			return apperr.NotAllowedf("payment amount must be exactly %s", due.StringFixed(2))
		}

		resp, err := u.gw.SettlePayment(ctx, gateway.PaymentRequest{
			Amount:            in.Amount,
			PaymentMethod:     string(in.Method),
			LoanID:            l.LoanID,
			InstallmentNumber: inst.InstallmentNumber,
		})
		if err != nil {
			return apperr.Wrap(apperr.KindGateway, err, "payment gateway unreachable")
		}

		p := &loandomain.Payment{
			PaymentID:            id.NewID32(),
			LoanID:               l.ID,
			ScheduleID:           inst.ID,
			InstallmentNumber:    inst.InstallmentNumber,
			Amount:               in.Amount,
			PaymentMethod:        in.Method,
			Status:               loandomain.PaymentStatus(resp.Status),
			TransactionID:        id.NewTransactionID("TXN"),
			GatewayTransactionID: resp.TransactionID,
			FailureReason:        resp.FailureReason,
		}
		if resp.Status == gateway.StatusSuccess {
			paidAt := u.now()
			p.PaidAt = &paidAt
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}

		if resp.Status == gateway.StatusSuccess {
			if err := u.applySuccess(ctx, r, l, inst, today, overdue); err != nil {
				return err
			}
		}

		dto = &PaymentDTO{
			PaymentID:         p.PaymentID,
			TransactionID:     p.TransactionID,
			Status:            string(p.Status),
			Amount:            p.Amount,
			InstallmentNumber: p.InstallmentNumber,
			RemainingAmount:   l.RemainingAmount,
			NextDueDate:       l.NextDueDate,
			Message:           statusMessage(p.Status, resp.FailureReason),
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("loan %s not found", loanID)
	}
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// applySuccess marks the installment settled, reduces the balance and
// closes the loan when the balance reaches exact zero. An overdue
// settlement is LATE_PAID even when the configured late fee is zero.
func (u *Usecase) applySuccess(ctx context.Context, r uow.Repos, l *loandomain.Loan, inst *loandomain.RepaymentSchedule, today time.Time, overdue bool) error {
	inst.Status = loandomain.RepaymentPaid
	if overdue {
		inst.Status = loandomain.RepaymentLatePaid
	}
	inst.PaidDate = &today
	inst.TotalAmountPaid = decimal.NullDecimal{Decimal: inst.TotalAmountDue(), Valid: true}
	if err := r.Schedules.Save(ctx, inst); err != nil {
		return err
	}

	// Late fees are penalty revenue, they do not amortize the balance.
	l.RemainingAmount = l.RemainingAmount.Sub(inst.EmiAmount)
	l.PaidInstallments++

	next, err := r.Schedules.NextPending(ctx, l.ID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		l.NextDueDate = nil
	case err != nil:
		return err
	default:
		d := next.DueDate
		l.NextDueDate = &d
	}

	if l.RemainingAmount.IsZero() && l.FullyRepaid() {
		l.Status = loandomain.StatusClosed
		closedAt := u.now()
		l.FullyRepaidAt = &closedAt
		log.Printf("loan %s fully repaid, closing", l.LoanID)
	}
	return r.Loans.Save(ctx, l)
}

// GetSchedule returns the full amortization table of a loan, in
// installment order. Borrowers see their own loans, lenders the loans
// they funded.
func (u *Usecase) GetSchedule(ctx context.Context, act actor.Actor, loanID string) ([]InstallmentDTO, error) {
	l, err := u.authorizedLoan(ctx, act, loanID)
	if err != nil {
		return nil, err
	}
	var items []loandomain.RepaymentSchedule
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		items, err = r.Schedules.ListByLoan(ctx, l.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]InstallmentDTO, 0, len(items))
	for i := range items {
		s := &items[i]
		out = append(out, InstallmentDTO{
			InstallmentNumber: s.InstallmentNumber,
			EmiAmount:         s.EmiAmount,
			PrincipalAmount:   s.PrincipalAmount,
			InterestAmount:    s.InterestAmount,
			DueDate:           s.DueDate,
			PaidDate:          s.PaidDate,
			Status:            string(s.Status),
			LateFee:           s.LateFee,
			TotalAmountPaid:   s.TotalAmountPaid,
		})
	}
	return out, nil
}

// GetPaymentHistory returns every settlement attempt for a loan,
// newest first, failures included.
func (u *Usecase) GetPaymentHistory(ctx context.Context, act actor.Actor, loanID string) ([]PaymentRecordDTO, error) {
	l, err := u.authorizedLoan(ctx, act, loanID)
	if err != nil {
		return nil, err
	}
	var items []loandomain.Payment
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		items, err = r.Payments.ListByLoan(ctx, l.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]PaymentRecordDTO, 0, len(items))
	for i := range items {
		p := &items[i]
		out = append(out, PaymentRecordDTO{
			PaymentID:            p.PaymentID,
			InstallmentNumber:    p.InstallmentNumber,
			Amount:               p.Amount,
			PaymentMethod:        string(p.PaymentMethod),
			Status:               string(p.Status),
			TransactionID:        p.TransactionID,
			GatewayTransactionID: p.GatewayTransactionID,
			FailureReason:        p.FailureReason,
			CreatedAt:            p.CreatedAt,
			PaidAt:               p.PaidAt,
		})
	}
	return out, nil
}

// GetLoanDetails returns the loan with progress figures.
func (u *Usecase) GetLoanDetails(ctx context.Context, act actor.Actor, loanID string) (*LoanDetailsDTO, error) {
	l, err := u.authorizedLoan(ctx, act, loanID)
	if err != nil {
		return nil, err
	}
	return toLoanDetails(l), nil
}

// ListLenderLoans returns the calling lender's funded loans, active
// (DISBURSED) or completed (CLOSED).
func (u *Usecase) ListLenderLoans(ctx context.Context, act actor.Actor, status loandomain.Status) ([]LoanDetailsDTO, error) {
	if !act.IsLender() {
		return nil, apperr.Unauthorizedf("only lenders can list funded loans")
	}
	if status != loandomain.StatusDisbursed && status != loandomain.StatusClosed {
		return nil, apperr.Validationf("unknown loan status %q", status)
	}
	items, err := u.loans.ListByLenderAndStatus(ctx, act.UserID, status)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDetailsDTO, 0, len(items))
	for i := range items {
		out = append(out, *toLoanDetails(&items[i]))
	}
	return out, nil
}

func (u *Usecase) authorizedLoan(ctx context.Context, act actor.Actor, loanID string) (*loandomain.Loan, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("loan %s not found", loanID)
	}
	if err != nil {
		return nil, err
	}
	switch {
	case act.IsBorrower() && l.BorrowerID == act.UserID:
	case act.IsLender() && l.LenderID == act.UserID:
	default:
		return nil, apperr.Unauthorizedf("loan does not belong to this user")
	}
	return l, nil
}

// activeConfig falls back to the built-in defaults when no active
// configuration row exists; a missing row must not block payments.
func (u *Usecase) activeConfig(ctx context.Context, repo loanconfig.Repository) loanconfig.Config {
	cfg, err := repo.GetActive(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("loan configuration lookup failed, using defaults: %v", err)
		}
		return loanconfig.Default()
	}
	return *cfg
}

func toLoanDetails(l *loandomain.Loan) *LoanDetailsDTO {
	return &LoanDetailsDTO{
		LoanID:                l.LoanID,
		BorrowerID:            l.BorrowerID,
		PrincipalAmount:       l.PrincipalAmount,
		TotalAmountToRepay:    l.TotalAmountToRepay,
		RemainingAmount:       l.RemainingAmount,
		TotalInterestAmount:   l.TotalInterestAmount,
		TotalInstallments:     l.TotalInstallments,
		PaidInstallments:      l.PaidInstallments,
		RemainingInstallments: l.RemainingInstallments(),
		CompletionPercentage:  l.CompletionPercentage(),
		NextDueDate:           l.NextDueDate,
		Status:                string(l.Status),
		DisbursedAt:           l.DisbursedAt,
		FullyRepaidAt:         l.FullyRepaidAt,
		FullyRepaid:           l.FullyRepaid(),
	}
}

func statusMessage(st loandomain.PaymentStatus, reason string) string {
	switch st {
	case loandomain.PaymentSuccess:
		return "Payment processed successfully"
	case loandomain.PaymentFailed:
		if reason != "" {
			return "Payment failed: " + reason
		}
		return "Payment failed. Please try again"
	case loandomain.PaymentPending:
		return "Payment is being processed"
	case loandomain.PaymentCancelled:
		return "Payment was cancelled"
	}
	return string(st)
}

// dateOnly truncates to a UTC midnight so overdue comparisons line up
// with the schedule's UTC due dates whatever the server timezone is.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
