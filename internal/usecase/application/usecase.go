package application

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"loantrackr-backend/internal/domain/actor"
	appdomain "loantrackr-backend/internal/domain/application"
	"loantrackr-backend/internal/domain/lender"
	loandomain "loantrackr-backend/internal/domain/loan"
	"loantrackr-backend/internal/domain/uow"
	"loantrackr-backend/internal/gateway"
	"loantrackr-backend/pkg/apperr"
	"loantrackr-backend/pkg/emi"
	"loantrackr-backend/pkg/id"
	"loantrackr-backend/pkg/tenure"
)

type Usecase struct {
	lenders lender.Repository
	apps    appdomain.Repository
	uow     uow.UnitOfWork
	gw      gateway.Gateway
	now     func() time.Time
}

func NewUsecase(lenders lender.Repository, apps appdomain.Repository, tx uow.UnitOfWork, gw gateway.Gateway) *Usecase {
	return &Usecase{lenders: lenders, apps: apps, uow: tx, gw: gw, now: time.Now}
}

// WithClock overrides the time source; tests use it to control due dates.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// ListActiveLenders returns every verified, active lender with parsed
// tenure sets, for the public lender directory.
func (u *Usecase) ListActiveLenders(ctx context.Context) ([]LenderSummaryDTO, error) {
	profiles, err := u.lenders.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LenderSummaryDTO, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		tenures, err := tenure.Parse(p.SupportedTenures)
		if err != nil {
			log.Printf("lender %s has malformed tenures %q, skipping", p.LenderID, p.SupportedTenures)
			continue
		}
		out = append(out, LenderSummaryDTO{
			LenderID:         p.LenderID,
			OrganizationName: p.OrganizationName,
			InterestRate:     p.InterestRate,
			ProcessingFee:    p.ProcessingFee,
			SupportedTenures: tenures,
		})
	}
	return out, nil
}

// PreviewEmi computes the installment figures a borrower would get from
// this lender, without creating anything.
func (u *Usecase) PreviewEmi(ctx context.Context, lenderID string, principal decimal.Decimal, tenureMonths int) (*EmiPreviewDTO, error) {
	p, err := u.eligibleLender(ctx, u.lenders, lenderID)
	if err != nil {
		return nil, err
	}
	if !tenure.Supports(p.SupportedTenures, tenureMonths) {
		return nil, apperr.NotAllowedf("lender does not support tenure of %d months", tenureMonths)
	}
	emiAmount, err := emi.Calculate(principal, p.InterestRate, tenureMonths)
	if err != nil {
		return nil, err
	}
	return &EmiPreviewDTO{
		Organization:  p.OrganizationName,
		Emi:           emiAmount,
		TotalPayable:  emi.TotalPayable(emiAmount, tenureMonths),
		TotalInterest: emi.TotalInterest(emiAmount, principal, tenureMonths),
		ProcessingFee: p.ProcessingFee,
	}, nil
}

// Apply submits a loan application. The lender's current rate and fee
// are snapshotted into the application so later profile edits cannot
// change the borrower's terms. The stored principal is net of the
// processing fee.
func (u *Usecase) Apply(ctx context.Context, act actor.Actor, lenderID string, in ApplyInput) (*ApplicationDTO, error) {
	if !act.IsBorrower() {
		return nil, apperr.Unauthorizedf("only borrowers can apply for a loan")
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) || in.TenureMonths <= 0 {
		return nil, apperr.Validationf("loan amount and tenure must be positive")
	}
	if in.MonthlyIncome.IsNegative() {
		return nil, apperr.Validationf("monthly income cannot be negative")
	}

	var dto *ApplicationDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		active, err := r.Applications.ExistsByBorrowerAndStatusIn(ctx, act.UserID, appdomain.ActiveStatuses())
		if err != nil {
			return err
		}
		if active {
			return apperr.NotAllowedf("borrower already has an active loan")
		}

		lp, err := u.eligibleLender(ctx, r.Lenders, lenderID)
		if err != nil {
			return err
		}
		if !tenure.Supports(lp.SupportedTenures, in.TenureMonths) {
			return apperr.NotAllowedf("selected tenure is not supported by this lender")
		}

		principal := in.Amount.Sub(lp.ProcessingFee)
		if principal.LessThanOrEqual(decimal.Zero) {
			return apperr.Validationf("loan amount must exceed the processing fee of %s", lp.ProcessingFee)
		}
		emiAmount, err := emi.Calculate(principal, lp.InterestRate, in.TenureMonths)
		if err != nil {
			return err
		}

		a := &appdomain.LoanApplication{
			ApplicationID: id.NewID32(),
			BorrowerID:    act.UserID,
			LenderID:      lp.LenderID,
			LoanRequested: principal,
			InterestRate:  lp.InterestRate,
			ProcessingFee: lp.ProcessingFee,
			TenureMonths:  in.TenureMonths,
			EmiAmount:     emiAmount,
			Status:        appdomain.StatusPending,
			Purpose:       in.Purpose,
			IncomeSource:  in.IncomeSource,
			MonthlyIncome: in.MonthlyIncome,
			AppliedAt:     u.now().UTC(),
		}
		if err := r.Applications.Create(ctx, a); err != nil {
			return err
		}
		log.Printf("application %s submitted: borrower=%s lender=%s amount=%s tenure=%d",
			a.ApplicationID, a.BorrowerID, a.LenderID, a.LoanRequested, a.TenureMonths)
		dto = u.toDTO(a, lp.OrganizationName)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Withdraw cancels the borrower's most recently submitted PENDING
// application.
func (u *Usecase) Withdraw(ctx context.Context, act actor.Actor) (*ApplicationDTO, error) {
	if !act.IsBorrower() {
		return nil, apperr.Unauthorizedf("only borrowers can withdraw loan applications")
	}

	var dto *ApplicationDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Applications.LatestByBorrowerAndStatus(ctx, act.UserID, appdomain.StatusPending)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.InvalidStatef("no pending loan applications to withdraw")
		}
		if err != nil {
			return err
		}
		now := u.now().UTC()
		a.Status = appdomain.StatusWithdrawn
		a.ClosedAt = &now
		if err := r.Applications.Save(ctx, a); err != nil {
			return err
		}
		log.Printf("application %s withdrawn by borrower %s", a.ApplicationID, act.UserID)
		dto = u.toDTO(a, u.lenderName(ctx, r.Lenders, a.LenderID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Approve moves a PENDING application to APPROVED. Lender-side action;
// the application must belong to the acting lender.
func (u *Usecase) Approve(ctx context.Context, act actor.Actor, applicationID string) (*ApplicationDTO, error) {
	return u.decide(ctx, act, applicationID, appdomain.StatusApproved)
}

// Reject moves a PENDING application to REJECTED.
func (u *Usecase) Reject(ctx context.Context, act actor.Actor, applicationID string) (*ApplicationDTO, error) {
	return u.decide(ctx, act, applicationID, appdomain.StatusRejected)
}

func (u *Usecase) decide(ctx context.Context, act actor.Actor, applicationID string, to appdomain.Status) (*ApplicationDTO, error) {
	if !act.IsLender() {
		return nil, apperr.Unauthorizedf("only lenders can decide loan applications")
	}

	var dto *ApplicationDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Applications.GetByApplicationIDForUpdate(ctx, applicationID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("loan application not found")
		}
		if err != nil {
			return err
		}
		if a.LenderID != act.UserID {
			return apperr.Unauthorizedf("application does not belong to this lender")
		}
		if a.Status != appdomain.StatusPending {
			return apperr.InvalidStatef("application cannot move to %s from %s", to, a.Status)
		}
		a.Status = to
		if to == appdomain.StatusRejected {
			now := u.now().UTC()
			a.ClosedAt = &now
		}
		if err := r.Applications.Save(ctx, a); err != nil {
			return err
		}
		log.Printf("application %s -> %s by lender %s", a.ApplicationID, to, act.UserID)
		dto = u.toDTO(a, u.lenderName(ctx, r.Lenders, a.LenderID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Disburse funds an APPROVED application: it creates the Loan, generates
// the full repayment schedule, settles the transfer with the gateway and
// only then marks the application DISBURSED. Everything happens in one
// transaction; a gateway failure rolls the Loan and schedule back and
// leaves the application APPROVED.
func (u *Usecase) Disburse(ctx context.Context, act actor.Actor, applicationID string) (*DisbursementDTO, error) {
	if !act.IsLender() {
		return nil, apperr.Unauthorizedf("only lenders can disburse loans")
	}

	var dto *DisbursementDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Applications.GetByApplicationIDForUpdate(ctx, applicationID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("loan application not found")
		}
		if err != nil {
			return err
		}
		if a.LenderID != act.UserID {
			return apperr.Unauthorizedf("application does not belong to this lender")
		}
		if a.Status != appdomain.StatusApproved {
			return apperr.InvalidStatef("loan application is not approved")
		}

		now := u.now().UTC()
		firstDue := dateOnly(now.AddDate(0, 1, 0))

		schedule, err := loandomain.GenerateSchedule(a.LoanRequested, a.InterestRate, a.EmiAmount, a.TenureMonths, firstDue)
		if err != nil {
			return err
		}
		totalPayable, totalInterest := loandomain.ScheduleTotals(schedule)

		l := &loandomain.Loan{
			LoanID:              id.NewID32(),
			ApplicationID:       a.ID,
			BorrowerID:          a.BorrowerID,
			LenderID:            a.LenderID,
			PrincipalAmount:     a.LoanRequested,
			TotalAmountToRepay:  totalPayable,
			RemainingAmount:     totalPayable,
			TotalInterestAmount: totalInterest,
			TotalInstallments:   a.TenureMonths,
			PaidInstallments:    0,
			NextDueDate:         &firstDue,
			Status:              loandomain.StatusDisbursed,
			DisbursedAt:         now,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		for i := range schedule {
			schedule[i].LoanID = l.ID
		}
		if err := r.Schedules.CreateBatch(ctx, schedule); err != nil {
			return err
		}

		resp, err := u.gw.Disburse(ctx, gateway.DisbursementRequest{
			LoanID:             l.LoanID,
			BorrowerAccountRef: a.BorrowerID,
			Amount:             l.PrincipalAmount,
		})
		if err != nil {
			return apperr.Wrap(apperr.KindGateway, err, "disbursement gateway call failed")
		}
		if resp.Status != gateway.StatusSuccess {
			return apperr.Gatewayf("disbursement failed: %s", resp.FailureReason)
		}

		a.Status = appdomain.StatusDisbursed
		a.LoanID = &l.ID
		if err := r.Applications.Save(ctx, a); err != nil {
			return err
		}

		log.Printf("loan %s disbursed: application=%s amount=%s installments=%d txn=%s",
			l.LoanID, a.ApplicationID, l.PrincipalAmount, l.TotalInstallments, resp.TransactionID)

		dto = &DisbursementDTO{
			LoanID:          l.LoanID,
			DisbursedAmount: l.PrincipalAmount,
			EmiAmount:       a.EmiAmount,
			TotalAmount:     totalPayable,
			TotalInterest:   totalInterest,
			FirstDueDate:    firstDue,
			TransactionID:   resp.TransactionID,
			Message:         "Loan disbursed successfully",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// ListMine returns the borrower's application history, newest first.
func (u *Usecase) ListMine(ctx context.Context, act actor.Actor) ([]ApplicationDTO, error) {
	if !act.IsBorrower() {
		return nil, apperr.Unauthorizedf("only borrowers can view their loan applications")
	}
	apps, err := u.apps.ListByBorrower(ctx, act.UserID)
	if err != nil {
		return nil, err
	}
	names := map[string]string{}
	out := make([]ApplicationDTO, 0, len(apps))
	for i := range apps {
		a := &apps[i]
		name, ok := names[a.LenderID]
		if !ok {
			name = u.lenderName(ctx, u.lenders, a.LenderID)
			names[a.LenderID] = name
		}
		out = append(out, *u.toDTO(a, name))
	}
	return out, nil
}

// ListForLender returns the lender's incoming applications, optionally
// filtered by status.
func (u *Usecase) ListForLender(ctx context.Context, act actor.Actor, status string) ([]ApplicationForLenderDTO, error) {
	if !act.IsLender() {
		return nil, apperr.Unauthorizedf("only lenders can view loan requests")
	}

	var (
		apps []appdomain.LoanApplication
		err  error
	)
	if status == "" {
		apps, err = u.apps.ListByLender(ctx, act.UserID)
	} else {
		st := appdomain.Status(status)
		switch st {
		case appdomain.StatusPending, appdomain.StatusApproved, appdomain.StatusRejected,
			appdomain.StatusDisbursed, appdomain.StatusWithdrawn:
		default:
			return nil, apperr.Validationf("unknown application status %q", status)
		}
		apps, err = u.apps.ListByLenderAndStatus(ctx, act.UserID, st)
	}
	if err != nil {
		return nil, err
	}

	name := u.lenderName(ctx, u.lenders, act.UserID)
	out := make([]ApplicationForLenderDTO, 0, len(apps))
	for i := range apps {
		a := &apps[i]
		out = append(out, ApplicationForLenderDTO{
			ApplicationDTO: *u.toDTO(a, name),
			BorrowerID:     a.BorrowerID,
			IncomeSource:   a.IncomeSource,
			MonthlyIncome:  a.MonthlyIncome,
		})
	}
	return out, nil
}

func (u *Usecase) eligibleLender(ctx context.Context, repo lender.Repository, lenderID string) (*lender.Profile, error) {
	p, err := repo.GetByLenderID(ctx, lenderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("lender not found")
	}
	if err != nil {
		return nil, err
	}
	if !p.Eligible() {
		return nil, apperr.Unauthorizedf("lender %s is not verified or isn't active", lenderID)
	}
	return p, nil
}

func (u *Usecase) lenderName(ctx context.Context, repo lender.Repository, lenderID string) string {
	p, err := repo.GetByLenderID(ctx, lenderID)
	if err != nil {
		return ""
	}
	return p.OrganizationName
}

func (u *Usecase) toDTO(a *appdomain.LoanApplication, lenderName string) *ApplicationDTO {
	return &ApplicationDTO{
		ApplicationID: a.ApplicationID,
		LenderName:    lenderName,
		LoanAmount:    a.LoanRequested,
		TenureMonths:  a.TenureMonths,
		Emi:           a.EmiAmount,
		InterestRate:  a.InterestRate,
		ProcessingFee: a.ProcessingFee,
		Status:        string(a.Status),
		Purpose:       a.Purpose,
		AppliedAt:     a.AppliedAt,
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
