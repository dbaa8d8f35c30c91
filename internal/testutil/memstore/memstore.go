// Package memstore is an in-memory implementation of every repository
// and the unit of work, for usecase tests. WithinTx snapshots the maps
// before running the body and restores them on error, so rollback
// behaviour can be asserted without a database.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"loantrackr-backend/internal/domain/application"
	"loantrackr-backend/internal/domain/lender"
	"loantrackr-backend/internal/domain/loan"
	"loantrackr-backend/internal/domain/loanconfig"
	"loantrackr-backend/internal/domain/uow"
)

type Store struct {
	mu     sync.Mutex
	nextID uint64

	apps      map[uint64]application.LoanApplication
	loans     map[uint64]loan.Loan
	schedules map[uint64]loan.RepaymentSchedule
	payments  map[uint64]loan.Payment
	lenders   map[uint64]lender.Profile
	configs   map[uint64]loanconfig.Config
}

func New() *Store {
	return &Store{
		apps:      map[uint64]application.LoanApplication{},
		loans:     map[uint64]loan.Loan{},
		schedules: map[uint64]loan.RepaymentSchedule{},
		payments:  map[uint64]loan.Payment{},
		lenders:   map[uint64]lender.Profile{},
		configs:   map[uint64]loanconfig.Config{},
	}
}

func (s *Store) id() uint64 {
	s.nextID++
	return s.nextID
}

func (s *Store) Repos() uow.Repos {
	return uow.Repos{
		Applications: (*appRepo)(s),
		Loans:        (*loanRepo)(s),
		Schedules:    (*scheduleRepo)(s),
		Payments:     (*paymentRepo)(s),
		Lenders:      (*lenderRepo)(s),
		Configs:      (*configRepo)(s),
	}
}

func (s *Store) SeedLender(p lender.Profile) lender.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.lenders[p.ID] = p
	return p
}

func (s *Store) SeedConfig(c loanconfig.Config) loanconfig.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	s.configs[c.ID] = c
	return c
}

func (s *Store) SeedLoan(l loan.Loan) loan.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == 0 {
		l.ID = s.id()
	}
	s.loans[l.ID] = l
	return l
}

func (s *Store) SeedSchedules(items []loan.RepaymentSchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range items {
		if items[i].ID == 0 {
			items[i].ID = s.id()
		}
		s.schedules[items[i].ID] = items[i]
	}
}

// Application returns the stored row by public id, for assertions.
func (s *Store) Application(applicationID string) (application.LoanApplication, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.apps {
		if a.ApplicationID == applicationID {
			return a, true
		}
	}
	return application.LoanApplication{}, false
}

// Loan returns the stored row by public id, for assertions.
func (s *Store) Loan(loanID string) (loan.Loan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.loans {
		if l.LoanID == loanID {
			return l, true
		}
	}
	return loan.Loan{}, false
}

// Schedule returns one installment of a loan, for assertions.
func (s *Store) Schedule(loanPK uint64, installment int) (loan.RepaymentSchedule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.schedules {
		if item.LoanID == loanPK && item.InstallmentNumber == installment {
			return item, true
		}
	}
	return loan.RepaymentSchedule{}, false
}

// Payments returns all payment rows for a loan, insertion order.
func (s *Store) Payments(loanPK uint64) []loan.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []loan.Payment
	for id := uint64(1); id <= s.nextID; id++ {
		if p, ok := s.payments[id]; ok && p.LoanID == loanPK {
			out = append(out, p)
		}
	}
	return out
}

type snapshot struct {
	nextID    uint64
	apps      map[uint64]application.LoanApplication
	loans     map[uint64]loan.Loan
	schedules map[uint64]loan.RepaymentSchedule
	payments  map[uint64]loan.Payment
}

func (s *Store) take() snapshot {
	snap := snapshot{
		nextID:    s.nextID,
		apps:      make(map[uint64]application.LoanApplication, len(s.apps)),
		loans:     make(map[uint64]loan.Loan, len(s.loans)),
		schedules: make(map[uint64]loan.RepaymentSchedule, len(s.schedules)),
		payments:  make(map[uint64]loan.Payment, len(s.payments)),
	}
	for k, v := range s.apps {
		snap.apps[k] = v
	}
	for k, v := range s.loans {
		snap.loans[k] = v
	}
	for k, v := range s.schedules {
		snap.schedules[k] = v
	}
	for k, v := range s.payments {
		snap.payments[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.nextID = snap.nextID
	s.apps = snap.apps
	s.loans = snap.loans
	s.schedules = snap.schedules
	s.payments = snap.payments
}

// UnitOfWork adapts the store to the uow contract.
type UnitOfWork struct {
	store *Store
}

func NewUnitOfWork(s *Store) *UnitOfWork { return &UnitOfWork{store: s} }

func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	snap := u.store.take()
	if err := fn(u.store.Repos()); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

func (u *UnitOfWork) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}

type appRepo Store

func (r *appRepo) Create(ctx context.Context, a *application.LoanApplication) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.id()
	if a.AppliedAt.IsZero() {
		a.AppliedAt = time.Now()
	}
	s.apps[a.ID] = *a
	return nil
}

func (r *appRepo) Save(ctx context.Context, a *application.LoanApplication) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[a.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.apps[a.ID] = *a
	return nil
}

func (r *appRepo) GetByApplicationID(ctx context.Context, applicationID string) (*application.LoanApplication, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.apps {
		if a.ApplicationID == applicationID {
			out := a
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *appRepo) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*application.LoanApplication, error) {
	return r.GetByApplicationID(ctx, applicationID)
}

func (r *appRepo) ExistsByBorrowerAndStatusIn(ctx context.Context, borrowerID string, statuses []application.Status) (bool, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.apps {
		if a.BorrowerID != borrowerID {
			continue
		}
		for _, st := range statuses {
			if a.Status == st {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *appRepo) LatestByBorrowerAndStatus(ctx context.Context, borrowerID string, status application.Status) (*application.LoanApplication, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *application.LoanApplication
	for _, a := range s.apps {
		if a.BorrowerID != borrowerID || a.Status != status {
			continue
		}
		if best == nil || a.ID > best.ID {
			out := a
			best = &out
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (r *appRepo) ListByBorrower(ctx context.Context, borrowerID string) ([]application.LoanApplication, error) {
	return r.list(func(a *application.LoanApplication) bool { return a.BorrowerID == borrowerID })
}

func (r *appRepo) ListByLender(ctx context.Context, lenderID string) ([]application.LoanApplication, error) {
	return r.list(func(a *application.LoanApplication) bool { return a.LenderID == lenderID })
}

func (r *appRepo) ListByLenderAndStatus(ctx context.Context, lenderID string, status application.Status) ([]application.LoanApplication, error) {
	return r.list(func(a *application.LoanApplication) bool {
		return a.LenderID == lenderID && a.Status == status
	})
}

// list returns matches newest first, matching the SQL repositories.
func (r *appRepo) list(match func(*application.LoanApplication) bool) ([]application.LoanApplication, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []application.LoanApplication
	for id := s.nextID; id >= 1; id-- {
		if a, ok := s.apps[id]; ok && match(&a) {
			out = append(out, a)
		}
	}
	return out, nil
}

type loanRepo Store

func (r *loanRepo) Create(ctx context.Context, l *loan.Loan) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.id()
	s.loans[l.ID] = *l
	return nil
}

func (r *loanRepo) Save(ctx context.Context, l *loan.Loan) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.loans[l.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.loans[l.ID] = *l
	return nil
}

func (r *loanRepo) GetByLoanID(ctx context.Context, loanID string) (*loan.Loan, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.loans {
		if l.LoanID == loanID {
			out := l
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *loanRepo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loan.Loan, error) {
	return r.GetByLoanID(ctx, loanID)
}

func (r *loanRepo) ListByLenderAndStatus(ctx context.Context, lenderID string, status loan.Status) ([]loan.Loan, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []loan.Loan
	for id := s.nextID; id >= 1; id-- {
		if l, ok := s.loans[id]; ok && l.LenderID == lenderID && l.Status == status {
			out = append(out, l)
		}
	}
	return out, nil
}

type scheduleRepo Store

func (r *scheduleRepo) CreateBatch(ctx context.Context, items []loan.RepaymentSchedule) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range items {
		items[i].ID = s.id()
		s.schedules[items[i].ID] = items[i]
	}
	return nil
}

func (r *scheduleRepo) Save(ctx context.Context, item *loan.RepaymentSchedule) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[item.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.schedules[item.ID] = *item
	return nil
}

func (r *scheduleRepo) NextPending(ctx context.Context, loanID uint64) (*loan.RepaymentSchedule, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *loan.RepaymentSchedule
	for _, item := range s.schedules {
		if item.LoanID != loanID || item.Status != loan.RepaymentPending {
			continue
		}
		if best == nil || item.InstallmentNumber < best.InstallmentNumber {
			out := item
			best = &out
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (r *scheduleRepo) ListByLoan(ctx context.Context, loanID uint64) ([]loan.RepaymentSchedule, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []loan.RepaymentSchedule
	for _, item := range s.schedules {
		if item.LoanID == loanID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].InstallmentNumber < out[j].InstallmentNumber
	})
	return out, nil
}

type paymentRepo Store

func (r *paymentRepo) Create(ctx context.Context, p *loan.Payment) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.payments[p.ID] = *p
	return nil
}

func (r *paymentRepo) ListByLoan(ctx context.Context, loanID uint64) ([]loan.Payment, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []loan.Payment
	for id := s.nextID; id >= 1; id-- {
		if p, ok := s.payments[id]; ok && p.LoanID == loanID {
			out = append(out, p)
		}
	}
	return out, nil
}

type lenderRepo Store

func (r *lenderRepo) GetByLenderID(ctx context.Context, lenderID string) (*lender.Profile, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.lenders {
		if p.LenderID == lenderID {
			out := p
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *lenderRepo) ListActive(ctx context.Context) ([]lender.Profile, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []lender.Profile
	for id := uint64(1); id <= s.nextID; id++ {
		if p, ok := s.lenders[id]; ok && p.Verified && p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

type configRepo Store

func (r *configRepo) GetActive(ctx context.Context) (*loanconfig.Config, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.configs {
		if c.Active {
			out := c
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
