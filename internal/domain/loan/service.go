package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/pkg/apperrors"
)

const (
	msgLoanNotFound   = "Loan not found!"
	msgLoanExists     = "A loan already exists for this customer!"
	msgMissingFields  = "All fields are required!"
	msgCustomerAbsent = "Customer not found!"
)

// MaxLoanDuration bounds loanDuration in periods of the loan's type.
const MaxLoanDuration = 3650

type LoanService interface {
	CreateLoan(ctx context.Context, customerID int64, terms Terms) (*Loan, error)

	GetLoan(ctx context.Context, loanID int64) (*Loan, error)

	ListLoans(ctx context.Context) ([]*Loan, error)

	ListLoansByCustomer(ctx context.Context, customerID int64) ([]*Loan, error)

	UpdateLoan(ctx context.Context, loanID int64, terms Terms) (*Loan, error)

	DeleteLoan(ctx context.Context, loanID int64) error
}

type CustomerLookup interface {
	GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error)
}

type TotalsReconciler interface {
	Reconcile(ctx context.Context, loanID int64) (*Loan, error)
}

type loanServiceImpl struct {
	repo       Repository
	customers  CustomerLookup
	reconciler TotalsReconciler
	now        func() time.Time
	logger     *slog.Logger
}

func NewLoanService(r Repository, cs CustomerLookup, rec TotalsReconciler, logger *slog.Logger) LoanService {
	return &loanServiceImpl{
		repo:       r,
		customers:  cs,
		reconciler: rec,
		now:        time.Now,
		logger:     logger.With("component", "LoanService"),
	}
}

func (t Terms) Validate() error {
	switch {
	case t.Amount <= 0:
		return apperrors.NewValidationError("amount", msgMissingFields)
	case t.Installment <= 0:
		return apperrors.NewValidationError("installment", msgMissingFields)
	case t.InstallmentRate <= 0:
		return apperrors.NewValidationError("installmentrate", msgMissingFields)
	case t.LoanDuration <= 0:
		return apperrors.NewValidationError("loanDuration", msgMissingFields)
	case t.LoanDuration > MaxLoanDuration:
		return apperrors.NewValidationError("loanDuration", fmt.Sprintf("loanDuration must not exceed %d", MaxLoanDuration))
	case !t.LoanType.Valid():
		return apperrors.NewValidationError("loanType", "loanType must be Daily or Weekly")
	case blank(t.Guarantor1.Name, t.Guarantor1.IDNumber, t.Guarantor1.Address):
		return apperrors.NewValidationError("garantter1", msgMissingFields)
	case blank(t.Guarantor2.Name, t.Guarantor2.IDNumber, t.Guarantor2.Address):
		return apperrors.NewValidationError("garantter2", msgMissingFields)
	}
	return nil
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func (s *loanServiceImpl) CreateLoan(ctx context.Context, customerID int64, terms Terms) (*Loan, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Creating new loan")

	if customerID <= 0 {
		logCtx.WarnContext(ctx, "Loan request has no customer")
		return nil, apperrors.NewValidationError("CustomerID", msgMissingFields)
	}

	if err := terms.Validate(); err != nil {
		logCtx.WarnContext(ctx, "Loan terms failed validation", slog.Any("error", err))
		return nil, err
	}

	cust, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Customer not found for new loan")
			return nil, apperrors.NotFound(msgCustomerAbsent)
		}
		logCtx.ErrorContext(ctx, "Failed to load customer for new loan", slog.Any("error", err))
		return nil, fmt.Errorf("failed to verify customer: %w", err)
	}

	exists, err := s.repo.ExistsForCustomer(ctx, customerID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to check existing loans", slog.Any("error", err))
		return nil, fmt.Errorf("failed to check existing loans: %w", err)
	}
	if exists {
		logCtx.WarnContext(ctx, "Customer already has a loan")
		return nil, apperrors.Duplicate(msgLoanExists)
	}

	newLoan := &Loan{CustomerID: customerID, CreateDate: s.now()}
	newLoan.applyTerms(terms)
	s.fillDerived(newLoan)
	if newLoan.FullName == "" {
		newLoan.FullName = cust.FullName
	}
	if newLoan.NIC == "" {
		newLoan.NIC = cust.IDNumber
	}
	newLoan.TotalPayment = 0
	newLoan.Fine = 0
	newLoan.DuePayment = DuePayment(newLoan)

	created, err := s.repo.Create(ctx, newLoan)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to persist loan", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	logCtx.InfoContext(ctx, "Loan created", slog.Int64("loanID", created.ID), slog.Float64("interest", created.Interest))
	return created, nil
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID int64) (*Loan, error) {
	l, err := s.repo.FindByID(ctx, loanID)
	if err != nil {
		return nil, s.lookupError(ctx, err, loanID)
	}
	l.Refresh(s.now())
	return l, nil
}

func (s *loanServiceImpl) ListLoans(ctx context.Context) ([]*Loan, error) {
	loans, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list loans", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	s.refreshAll(loans)
	return loans, nil
}

func (s *loanServiceImpl) ListLoansByCustomer(ctx context.Context, customerID int64) ([]*Loan, error) {
	loans, err := s.repo.FindByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list customer loans", slog.Int64("customerID", customerID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to list loans for customer %d: %w", customerID, err)
	}
	s.refreshAll(loans)
	return loans, nil
}

func (s *loanServiceImpl) UpdateLoan(ctx context.Context, loanID int64, terms Terms) (*Loan, error) {
	logCtx := s.logger.With(slog.Int64("loanID", loanID))

	if err := terms.Validate(); err != nil {
		logCtx.WarnContext(ctx, "Loan terms failed validation", slog.Any("error", err))
		return nil, err
	}

	l, err := s.repo.FindByID(ctx, loanID)
	if err != nil {
		return nil, s.lookupError(ctx, err, loanID)
	}

	l.applyTerms(terms)
	s.fillDerived(l)

	if err := s.repo.Update(ctx, l); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound(msgLoanNotFound)
		}
		logCtx.ErrorContext(ctx, "Failed to update loan", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update loan: %w", err)
	}

	// Terms feed the due balance, so totals are recomputed against the new terms.
	reconciled, err := s.reconciler.Reconcile(ctx, loanID)
	if err != nil {
		logCtx.WarnContext(ctx, "Loan updated but reconciliation failed", slog.Any("error", err))
	}
	if reconciled != nil {
		l = reconciled
	}
	l.Refresh(s.now())

	logCtx.InfoContext(ctx, "Loan updated")
	return l, nil
}

// DeleteLoan leaves the loan's payments in place.
func (s *loanServiceImpl) DeleteLoan(ctx context.Context, loanID int64) error {
	if err := s.repo.Delete(ctx, loanID); err != nil {
		return s.lookupError(ctx, err, loanID)
	}
	s.logger.InfoContext(ctx, "Loan deleted", slog.Int64("loanID", loanID))
	return nil
}

func (s *loanServiceImpl) fillDerived(l *Loan) {
	if l.Interest <= 0 {
		l.Interest = CalculateInterest(l)
	}
	if l.LoanEndDate.IsZero() {
		l.LoanEndDate = EndDate(l.CreateDate, l.LoanType, l.LoanDuration)
	}
}

func (s *loanServiceImpl) refreshAll(loans []*Loan) {
	today := s.now()
	for _, l := range loans {
		l.Refresh(today)
	}
}

func (s *loanServiceImpl) lookupError(ctx context.Context, err error, loanID int64) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		s.logger.WarnContext(ctx, "Loan not found", slog.Int64("loanID", loanID))
		return apperrors.NotFound(msgLoanNotFound)
	}
	s.logger.ErrorContext(ctx, "Loan repository lookup failed", slog.Int64("loanID", loanID), slog.Any("error", err))
	return fmt.Errorf("failed to load loan %d: %w", loanID, err)
}
