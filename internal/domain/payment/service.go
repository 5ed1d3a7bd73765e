package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/event"
	"loan-ledger/internal/infrastructure/monitoring"
	"loan-ledger/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

const (
	msgPaymentNotFound  = "Payment not found!"
	msgCustomerNotFound = "Customer not found!"
	msgNoHistory        = "No payment history found for this customer!"
	msgReceiptConflict  = "Could not allocate a unique receipt number, please retry"

	DefaultInsertRetries = 3

	statusSuccess = "success"
	statusFailure = "failure"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, in Input) (*Payment, error)
	GetPayment(ctx context.Context, paymentID int64) (*Payment, error)
	ListPayments(ctx context.Context) ([]*Payment, error)
	ListCustomerPayments(ctx context.Context, fullName string) ([]HistoryEntry, error)
	UpdatePayment(ctx context.Context, paymentID int64, in Input) (*Payment, error)
	DeletePayment(ctx context.Context, paymentID int64) error
}

type CustomerFinder interface {
	FindByIDNumber(ctx context.Context, idNumber string) (*customer.Customer, error)
	FindByFullName(ctx context.Context, fullName string) (*customer.Customer, error)
}

type LoanFinder interface {
	GetLoan(ctx context.Context, loanID int64) (*loan.Loan, error)
}

type LoanReconciler interface {
	Reconcile(ctx context.Context, loanID int64) (*loan.Loan, error)
}

type Receipts interface {
	Next(ctx context.Context) (string, error)
}

type Options struct {
	MaxInsertRetries int
}

type paymentService struct {
	repo       Repository
	customers  CustomerFinder
	loans      LoanFinder
	reconciler LoanReconciler
	receipts   Receipts
	pub        event.EventPublisher
	retries    int
	logger     *slog.Logger
}

func NewPaymentService(
	repo Repository,
	customers CustomerFinder,
	loans LoanFinder,
	reconciler LoanReconciler,
	receipts Receipts,
	pub event.EventPublisher,
	opts Options,
	logger *slog.Logger,
) PaymentService {
	if repo == nil || reconciler == nil || receipts == nil {
		panic("payment service requires a repository, a reconciler and a receipt generator")
	}
	if pub == nil {
		pub = event.NewNoopPublisher(logger)
	}
	retries := opts.MaxInsertRetries
	if retries <= 0 {
		retries = DefaultInsertRetries
	}
	return &paymentService{
		repo:       repo,
		customers:  customers,
		loans:      loans,
		reconciler: reconciler,
		receipts:   receipts,
		pub:        pub,
		retries:    retries,
		logger:     logger.With("component", "PaymentService"),
	}
}

func (s *paymentService) CreatePayment(ctx context.Context, in Input) (*Payment, error) {
	logCtx := s.logger.With(slog.Int64("loanID", in.LoanID))
	logCtx.InfoContext(ctx, "Recording payment")

	if err := in.Validate(); err != nil {
		logCtx.WarnContext(ctx, "Payment input failed validation", slog.Any("error", err))
		monitoring.RecordPayment("create", statusFailure)
		return nil, err
	}

	p, err := s.prepare(ctx, &Payment{}, in)
	if err != nil {
		monitoring.RecordPayment("create", statusFailure)
		return nil, err
	}

	created, err := s.insertWithReceipt(ctx, p)
	if err != nil {
		monitoring.RecordPayment("create", statusFailure)
		return nil, err
	}
	monitoring.RecordPayment("create", statusSuccess)
	logCtx.InfoContext(ctx, "Payment recorded",
		slog.Int64("paymentID", created.ID), slog.String("receiptNumber", created.ReceiptNumber))

	s.reconcile(ctx, created.LoanID)
	s.publish(ctx, event.PaymentCreated, created)
	return created, nil
}

func (s *paymentService) GetPayment(ctx context.Context, paymentID int64) (*Payment, error) {
	p, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, s.lookupError(ctx, err, paymentID)
	}
	return p, nil
}

func (s *paymentService) ListPayments(ctx context.Context) ([]*Payment, error) {
	payments, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list payments", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// ListCustomerPayments finds the customer by full name and returns every payment made under
// that customer's ID number.
func (s *paymentService) ListCustomerPayments(ctx context.Context, fullName string) ([]HistoryEntry, error) {
	cust, err := s.customers.FindByFullName(ctx, fullName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound(msgCustomerNotFound)
		}
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	payments, err := s.repo.FindByIDNumber(ctx, cust.IDNumber)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load payment history", slog.Int64("customerID", cust.ID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to load payment history: %w", err)
	}
	if len(payments) == 0 {
		return nil, apperrors.NotFound(msgNoHistory)
	}

	history := make([]HistoryEntry, 0, len(payments))
	for _, p := range payments {
		history = append(history, HistoryEntry{ID: p.ID, Date: p.Date, Amount: p.Amount, LoanID: p.LoanID})
	}
	return history, nil
}

func (s *paymentService) UpdatePayment(ctx context.Context, paymentID int64, in Input) (*Payment, error) {
	logCtx := s.logger.With(slog.Int64("paymentID", paymentID))

	if err := in.Validate(); err != nil {
		logCtx.WarnContext(ctx, "Payment input failed validation", slog.Any("error", err))
		monitoring.RecordPayment("update", statusFailure)
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		monitoring.RecordPayment("update", statusFailure)
		return nil, s.lookupError(ctx, err, paymentID)
	}
	previousLoanID := existing.LoanID

	p, err := s.prepare(ctx, existing, in)
	if err != nil {
		monitoring.RecordPayment("update", statusFailure)
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		monitoring.RecordPayment("update", statusFailure)
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound(msgPaymentNotFound)
		}
		logCtx.ErrorContext(ctx, "Failed to update payment", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	monitoring.RecordPayment("update", statusSuccess)
	logCtx.InfoContext(ctx, "Payment updated", slog.Int64("loanID", p.LoanID))

	s.reconcile(ctx, p.LoanID)
	if previousLoanID != p.LoanID {
		s.reconcile(ctx, previousLoanID)
	}
	s.publish(ctx, event.PaymentUpdated, p)
	return p, nil
}

func (s *paymentService) DeletePayment(ctx context.Context, paymentID int64) error {
	deleted, err := s.repo.Delete(ctx, paymentID)
	if err != nil {
		monitoring.RecordPayment("delete", statusFailure)
		return s.lookupError(ctx, err, paymentID)
	}
	monitoring.RecordPayment("delete", statusSuccess)
	s.logger.InfoContext(ctx, "Payment deleted", slog.Int64("paymentID", paymentID), slog.Int64("loanID", deleted.LoanID))

	s.reconcile(ctx, deleted.LoanID)
	s.publish(ctx, event.PaymentDeleted, deleted)
	return nil
}

// prepare resolves the paying customer and the loan for validated input and applies them to p.
func (s *paymentService) prepare(ctx context.Context, p *Payment, in Input) (*Payment, error) {
	cust, err := s.customers.FindByIDNumber(ctx, in.IDNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "No customer with payment ID number", slog.String("idNumber", in.IDNumber))
			return nil, apperrors.NotFound(msgCustomerNotFound)
		}
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	if _, err := s.loans.GetLoan(ctx, in.LoanID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load loan: %w", err)
	}

	p.apply(in)
	p.CustomerID = cust.ID
	p.FullName = cust.FullName
	p.Address = cust.Address
	p.IDNumber = cust.IDNumber
	return p, nil
}

func (s *paymentService) insertWithReceipt(ctx context.Context, p *Payment) (*Payment, error) {
	var lastErr error
	for attempt := 1; attempt <= s.retries; attempt++ {
		receipt, err := s.receipts.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to generate receipt number: %w", err)
		}
		p.ReceiptNumber = receipt

		created, err := s.repo.Create(ctx, p)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, ErrReceiptTaken) {
			s.logger.ErrorContext(ctx, "Failed to persist payment", slog.Any("error", err))
			return nil, fmt.Errorf("failed to create payment: %w", err)
		}

		lastErr = err
		s.logger.WarnContext(ctx, "Receipt number collided on insert",
			slog.String("receiptNumber", receipt), slog.Int("attempt", attempt))
	}
	return nil, apperrors.Conflict(msgReceiptConflict, lastErr)
}

func (s *paymentService) reconcile(ctx context.Context, loanID int64) {
	if _, err := s.reconciler.Reconcile(ctx, loanID); err != nil {
		s.logger.ErrorContext(ctx, "Payment saved but loan reconciliation failed",
			slog.Int64("loanID", loanID), slog.Any("error", err))
	}
}

func (s *paymentService) publish(ctx context.Context, action event.PaymentAction, p *Payment) {
	evt := event.PaymentRecordedEvent{
		Action:        action,
		PaymentID:     p.ID,
		LoanID:        p.LoanID,
		CustomerID:    p.CustomerID,
		Amount:        decimal.NewFromFloat(p.Amount).StringFixed(2),
		ReceiptNumber: p.ReceiptNumber,
		Timestamp:     time.Now(),
	}
	if err := s.pub.PublishPaymentRecorded(ctx, evt); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish payment event", slog.String("action", string(action)), slog.Any("error", err))
	}
}

func (s *paymentService) lookupError(ctx context.Context, err error, paymentID int64) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		s.logger.WarnContext(ctx, "Payment not found", slog.Int64("paymentID", paymentID))
		return apperrors.NotFound(msgPaymentNotFound)
	}
	s.logger.ErrorContext(ctx, "Payment repository lookup failed", slog.Int64("paymentID", paymentID), slog.Any("error", err))
	return fmt.Errorf("failed to load payment %d: %w", paymentID, err)
}
