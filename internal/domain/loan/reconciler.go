package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-ledger/internal/event"
	"loan-ledger/internal/infrastructure/monitoring"
	"loan-ledger/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

const (
	outcomeUpdated = "updated"
	outcomeSkipped = "skipped"
	outcomeError   = "error"
)

// Reconciler recomputes a loan's payment totals from the payments that reference it.
type Reconciler struct {
	loans    Repository
	payments PaymentLedger
	pub      event.EventPublisher
	now      func() time.Time
	logger   *slog.Logger
}

func NewReconciler(loans Repository, payments PaymentLedger, pub event.EventPublisher, logger *slog.Logger) *Reconciler {
	if loans == nil || payments == nil {
		panic("reconciler requires a loan repository and a payment ledger")
	}
	if pub == nil {
		pub = event.NewNoopPublisher(logger)
	}
	return &Reconciler{
		loans:    loans,
		payments: payments,
		pub:      pub,
		now:      time.Now,
		logger:   logger.With("component", "Reconciler"),
	}
}

// Reconcile returns (nil, nil) when the loan does not exist.
func (r *Reconciler) Reconcile(ctx context.Context, loanID int64) (*Loan, error) {
	logCtx := r.logger.With(slog.Int64("loanID", loanID))

	l, err := r.loans.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.InfoContext(ctx, "Loan no longer exists, skipping reconciliation")
			monitoring.RecordReconciliation(outcomeSkipped)
			return nil, nil
		}
		logCtx.ErrorContext(ctx, "Failed to load loan for reconciliation", slog.Any("error", err))
		monitoring.RecordReconciliation(outcomeError)
		return nil, fmt.Errorf("reconcile loan %d: %w", loanID, err)
	}

	amounts, err := r.payments.AmountsByLoan(ctx, loanID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to load payments for reconciliation", slog.Any("error", err))
		monitoring.RecordReconciliation(outcomeError)
		return nil, fmt.Errorf("reconcile loan %d: %w", loanID, err)
	}

	l.TotalPayment = SumAmounts(amounts)
	l.Refresh(r.now())

	if err := r.loans.UpdateTotals(ctx, loanID, l.TotalPayment, l.Fine, l.DuePayment); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.InfoContext(ctx, "Loan deleted during reconciliation, skipping")
			monitoring.RecordReconciliation(outcomeSkipped)
			return nil, nil
		}
		logCtx.ErrorContext(ctx, "Failed to persist reconciled totals", slog.Any("error", err))
		monitoring.RecordReconciliation(outcomeError)
		return nil, fmt.Errorf("reconcile loan %d: %w", loanID, err)
	}

	monitoring.RecordReconciliation(outcomeUpdated)
	logCtx.InfoContext(ctx, "Loan reconciled",
		slog.Int("payments", len(amounts)),
		slog.Float64("totalPayment", l.TotalPayment),
		slog.Float64("duePayment", l.DuePayment),
		slog.Float64("fine", l.Fine),
	)

	evt := event.LoanReconciledEvent{
		LoanID:       l.ID,
		CustomerID:   l.CustomerID,
		TotalPayment: decimal.NewFromFloat(l.TotalPayment).StringFixed(2),
		DuePayment:   decimal.NewFromFloat(l.DuePayment).StringFixed(2),
		Fine:         decimal.NewFromFloat(l.Fine).StringFixed(2),
		Timestamp:    r.now(),
	}
	if err := r.pub.PublishLoanReconciled(ctx, evt); err != nil {
		logCtx.WarnContext(ctx, "Failed to publish loan reconciled event", slog.Any("error", err))
	}

	return l, nil
}
