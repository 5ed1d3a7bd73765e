package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/infrastructure/monitoring"

	"golang.org/x/sync/errgroup"
)

const defaultSweepConcurrency = 4

type LoanLister interface {
	ListIDs(ctx context.Context) ([]int64, error)
}

type LoanReconciler interface {
	Reconcile(ctx context.Context, loanID int64) (*loan.Loan, error)
}

// ReconcileSweepJob recomputes totals for every loan so that fines accrue on
// loans that receive no payment activity.
type ReconcileSweepJob struct {
	loans       LoanLister
	reconciler  LoanReconciler
	concurrency int
	timeout     time.Duration
	logger      *slog.Logger
}

func NewReconcileSweepJob(loans LoanLister, reconciler LoanReconciler, concurrency int, timeout time.Duration, logger *slog.Logger) *ReconcileSweepJob {
	if loans == nil || reconciler == nil || logger == nil {
		panic("ReconcileSweepJob dependencies cannot be nil")
	}
	if concurrency <= 0 {
		concurrency = defaultSweepConcurrency
	}
	return &ReconcileSweepJob{
		loans:       loans,
		reconciler:  reconciler,
		concurrency: concurrency,
		timeout:     timeout,
		logger:      logger.With("job", "ReconcileSweep"),
	}
}

func (j *ReconcileSweepJob) Run(ctx context.Context) error {
	startTime := time.Now()
	defer func() { monitoring.RecordSweep(time.Since(startTime)) }()

	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	j.logger.InfoContext(ctx, "Starting loan reconciliation sweep.")

	loanIDs, err := j.loans.ListIDs(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list loans, aborting sweep.", slog.Any("error", err))
		return fmt.Errorf("cannot run sweep, failed to list loans: %w", err)
	}
	if len(loanIDs) == 0 {
		j.logger.InfoContext(ctx, "No loans found to reconcile.")
		return nil
	}

	var reconciled, skipped, failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.concurrency)
	for _, loanID := range loanIDs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			l, err := j.reconciler.Reconcile(gctx, loanID)
			switch {
			case err != nil:
				j.logger.ErrorContext(gctx, "Failed to reconcile loan", slog.Int64("loanID", loanID), slog.Any("error", err))
				failed.Add(1)
			case l == nil:
				skipped.Add(1)
			default:
				reconciled.Add(1)
			}
			// Individual failures never cancel the remaining loans.
			return nil
		})
	}
	waitErr := g.Wait()

	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("total_loans", len(loanIDs)),
		slog.Int("loans_reconciled", int(reconciled.Load())),
		slog.Int("loans_skipped", int(skipped.Load())),
		slog.Int("errors_encountered", int(failed.Load())),
	)
	if waitErr != nil {
		summaryLog.WarnContext(ctx, "Loan reconciliation sweep interrupted.", slog.Any("error", waitErr))
		return fmt.Errorf("sweep interrupted: %w", waitErr)
	}
	if n := failed.Load(); n > 0 {
		summaryLog.WarnContext(ctx, "Loan reconciliation sweep finished with errors.")
		return fmt.Errorf("sweep completed with %d errors", n)
	}
	summaryLog.InfoContext(ctx, "Loan reconciliation sweep finished successfully.")
	return nil
}
