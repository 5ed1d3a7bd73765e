package payment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"loan-ledger/internal/infrastructure/monitoring"
)

const (
	receiptMin = 1000
	receiptMax = 9999

	DefaultReceiptAttempts = 10
)

type ReceiptChecker interface {
	ReceiptNumberExists(ctx context.Context, receiptNumber string) (bool, error)
}

// ReceiptGenerator proposes 4-digit receipt numbers. It only avoids known collisions;
// the unique constraint in storage has the final say.
type ReceiptGenerator struct {
	store       ReceiptChecker
	maxAttempts int
	intN        func(n int) int
	now         func() time.Time
	logger      *slog.Logger
}

func NewReceiptGenerator(store ReceiptChecker, maxAttempts int, logger *slog.Logger) *ReceiptGenerator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultReceiptAttempts
	}
	return &ReceiptGenerator{
		store:       store,
		maxAttempts: maxAttempts,
		intN:        rand.IntN,
		now:         time.Now,
		logger:      logger.With("component", "ReceiptGenerator"),
	}
}

func (g *ReceiptGenerator) Next(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate := fmt.Sprintf("%d", receiptMin+g.intN(receiptMax-receiptMin+1))
		exists, err := g.store.ReceiptNumberExists(ctx, candidate)
		if err != nil {
			g.logger.WarnContext(ctx, "Receipt number check failed, trying another",
				slog.String("candidate", candidate), slog.Int("attempt", attempt), slog.Any("error", err))
			continue
		}
		if !exists {
			return candidate, nil
		}
	}

	fallback := fmt.Sprintf("%04d", g.now().UnixMilli()%10000)
	monitoring.RecordReceiptFallback()
	g.logger.WarnContext(ctx, "Receipt attempts exhausted, using timestamp fallback",
		slog.Int("attempts", g.maxAttempts), slog.String("receiptNumber", fallback))
	return fallback, nil
}
