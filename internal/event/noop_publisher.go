package event

import (
	"context"
	"log/slog"
)

// NoopPublisher drops events; it is used when no broker is configured.
type NoopPublisher struct {
	logger *slog.Logger
}

var _ EventPublisher = (*NoopPublisher)(nil)

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger.With("component", "NoopPublisher")}
}

func (p *NoopPublisher) PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error {
	p.logger.DebugContext(ctx, "Dropping event", "routingKey", RoutingKeyCustomerCreated, "customerId", event.CustomerID)
	return nil
}

func (p *NoopPublisher) PublishPaymentRecorded(ctx context.Context, event PaymentRecordedEvent) error {
	p.logger.DebugContext(ctx, "Dropping event", "routingKey", RoutingKeyPaymentRecorded, "paymentId", event.PaymentID)
	return nil
}

func (p *NoopPublisher) PublishLoanReconciled(ctx context.Context, event LoanReconciledEvent) error {
	p.logger.DebugContext(ctx, "Dropping event", "routingKey", RoutingKeyLoanReconciled, "loanId", event.LoanID)
	return nil
}
