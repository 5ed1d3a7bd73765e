package event

import (
	"context"
	"time"
)

const (
	RoutingKeyCustomerCreated = "customer.created"
	RoutingKeyPaymentRecorded = "payment.recorded"
	RoutingKeyLoanReconciled  = "loan.reconciled"
)

type PaymentAction string

const (
	PaymentCreated PaymentAction = "created"
	PaymentUpdated PaymentAction = "updated"
	PaymentDeleted PaymentAction = "deleted"
)

// EventPublisher delivers ledger events. Callers treat delivery as best effort.
type EventPublisher interface {
	PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error
	PublishPaymentRecorded(ctx context.Context, event PaymentRecordedEvent) error
	PublishLoanReconciled(ctx context.Context, event LoanReconciledEvent) error
}

type CustomerCreatedEvent struct {
	CustomerID int64     `json:"customerId"`
	FullName   string    `json:"fullName"`
	IDNumber   string    `json:"idNumber"`
	Timestamp  time.Time `json:"timestamp"`
}

type PaymentRecordedEvent struct {
	Action        PaymentAction `json:"action"`
	PaymentID     int64         `json:"paymentId"`
	LoanID        int64         `json:"loanId"`
	CustomerID    int64         `json:"customerId"`
	Amount        string        `json:"amount"`
	ReceiptNumber string        `json:"receiptNumber"`
	Timestamp     time.Time     `json:"timestamp"`
}

type LoanReconciledEvent struct {
	LoanID       int64     `json:"loanId"`
	CustomerID   int64     `json:"customerId"`
	TotalPayment string    `json:"totalPayment"`
	DuePayment   string    `json:"duePayment"`
	Fine         string    `json:"fine"`
	Timestamp    time.Time `json:"timestamp"`
}
