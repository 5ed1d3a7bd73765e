package payment

import (
	"context"
	"errors"
)

// ErrReceiptTaken is returned by Create when another payment already holds the receipt number.
var ErrReceiptTaken = errors.New("receipt number already taken")

type Repository interface {
	Create(ctx context.Context, payment *Payment) (*Payment, error)

	FindByID(ctx context.Context, paymentID int64) (*Payment, error)

	FindAll(ctx context.Context) ([]*Payment, error)

	FindByLoanID(ctx context.Context, loanID int64) ([]*Payment, error)

	FindByIDNumber(ctx context.Context, idNumber string) ([]*Payment, error)

	// Update persists every field except the receipt number.
	Update(ctx context.Context, payment *Payment) error

	// Delete removes the payment and returns the row as it was.
	Delete(ctx context.Context, paymentID int64) (*Payment, error)

	ReceiptNumberExists(ctx context.Context, receiptNumber string) (bool, error)

	AmountsByLoan(ctx context.Context, loanID int64) ([]float64, error)
}
