package loan

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, loan *Loan) (*Loan, error)

	FindByID(ctx context.Context, loanID int64) (*Loan, error)

	FindAll(ctx context.Context) ([]*Loan, error)

	FindByCustomerID(ctx context.Context, customerID int64) ([]*Loan, error)

	ExistsForCustomer(ctx context.Context, customerID int64) (bool, error)

	// Update persists the loan's terms; totals are left untouched.
	Update(ctx context.Context, loan *Loan) error

	UpdateTotals(ctx context.Context, loanID int64, totalPayment, fine, duePayment float64) error

	Delete(ctx context.Context, loanID int64) error

	ListIDs(ctx context.Context) ([]int64, error)
}

// PaymentLedger yields the amounts of every payment recorded against a loan.
type PaymentLedger interface {
	AmountsByLoan(ctx context.Context, loanID int64) ([]float64, error)
}
