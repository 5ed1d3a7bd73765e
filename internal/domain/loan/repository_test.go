package loan

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, loan *Loan) (*Loan, error) {
	args := m.Called(ctx, loan)
	if fn, ok := args.Get(0).(func(context.Context, *Loan) *Loan); ok {
		return fn(ctx, loan), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Loan), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, loanID int64) (*Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Loan), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context) ([]*Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Loan), args.Error(1)
}

func (m *MockRepository) FindByCustomerID(ctx context.Context, customerID int64) ([]*Loan, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Loan), args.Error(1)
}

func (m *MockRepository) ExistsForCustomer(ctx context.Context, customerID int64) (bool, error) {
	args := m.Called(ctx, customerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, loan *Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockRepository) UpdateTotals(ctx context.Context, loanID int64, totalPayment, fine, duePayment float64) error {
	args := m.Called(ctx, loanID, totalPayment, fine, duePayment)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, loanID int64) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}

func (m *MockRepository) ListIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockPaymentLedger struct {
	mock.Mock
}

func (m *MockPaymentLedger) AmountsByLoan(ctx context.Context, loanID int64) ([]float64, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}
