package payment

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, payment *Payment) (*Payment, error) {
	args := m.Called(ctx, payment)
	if fn, ok := args.Get(0).(func(context.Context, *Payment) *Payment); ok {
		return fn(ctx, payment), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, paymentID int64) (*Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context) ([]*Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Payment), args.Error(1)
}

func (m *MockRepository) FindByLoanID(ctx context.Context, loanID int64) ([]*Payment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Payment), args.Error(1)
}

func (m *MockRepository) FindByIDNumber(ctx context.Context, idNumber string) ([]*Payment, error) {
	args := m.Called(ctx, idNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Payment), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, payment *Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, paymentID int64) (*Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) ReceiptNumberExists(ctx context.Context, receiptNumber string) (bool, error) {
	args := m.Called(ctx, receiptNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) AmountsByLoan(ctx context.Context, loanID int64) ([]float64, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}
