package handler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/payment"
	"loan-ledger/internal/domain/user"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func testResponder() *Responder {
	return NewResponder(false, testLogger())
}

func withURLParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) CreateCustomer(ctx context.Context, details customer.Details) (*customer.Customer, error) {
	args := m.Called(ctx, details)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	args := m.Called(ctx, customerID)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	args := m.Called(ctx)
	if cs, ok := args.Get(0).([]*customer.Customer); ok {
		return cs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) UpdateCustomer(ctx context.Context, customerID int64, details customer.Details) (*customer.Customer, error) {
	args := m.Called(ctx, customerID, details)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	return m.Called(ctx, customerID).Error(0)
}

func (m *MockCustomerService) FindByIDNumber(ctx context.Context, idNumber string) (*customer.Customer, error) {
	args := m.Called(ctx, idNumber)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) FindByFullName(ctx context.Context, fullName string) (*customer.Customer, error) {
	args := m.Called(ctx, fullName)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) CreateLoan(ctx context.Context, customerID int64, terms loan.Terms) (*loan.Loan, error) {
	args := m.Called(ctx, customerID, terms)
	if l, ok := args.Get(0).(*loan.Loan); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) GetLoan(ctx context.Context, loanID int64) (*loan.Loan, error) {
	args := m.Called(ctx, loanID)
	if l, ok := args.Get(0).(*loan.Loan); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) ListLoans(ctx context.Context) ([]*loan.Loan, error) {
	args := m.Called(ctx)
	if ls, ok := args.Get(0).([]*loan.Loan); ok {
		return ls, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) ListLoansByCustomer(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	args := m.Called(ctx, customerID)
	if ls, ok := args.Get(0).([]*loan.Loan); ok {
		return ls, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) UpdateLoan(ctx context.Context, loanID int64, terms loan.Terms) (*loan.Loan, error) {
	args := m.Called(ctx, loanID, terms)
	if l, ok := args.Get(0).(*loan.Loan); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) DeleteLoan(ctx context.Context, loanID int64) error {
	return m.Called(ctx, loanID).Error(0)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreatePayment(ctx context.Context, in payment.Input) (*payment.Payment, error) {
	args := m.Called(ctx, in)
	if p, ok := args.Get(0).(*payment.Payment); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentService) GetPayment(ctx context.Context, paymentID int64) (*payment.Payment, error) {
	args := m.Called(ctx, paymentID)
	if p, ok := args.Get(0).(*payment.Payment); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentService) ListPayments(ctx context.Context) ([]*payment.Payment, error) {
	args := m.Called(ctx)
	if ps, ok := args.Get(0).([]*payment.Payment); ok {
		return ps, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentService) ListCustomerPayments(ctx context.Context, fullName string) ([]payment.HistoryEntry, error) {
	args := m.Called(ctx, fullName)
	if h, ok := args.Get(0).([]payment.HistoryEntry); ok {
		return h, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentService) UpdatePayment(ctx context.Context, paymentID int64, in payment.Input) (*payment.Payment, error) {
	args := m.Called(ctx, paymentID, in)
	if p, ok := args.Get(0).(*payment.Payment); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentService) DeletePayment(ctx context.Context, paymentID int64) error {
	return m.Called(ctx, paymentID).Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, reg user.Registration) (*user.User, error) {
	args := m.Called(ctx, reg)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (string, *user.User, error) {
	args := m.Called(ctx, email, password)
	if u, ok := args.Get(1).(*user.User); ok {
		return args.String(0), u, args.Error(2)
	}
	return args.String(0), nil, args.Error(2)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]*user.User, error) {
	args := m.Called(ctx)
	if us, ok := args.Get(0).([]*user.User); ok {
		return us, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, userID int64) (*user.User, error) {
	args := m.Called(ctx, userID)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, userID int64, changes user.Changes) (*user.User, error) {
	args := m.Called(ctx, userID, changes)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID int64) (user.Profile, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).(user.Profile); ok {
		return p, args.Error(1)
	}
	return user.Profile{}, args.Error(1)
}
