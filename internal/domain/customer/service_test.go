package customer_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/event"
	"loan-ledger/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishCustomerCreated(ctx context.Context, e event.CustomerCreatedEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockPublisher) PublishPaymentRecorded(ctx context.Context, e event.PaymentRecordedEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockPublisher) PublishLoanReconciled(ctx context.Context, e event.LoanReconciledEvent) error {
	return m.Called(ctx, e).Error(0)
}

func setupTest() (*customer.MockCustomerRepository, *mockPublisher, customer.CustomerService) {
	mockRepo := new(customer.MockCustomerRepository)
	pub := new(mockPublisher)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := customer.NewCustomerService(mockRepo, pub, logger)
	return mockRepo, pub, service
}

func details() customer.Details {
	return customer.Details{
		FullName: " Kamala Silva ",
		Birthday: time.Date(1985, 1, 30, 0, 0, 0, 0, time.UTC),
		Address:  "44 Galle Rd",
		IDNumber: "853456789V",
	}
}

func TestCustomerService_CreateCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, pub, service := setupTest()

		mockRepo.On("FindByIDNumber", ctx, "853456789V").Return(nil, apperrors.ErrNotFound).Once()
		mockRepo.On("Save", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			if c.FullName != "Kamala Silva" {
				return false
			}
			c.ID = 7
			return true
		})).Return(nil).Once()
		pub.On("PublishCustomerCreated", ctx, mock.MatchedBy(func(e event.CustomerCreatedEvent) bool {
			return e.CustomerID == 7 && e.IDNumber == "853456789V"
		})).Return(nil).Once()

		created, err := service.CreateCustomer(ctx, details())

		require.NoError(t, err)
		assert.Equal(t, int64(7), created.ID)
		assert.Equal(t, "Kamala Silva", created.FullName)
		mockRepo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("Publish failure does not fail creation", func(t *testing.T) {
		mockRepo, pub, service := setupTest()

		mockRepo.On("FindByIDNumber", ctx, "853456789V").Return(nil, apperrors.ErrNotFound).Once()
		mockRepo.On("Save", ctx, mock.Anything).Return(nil).Once()
		pub.On("PublishCustomerCreated", ctx, mock.Anything).Return(errors.New("broker down")).Once()

		_, err := service.CreateCustomer(ctx, details())
		assert.NoError(t, err)
	})

	t.Run("Error - Missing field", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		d := details()
		d.Address = ""

		_, err := service.CreateCustomer(ctx, d)

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Error - Duplicate ID number", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindByIDNumber", ctx, "853456789V").Return(&customer.Customer{ID: 3}, nil).Once()

		_, err := service.CreateCustomer(ctx, details())

		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
		assert.EqualError(t, err, "[DUPLICATE] ID Number must be unique!")
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Error - Unique violation on insert", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindByIDNumber", ctx, "853456789V").Return(nil, apperrors.ErrNotFound).Once()
		mockRepo.On("Save", ctx, mock.Anything).Return(apperrors.ErrAlreadyExists).Once()

		_, err := service.CreateCustomer(ctx, details())
		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	})
}

func TestCustomerService_GetCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindByID", ctx, int64(1)).Return(&customer.Customer{ID: 1, FullName: "A"}, nil).Once()

		cust, err := service.GetCustomer(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "A", cust.FullName)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindByID", ctx, int64(2)).Return(nil, apperrors.ErrNotFound).Once()

		_, err := service.GetCustomer(ctx, 2)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.EqualError(t, err, "[NOT_FOUND] Customer not found!")
	})

	t.Run("Repository failure", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindByID", ctx, int64(3)).Return(nil, apperrors.ErrDatabase).Once()

		_, err := service.GetCustomer(ctx, 3)
		assert.ErrorIs(t, err, apperrors.ErrDatabase)
		assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestCustomerService_ListCustomers(t *testing.T) {
	ctx := context.Background()
	mockRepo, _, service := setupTest()
	mockRepo.On("FindAll", ctx).Return([]*customer.Customer{{ID: 1}, {ID: 2}}, nil).Once()

	list, err := service.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCustomerService_UpdateCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success keeps own ID number", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		existing := &customer.Customer{ID: 5, FullName: "Old", IDNumber: "853456789V"}
		mockRepo.On("FindByID", ctx, int64(5)).Return(existing, nil).Once()
		mockRepo.On("FindByIDNumber", ctx, "853456789V").Return(existing, nil).Once()
		mockRepo.On("Save", ctx, existing).Return(nil).Once()

		updated, err := service.UpdateCustomer(ctx, 5, details())
		require.NoError(t, err)
		assert.Equal(t, "Kamala Silva", updated.FullName)
		mockRepo.AssertExpectations(t)
	})

	t.Run("ID number owned by another customer", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindByID", ctx, int64(5)).Return(&customer.Customer{ID: 5}, nil).Once()
		mockRepo.On("FindByIDNumber", ctx, "853456789V").Return(&customer.Customer{ID: 9}, nil).Once()

		_, err := service.UpdateCustomer(ctx, 5, details())
		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindByID", ctx, int64(5)).Return(nil, apperrors.ErrNotFound).Once()

		_, err := service.UpdateCustomer(ctx, 5, details())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestCustomerService_DeleteCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("Delete", ctx, int64(4)).Return(nil).Once()
		assert.NoError(t, service.DeleteCustomer(ctx, 4))
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("Delete", ctx, int64(4)).Return(apperrors.ErrNotFound).Once()
		assert.ErrorIs(t, service.DeleteCustomer(ctx, 4), apperrors.ErrNotFound)
	})
}

func TestCustomerService_Lookups(t *testing.T) {
	ctx := context.Background()
	mockRepo, _, service := setupTest()
	mockRepo.On("FindByIDNumber", ctx, "X1").Return(&customer.Customer{ID: 1}, nil).Once()
	mockRepo.On("FindByFullName", ctx, "Nobody").Return(nil, apperrors.ErrNotFound).Once()

	byID, err := service.FindByIDNumber(ctx, "X1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), byID.ID)

	_, err = service.FindByFullName(ctx, "Nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestNewCustomerService(t *testing.T) {
	assert.Panics(t, func() { customer.NewCustomerService(nil, nil, nil) })
	assert.NotPanics(t, func() { customer.NewCustomerService(new(customer.MockCustomerRepository), nil, nil) })
}
