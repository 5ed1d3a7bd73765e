package customer

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (_m *MockCustomerRepository) Save(ctx context.Context, customer *Customer) error {
	ret := _m.Called(ctx, customer)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *Customer) error); ok {
		r0 = rf(ctx, customer)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockCustomerRepository) FindByID(ctx context.Context, customerID int64) (*Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) FindByIDNumber(ctx context.Context, idNumber string) (*Customer, error) {
	ret := _m.Called(ctx, idNumber)

	var r0 *Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) FindByFullName(ctx context.Context, fullName string) (*Customer, error) {
	ret := _m.Called(ctx, fullName)

	var r0 *Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) FindAll(ctx context.Context) ([]*Customer, error) {
	ret := _m.Called(ctx)

	var r0 []*Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) Delete(ctx context.Context, customerID int64) error {
	ret := _m.Called(ctx, customerID)
	return ret.Error(0)
}
