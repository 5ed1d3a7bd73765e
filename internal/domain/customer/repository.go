package customer

import (
	"context"
)

type CustomerRepository interface {
	// Save inserts the customer when ID is zero and updates it otherwise.
	Save(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	FindByIDNumber(ctx context.Context, idNumber string) (*Customer, error)

	FindByFullName(ctx context.Context, fullName string) (*Customer, error)

	FindAll(ctx context.Context) ([]*Customer, error)

	Delete(ctx context.Context, customerID int64) error
}
