package user

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, user *User) error

	FindByID(ctx context.Context, userID int64) (*User, error)

	FindByEmail(ctx context.Context, email string) (*User, error)

	FindAll(ctx context.Context) ([]*User, error)

	Update(ctx context.Context, user *User) error

	Delete(ctx context.Context, userID int64) error
}
