package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"loan-ledger/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubIssuer struct {
	err error
}

func (s stubIssuer) Issue(userID int64, role string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-" + role, nil
}

func setupService(issuer TokenIssuer) (*MockRepository, UserService) {
	repo := new(MockRepository)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return repo, NewUserService(repo, issuer, logger)
}

func registration() Registration {
	return Registration{
		Username: "nimal",
		Email:    " Nimal@Example.com ",
		Password: "s3cret!",
		NIC:      "901234567V",
		Role:     RoleUser,
	}
}

func storedUser(t *testing.T, password string) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &User{ID: 4, Username: "nimal", Email: "nimal@example.com", PasswordHash: string(hash), NIC: "901234567V", Role: RoleAdmin}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password and normalizes the email", func(t *testing.T) {
		repo, svc := setupService(stubIssuer{})
		repo.On("FindByEmail", ctx, "nimal@example.com").Return(nil, apperrors.ErrNotFound).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil).Once()

		u, err := svc.Register(ctx, registration())

		require.NoError(t, err)
		assert.Equal(t, "nimal@example.com", u.Email)
		assert.NotEqual(t, "s3cret!", u.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret!")))
		cost, err := bcrypt.Cost([]byte(u.PasswordHash))
		require.NoError(t, err)
		assert.Equal(t, BcryptCost, cost)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo, svc := setupService(stubIssuer{})
		repo.On("FindByEmail", ctx, "nimal@example.com").Return(&User{ID: 1}, nil).Once()

		_, err := svc.Register(ctx, registration())
		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
		assert.EqualError(t, err, "[DUPLICATE] User already exists!")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unique violation on insert", func(t *testing.T) {
		repo, svc := setupService(stubIssuer{})
		repo.On("FindByEmail", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
		repo.On("Create", ctx, mock.Anything).Return(apperrors.ErrAlreadyExists).Once()

		_, err := svc.Register(ctx, registration())
		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	})

	t.Run("validation", func(t *testing.T) {
		cases := map[string]func(*Registration){
			"username": func(r *Registration) { r.Username = "" },
			"email":    func(r *Registration) { r.Email = " " },
			"nic":      func(r *Registration) { r.NIC = "" },
			"password": func(r *Registration) { r.Password = "" },
			"role":     func(r *Registration) { r.Role = "root" },
		}
		for field, edit := range cases {
			_, svc := setupService(stubIssuer{})
			reg := registration()
			edit(&reg)

			_, err := svc.Register(ctx, reg)
			var ve *apperrors.ValidationError
			require.True(t, errors.As(err, &ve), field)
			assert.Equal(t, field, ve.Field)
		}
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, svc := setupService(stubIssuer{})
		repo.On("FindByEmail", ctx, "nimal@example.com").Return(storedUser(t, "pw"), nil).Once()

		token, u, err := svc.Authenticate(ctx, "NIMAL@example.com", "pw")
		require.NoError(t, err)
		assert.Equal(t, "token-admin", token)
		assert.Equal(t, int64(4), u.ID)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		repo, svc := setupService(stubIssuer{})
		repo.On("FindByEmail", ctx, "nimal@example.com").Return(storedUser(t, "pw"), nil).Once()
		repo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

		_, _, wrongPassword := svc.Authenticate(ctx, "nimal@example.com", "nope")
		_, _, unknownEmail := svc.Authenticate(ctx, "ghost@example.com", "pw")

		assert.ErrorIs(t, wrongPassword, apperrors.ErrUnauthorized)
		assert.ErrorIs(t, unknownEmail, apperrors.ErrUnauthorized)
		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	})

	t.Run("missing fields", func(t *testing.T) {
		_, svc := setupService(stubIssuer{})
		_, _, err := svc.Authenticate(ctx, "", "pw")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("issuer failure", func(t *testing.T) {
		repo, svc := setupService(stubIssuer{err: errors.New("boom")})
		repo.On("FindByEmail", ctx, mock.Anything).Return(storedUser(t, "pw"), nil).Once()

		_, _, err := svc.Authenticate(ctx, "nimal@example.com", "pw")
		assert.ErrorIs(t, err, apperrors.ErrInternalServer)
	})
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	changes := Changes{Username: "nimal p", Email: "nimal@example.com", NIC: "901234567V", Role: RoleUser}

	t.Run("keeps the password when none is given", func(t *testing.T) {
		repo, svc := setupService(stubIssuer{})
		existing := storedUser(t, "pw")
		oldHash := existing.PasswordHash
		repo.On("FindByID", ctx, int64(4)).Return(existing, nil).Once()
		repo.On("Update", ctx, existing).Return(nil).Once()

		u, err := svc.UpdateUser(ctx, 4, changes)
		require.NoError(t, err)
		assert.Equal(t, "nimal p", u.Username)
		assert.Equal(t, RoleUser, u.Role)
		assert.Equal(t, oldHash, u.PasswordHash)
		repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})

	t.Run("rehashes a new password", func(t *testing.T) {
		repo, svc := setupService(stubIssuer{})
		existing := storedUser(t, "pw")
		repo.On("FindByID", ctx, int64(4)).Return(existing, nil).Once()
		repo.On("Update", ctx, existing).Return(nil).Once()

		c := changes
		c.Password = "new-pw"
		u, err := svc.UpdateUser(ctx, 4, c)
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("new-pw")))
	})

	t.Run("email taken by someone else", func(t *testing.T) {
		repo, svc := setupService(stubIssuer{})
		repo.On("FindByID", ctx, int64(4)).Return(storedUser(t, "pw"), nil).Once()
		repo.On("FindByEmail", ctx, "taken@example.com").Return(&User{ID: 9}, nil).Once()

		c := changes
		c.Email = "taken@example.com"
		_, err := svc.UpdateUser(ctx, 4, c)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	})

	t.Run("not found", func(t *testing.T) {
		repo, svc := setupService(stubIssuer{})
		repo.On("FindByID", ctx, int64(4)).Return(nil, apperrors.ErrNotFound).Once()

		_, err := svc.UpdateUser(ctx, 4, changes)
		assert.EqualError(t, err, "[NOT_FOUND] User not found!")
	})
}

func TestProfileListDelete(t *testing.T) {
	ctx := context.Background()
	repo, svc := setupService(stubIssuer{})
	repo.On("FindByID", ctx, int64(4)).Return(storedUser(t, "pw"), nil).Once()
	repo.On("FindAll", ctx).Return([]*User{{ID: 1}, {ID: 2}}, nil).Once()
	repo.On("Delete", ctx, int64(5)).Return(apperrors.ErrNotFound).Once()

	profile, err := svc.GetProfile(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, Profile{ID: 4, Username: "nimal", Email: "nimal@example.com", Role: RoleAdmin}, profile)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	assert.ErrorIs(t, svc.DeleteUser(ctx, 5), apperrors.ErrNotFound)
}
