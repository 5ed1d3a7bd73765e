package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"loan-ledger/internal/pkg/apperrors"

	"golang.org/x/crypto/bcrypt"
)

const (
	msgUserNotFound       = "User not found!"
	msgUserExists         = "User already exists!"
	msgInvalidCredentials = "Invalid credentials"
	msgLoginFields        = "Email and password are required!"

	BcryptCost = 10
)

type TokenIssuer interface {
	Issue(userID int64, role string) (string, error)
}

type UserService interface {
	Register(ctx context.Context, reg Registration) (*User, error)
	// Authenticate returns a signed session token for valid credentials.
	Authenticate(ctx context.Context, email, password string) (string, *User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	GetUser(ctx context.Context, userID int64) (*User, error)
	UpdateUser(ctx context.Context, userID int64, changes Changes) (*User, error)
	DeleteUser(ctx context.Context, userID int64) error
	GetProfile(ctx context.Context, userID int64) (Profile, error)
}

type userService struct {
	repo   Repository
	tokens TokenIssuer
	logger *slog.Logger
}

func NewUserService(repo Repository, tokens TokenIssuer, logger *slog.Logger) UserService {
	if repo == nil || tokens == nil {
		panic("user service requires a repository and a token issuer")
	}
	return &userService{
		repo:   repo,
		tokens: tokens,
		logger: logger.With("component", "UserService"),
	}
}

func (s *userService) Register(ctx context.Context, reg Registration) (*User, error) {
	if err := reg.Validate(); err != nil {
		s.logger.WarnContext(ctx, "Registration failed validation", slog.Any("error", err))
		return nil, err
	}
	email := normalizeEmail(reg.Email)

	if err := s.ensureEmailAvailable(ctx, email, 0); err != nil {
		return nil, err
	}

	hash, err := hashPassword(reg.Password)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		return nil, err
	}

	u := &User{
		Username:     strings.TrimSpace(reg.Username),
		Email:        email,
		PasswordHash: hash,
		NIC:          strings.TrimSpace(reg.NIC),
		Role:         reg.Role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, apperrors.Duplicate(msgUserExists)
		}
		s.logger.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "User registered", slog.Int64("userID", u.ID), slog.String("role", string(u.Role)))
	return u, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (string, *User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, apperrors.NewValidationError("email", msgLoginFields)
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Login for unknown email")
			return "", nil, apperrors.Unauthorized(msgInvalidCredentials)
		}
		s.logger.ErrorContext(ctx, "Failed to load user for login", slog.Any("error", err))
		return "", nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "Login with wrong password", slog.Int64("userID", u.ID))
		return "", nil, apperrors.Unauthorized(msgInvalidCredentials)
	}

	token, err := s.tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to issue token", slog.Any("error", err))
		return "", nil, fmt.Errorf("%w: %w", apperrors.ErrInternalServer, err)
	}

	s.logger.InfoContext(ctx, "User logged in", slog.Int64("userID", u.ID))
	return token, u, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.lookupError(ctx, err, userID)
	}
	return u, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID int64, changes Changes) (*User, error) {
	if err := changes.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.lookupError(ctx, err, userID)
	}

	email := normalizeEmail(changes.Email)
	if email != u.Email {
		if err := s.ensureEmailAvailable(ctx, email, u.ID); err != nil {
			return nil, err
		}
	}

	u.Username = strings.TrimSpace(changes.Username)
	u.Email = email
	u.NIC = strings.TrimSpace(changes.NIC)
	u.Role = changes.Role
	if changes.Password != "" {
		if u.PasswordHash, err = hashPassword(changes.Password); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAlreadyExists):
			return nil, apperrors.Duplicate(msgUserExists)
		case errors.Is(err, apperrors.ErrNotFound):
			return nil, apperrors.NotFound(msgUserNotFound)
		}
		s.logger.ErrorContext(ctx, "Failed to update user", slog.Int64("userID", userID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.InfoContext(ctx, "User updated", slog.Int64("userID", userID))
	return u, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return s.lookupError(ctx, err, userID)
	}
	s.logger.InfoContext(ctx, "User deleted", slog.Int64("userID", userID))
	return nil
}

func (s *userService) GetProfile(ctx context.Context, userID int64) (Profile, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return u.Profile(), nil
}

func (s *userService) ensureEmailAvailable(ctx context.Context, email string, ownerID int64) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Failed to check email uniqueness", slog.Any("error", err))
		return fmt.Errorf("failed to check email: %w", err)
	case existing.ID != ownerID:
		return apperrors.Duplicate(msgUserExists)
	}
	return nil
}

func (s *userService) lookupError(ctx context.Context, err error, userID int64) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		s.logger.WarnContext(ctx, "User not found", slog.Int64("userID", userID))
		return apperrors.NotFound(msgUserNotFound)
	}
	s.logger.ErrorContext(ctx, "User repository lookup failed", slog.Int64("userID", userID), slog.Any("error", err))
	return fmt.Errorf("failed to load user %d: %w", userID, err)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("%w: hash password: %w", apperrors.ErrInternalServer, err)
	}
	return string(hash), nil
}
