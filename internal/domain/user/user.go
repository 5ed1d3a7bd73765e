package user

import (
	"strings"
	"time"

	"loan-ledger/internal/pkg/apperrors"
)

const msgAllFieldsRequired = "All fields are required!"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	NIC          string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public subset of a user.
type Profile struct {
	ID       int64
	Username string
	Email    string
	Role     Role
}

func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

type Registration struct {
	Username string
	Email    string
	Password string
	NIC      string
	Role     Role
}

func (r Registration) Validate() error {
	if err := requireFields(r.Username, r.Email, r.NIC); err != nil {
		return err
	}
	if r.Password == "" {
		return apperrors.NewValidationError("password", msgAllFieldsRequired)
	}
	return validateRole(r.Role)
}

// Changes are the fields an update may set. An empty Password keeps the current one.
type Changes struct {
	Username string
	Email    string
	NIC      string
	Role     Role
	Password string
}

func (c Changes) Validate() error {
	if err := requireFields(c.Username, c.Email, c.NIC); err != nil {
		return err
	}
	return validateRole(c.Role)
}

func requireFields(username, email, nic string) error {
	switch {
	case strings.TrimSpace(username) == "":
		return apperrors.NewValidationError("username", msgAllFieldsRequired)
	case strings.TrimSpace(email) == "":
		return apperrors.NewValidationError("email", msgAllFieldsRequired)
	case strings.TrimSpace(nic) == "":
		return apperrors.NewValidationError("nic", msgAllFieldsRequired)
	}
	return nil
}

func validateRole(role Role) error {
	if role == "" {
		return apperrors.NewValidationError("role", msgAllFieldsRequired)
	}
	if !role.Valid() {
		return apperrors.NewValidationError("role", "role must be admin or user")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
