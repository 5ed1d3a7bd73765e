package dto

import (
	"time"

	"loan-ledger/internal/domain/user"
)

type RegisterRequest struct {
	Username string `json:"username" example:"nimal"`
	Email    string `json:"email" example:"nimal@example.com"`
	Password string `json:"password" example:"s3cret!"`
	NIC      string `json:"nic" example:"901234567V"`
	Role     string `json:"role" enums:"admin,user" example:"user"`
}

func (r RegisterRequest) ToRegistration() user.Registration {
	return user.Registration{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
		NIC:      r.NIC,
		Role:     user.Role(r.Role),
	}
}

type LoginRequest struct {
	Email    string `json:"email" example:"nimal@example.com"`
	Password string `json:"password" example:"s3cret!"`
}

// UpdateUserRequest leaves the password unchanged when it is omitted.
type UpdateUserRequest struct {
	Username string `json:"username" example:"nimal"`
	Email    string `json:"email" example:"nimal@example.com"`
	NIC      string `json:"nic" example:"901234567V"`
	Role     string `json:"role" enums:"admin,user" example:"user"`
	Password string `json:"password,omitempty"`
}

func (r UpdateUserRequest) ToChanges() user.Changes {
	return user.Changes{
		Username: r.Username,
		Email:    r.Email,
		NIC:      r.NIC,
		Role:     user.Role(r.Role),
		Password: r.Password,
	}
}

type UserResponse struct {
	ID        int64     `json:"_id" example:"1"`
	Username  string    `json:"username" example:"nimal"`
	Email     string    `json:"email" example:"nimal@example.com"`
	NIC       string    `json:"nic" example:"901234567V"`
	Role      string    `json:"role" example:"user"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewUserResponse(u *user.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		NIC:       u.NIC,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func NewUserResponses(users []*user.User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = NewUserResponse(u)
	}
	return resp
}

type ProfileResponse struct {
	ID       int64  `json:"_id" example:"1"`
	Username string `json:"username" example:"nimal"`
	Email    string `json:"email" example:"nimal@example.com"`
	Role     string `json:"role" example:"user"`
}

func NewProfileResponse(p user.Profile) ProfileResponse {
	return ProfileResponse{ID: p.ID, Username: p.Username, Email: p.Email, Role: string(p.Role)}
}

type UserEnvelope struct {
	Message string       `json:"message" example:"User registered successfully!"`
	User    UserResponse `json:"user"`
}

type LoginResponse struct {
	Message string       `json:"message" example:"Login successful"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}
