package handler

import (
	"log/slog"
	"net/http"

	"loan-ledger/internal/api/handler/dto"
	"loan-ledger/internal/domain/user"
	"loan-ledger/internal/pkg/apperrors"
	"loan-ledger/internal/pkg/auth"
)

type UserHandler struct {
	service user.UserService
	respond *Responder
	logger  *slog.Logger
}

func NewUserHandler(s user.UserService, rs *Responder, l *slog.Logger) *UserHandler {
	if s == nil {
		panic("user service cannot be nil")
	}
	return &UserHandler{
		service: s,
		respond: rs,
		logger:  l.With("component", "UserHandler"),
	}
}

// authorizeSelf lets admins act on any account and users only on their own.
// Requests without claims are served when authentication is disabled.
func authorizeSelf(r *http.Request, userID int64) error {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok || claims.Role == string(user.RoleAdmin) || claims.UserID == userID {
		return nil
	}
	return apperrors.Forbidden("Access denied. Insufficient permissions.")
}

// Register handles POST /api/users/register
// @Summary Register a user
// @Description Creates an account. The password is stored as a bcrypt hash.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration payload"
// @Success 201 {object} dto.UserEnvelope
// @Failure 400 {object} dto.ErrorResponse "Missing fields, invalid role or duplicate email"
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/users/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.Error(w, r, err)
		return
	}

	u, err := h.service.Register(r.Context(), req.ToRegistration())
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	h.respond.JSON(w, http.StatusCreated, dto.UserEnvelope{Message: "User registered successfully!", User: dto.NewUserResponse(u)})
}

// Login handles POST /api/users/login
// @Summary Log in
// @Description Exchanges credentials for a bearer token valid for one hour.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse "Email or password missing"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /api/users/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.Error(w, r, err)
		return
	}

	token, u, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	h.respond.JSON(w, http.StatusOK, dto.LoginResponse{Message: "Login successful", Token: token, User: dto.NewUserResponse(u)})
}

// ListUsers handles GET /api/users/users
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {array} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /api/users/users [get]
// @Security BearerAuth
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.NewUserResponses(users))
}

// GetUser handles GET /api/users/user/{id}
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /api/users/user/{id} [get]
// @Security BearerAuth
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id", "user")
	if err == nil {
		err = authorizeSelf(r, userID)
	}
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	u, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.NewUserResponse(u))
}

// UpdateUser handles PUT /api/users/user/{id}
// @Summary Update a user
// @Description Non-admin users may only update their own account and cannot change their role.
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserRequest true "New values"
// @Success 200 {object} dto.UserEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/users/user/{id} [put]
// @Security BearerAuth
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id", "user")
	if err == nil {
		err = authorizeSelf(r, userID)
	}
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	var req dto.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok && claims.Role != string(user.RoleAdmin) && req.Role != "" && req.Role != claims.Role {
		h.logger.WarnContext(r.Context(), "Rejected role change by non-admin", slog.Int64("userID", userID))
		h.respond.Error(w, r, apperrors.Forbidden("Only admins can change roles."))
		return
	}

	u, err := h.service.UpdateUser(r.Context(), userID, req.ToChanges())
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.UserEnvelope{Message: "User updated successfully!", User: dto.NewUserResponse(u)})
}

// DeleteUser handles DELETE /api/users/user/{id}
// @Summary Delete a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/users/user/{id} [delete]
// @Security BearerAuth
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id", "user")
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.Message(w, http.StatusOK, "User deleted successfully!")
}

// GetProfile handles GET /api/users/user/profile/{id}
// @Summary Get a user's public profile
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.ProfileResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/users/user/profile/{id} [get]
// @Security BearerAuth
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id", "user")
	if err == nil {
		err = authorizeSelf(r, userID)
	}
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.NewProfileResponse(profile))
}
