package api

import (
	"net/http"

	"github.com/testsdaw/backend/internal/domain/user"
)

// ── Request / Response types ────────────────────────────────────────────────

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,min=2"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type LoginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// register godoc
// @Summary      Register a user
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "New account"
// @Success      201   {object}  RegisterResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse  "email already registered"
// @Failure      500   {object}  ErrorResponse
// @Router       /api/auth/register [post]
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	u, err := h.accounts.Register(r.Context(), req.Email, req.Password, req.Name)
	if h.handleError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusCreated, RegisterResponse{
		Message: "user registered",
		User:    toUserResponse(u),
	})
}

// login godoc
// @Summary      Log in
// @Description  Exchanges email and password for a bearer token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  LoginResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/auth/login [post]
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	u, token, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if h.handleError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{
		Message: "login successful",
		Token:   token,
		User:    toUserResponse(u),
	})
}
