package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fitmi/fitmi-backend/internal/middleware"
	"github.com/fitmi/fitmi-backend/internal/models"
	"github.com/fitmi/fitmi-backend/internal/services"
)

// RegisterRequest is the signup payload. Height and weight are pointers so
// absent fields can be told apart from zero values.
type RegisterRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Gender   string   `json:"gender"`
	Height   *float64 `json:"height"`
	Weight   *float64 `json:"weight"`
}

// LoginRequest accepts either the email or the name in the username field.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserRequest carries the mutable profile fields; nil means unchanged.
// The password is deliberately absent from this payload.
type UpdateUserRequest struct {
	Name   *string  `json:"name"`
	Email  *string  `json:"email"`
	Gender *string  `json:"gender"`
	Height *float64 `json:"height"`
	Weight *float64 `json:"weight"`
}

// AuthResponse is the envelope for all auth endpoints.
type AuthResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	User    map[string]interface{} `json:"user,omitempty"`
	Token   string                 `json:"token,omitempty"`
}

type AuthHandler struct {
	auth   *services.AuthService
	tokens *services.TokenService
}

func NewAuthHandler(auth *services.AuthService, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" || req.Gender == "" ||
		req.Height == nil || req.Weight == nil {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if !models.ValidGender(req.Gender) {
		writeError(w, http.StatusBadRequest, "Gender must be male, female or other")
		return
	}

	user, err := h.auth.Register(r.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Gender:   req.Gender,
		Height:   *req.Height,
		Weight:   *req.Weight,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, "User already exists")
		case errors.Is(err, services.ErrValidation):
			writeError(w, http.StatusBadRequest, validationMessage(err, "All fields are required"))
		default:
			writeInternalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "User registered successfully",
		User:    user.PublicProfile(),
	})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Both username/email and password are required")
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		// One message for unknown identity and wrong password, so the
		// response never reveals whether the account exists.
		case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrValidation):
			writeError(w, http.StatusBadRequest, "Invalid username/email or password")
		default:
			writeInternalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    user.PublicProfile(),
	})
}

// UpdateUser handles PUT /api/users/{id}. The authenticated caller may only
// update their own profile.
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")
	if id != claims.UserID {
		writeError(w, http.StatusForbidden, "You can only update your own profile")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.auth.UpdateProfile(r.Context(), id, services.ProfileUpdate{
		Name:   req.Name,
		Email:  req.Email,
		Gender: req.Gender,
		Height: req.Height,
		Weight: req.Weight,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			writeError(w, http.StatusBadRequest, validationMessage(err, "At least one field is required for update"))
		case errors.Is(err, services.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, "Email is already in use")
		case errors.Is(err, services.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		default:
			writeInternalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "User updated successfully",
		User:    user.PublicProfile(),
	})
}

// GetMe handles GET /api/me, returning the profile behind the bearer token.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.auth.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "OK",
		User:    user.PublicProfile(),
	})
}

// Logout handles POST /api/logout, revoking the presented token until its
// natural expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.tokens.Revoke(r.Context(), claims); err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}
