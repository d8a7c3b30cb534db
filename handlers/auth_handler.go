package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/edustack/admin-api/middleware"
	"github.com/edustack/admin-api/models"
	"github.com/edustack/admin-api/services"
	"github.com/edustack/admin-api/utils"
)

// SignupAdminRequest represents the one-time admin bootstrap request
type SignupAdminRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the authenticated user and its token
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// AuthHandler handles signup, login, and logout HTTP requests
type AuthHandler struct {
	accounts      *services.AccountService
	cookieTTL     time.Duration
	secureCookies bool
	logger        *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. secureCookies should be true
// in production so the auth cookie is only sent over TLS.
func NewAuthHandler(accounts *services.AccountService, cookieTTL time.Duration, secureCookies bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		accounts:      accounts,
		cookieTTL:     cookieTTL,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// HandleSignupAdmin handles POST /auth/admin/signup.
// Creates the single admin account; a second attempt returns 400.
func (h *AuthHandler) HandleSignupAdmin(w http.ResponseWriter, r *http.Request) {
	var req SignupAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	user, token, err := h.accounts.BootstrapAdmin(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.setAuthCookie(w, token)
	_ = utils.WriteCreated(w, AuthResponse{User: user, Token: token})
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	user, token, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.setAuthCookie(w, token)
	_ = utils.WriteOK(w, AuthResponse{User: user, Token: token})
}

// HandleLogout handles POST /auth/logout.
// Logout is stateless: the cookie is expired, but already-issued tokens
// remain valid until their expiry.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.clearAuthCookie(w)
	_ = utils.WriteMessage(w, "Logged out")
}

func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthTokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthTokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
