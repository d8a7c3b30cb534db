package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/edustack/admin-api/models"
	"github.com/edustack/admin-api/utils"
)

// TokenValidator defines the interface for validating identity tokens
type TokenValidator interface {
	// ValidateToken validates a token and returns the identity it asserts
	ValidateToken(ctx context.Context, token string) (*Identity, error)
}

// AuthMiddleware provides authentication and authorization middleware.
// Authentication populates the identity context; the role and permission
// checks only read it, so they must be mounted after RequireAuth.
type AuthMiddleware struct {
	validator TokenValidator
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(validator TokenValidator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		logger:    logger,
	}
}

// AuthTokenCookieName is the cookie carrying the token when the
// Authorization header is absent. The header takes precedence.
const AuthTokenCookieName = "auth_token"

// genericDenialMessage is shared by every 401 and 403 the gates produce so
// callers cannot enumerate roles or permissions from response bodies.
const genericDenialMessage = "Not authorized"

// RequireAuth is a middleware that requires a valid identity token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		// Extract token from Authorization header ("Bearer TOKEN") or cookie
		token := extractToken(r)
		if token == "" {
			m.logger.Warn("missing token",
				zap.String("request_id", requestID))
			_ = utils.WriteUnauthorized(w, genericDenialMessage)
			return
		}

		identity, err := m.validator.ValidateToken(ctx, token)
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteUnauthorized(w, genericDenialMessage)
			return
		}

		ctx = WithIdentity(ctx, identity)

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("user_id", identity.UserID.String()),
			zap.String("role", string(identity.Role)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole is a middleware that requires a specific role
func (m *AuthMiddleware) RequireRole(role models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			identity := GetIdentityFromContext(ctx)
			if identity == nil {
				m.logger.Error("identity not found in context",
					zap.String("request_id", requestID))
				_ = utils.WriteUnauthorized(w, genericDenialMessage)
				return
			}

			if identity.Role != role {
				m.logger.Warn("insufficient role",
					zap.String("request_id", requestID),
					zap.String("required_role", string(role)),
					zap.String("user_role", string(identity.Role)))
				_ = utils.WriteForbidden(w, genericDenialMessage)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission is a middleware that requires one of the fixed feature
// permission flags. An unknown permission name is a wiring error and panics
// at route construction, not per request. The admin role passes every
// permission check regardless of stored flags.
func (m *AuthMiddleware) RequirePermission(perm models.Permission) func(http.Handler) http.Handler {
	if !perm.Valid() {
		panic(fmt.Sprintf("middleware: unknown permission %q", perm))
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			identity := GetIdentityFromContext(ctx)
			if identity == nil {
				m.logger.Error("identity not found in context",
					zap.String("request_id", requestID))
				_ = utils.WriteUnauthorized(w, genericDenialMessage)
				return
			}

			// Admin bypass: a flat conditional, checked first
			if identity.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			if !identity.Permissions.Has(perm) {
				m.logger.Warn("insufficient permissions",
					zap.String("request_id", requestID),
					zap.String("required_permission", string(perm)),
					zap.String("user_id", identity.UserID.String()))
				_ = utils.WriteForbidden(w, genericDenialMessage)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the token from the Authorization header
// ("Bearer TOKEN") or the auth_token cookie. The header takes precedence
// when both are present.
func extractToken(r *http.Request) string {
	if token := extractBearerToken(r); token != "" {
		return token
	}
	if cookie, err := r.Cookie(AuthTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
