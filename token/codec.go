package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/edustack/admin-api/models"
)

var (
	// ErrInvalidToken is returned when the token signature, payload, or
	// subject cannot be verified
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the token is past its expiry
	ErrTokenExpired = errors.New("token expired")
)

// Claims represents the identity assertion embedded in an issued token.
// Permissions are snapshotted at issue time; changes made to a stored
// account do not take effect until a new token is issued.
type Claims struct {
	jwt.RegisteredClaims
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Role        models.UserRole    `json:"role"`
	Permissions models.Permissions `json:"permissions"`
}

// UserID returns the token subject parsed as a user ID
func (c *Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

// Codec signs and verifies identity tokens with a shared HMAC secret.
// The secret and lifetime come from configuration; there is no global state.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a Codec with the given signing secret and token lifetime
func NewCodec(secret []byte, ttl time.Duration) *Codec {
	return &Codec{secret: secret, ttl: ttl}
}

// TTL returns the configured token lifetime
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue produces a signed token asserting the user's identity, role, and
// permission flags, valid for the configured lifetime
func (c *Codec) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		Permissions: user.Permissions,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies the token's signature and expiry and returns its claims.
// A token that fails verification is never partially trusted.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
