package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustack/admin-api/models"
	"github.com/edustack/admin-api/token"
)

func TestTokenValidatorAdapter(t *testing.T) {
	codec := token.NewCodec([]byte("test-secret"), time.Hour)
	validator := &tokenValidatorAdapter{codec: codec}

	t.Run("valid token yields full identity", func(t *testing.T) {
		user := models.NewSubAdmin("Sub", "sub@example.com", "hash",
			models.Permissions{Dashboard: true, ViewData: true})

		raw, err := codec.Issue(user)
		require.NoError(t, err)

		identity, err := validator.ValidateToken(context.Background(), raw)
		require.NoError(t, err)

		assert.Equal(t, user.ID, identity.UserID)
		assert.Equal(t, "sub@example.com", identity.Email)
		assert.Equal(t, models.RoleSubAdmin, identity.Role)
		assert.True(t, identity.Permissions.Dashboard)
		assert.False(t, identity.Permissions.ContentEditing)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := validator.ValidateToken(context.Background(), "not-a-jwt")
		assert.Error(t, err)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expiredCodec := token.NewCodec([]byte("test-secret"), -time.Minute)
		user := models.NewAdmin("Admin", "admin@example.com", "hash")

		raw, err := expiredCodec.Issue(user)
		require.NoError(t, err)

		_, err = validator.ValidateToken(context.Background(), raw)
		assert.ErrorIs(t, err, token.ErrTokenExpired)
	})
}
