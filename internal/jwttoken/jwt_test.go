package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "complimart/pkg/domain"
)

func newTestService() *JWTService {
	return NewJWTService("test-signing-key", "complimart", "notification-engine")
}

func TestJWTRoundTrip(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateSessionToken("vendor-123", id.RoleVendor, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "vendor-123", claims.UserID)
	assert.Equal(t, id.RoleVendor, claims.Role)
	assert.NotEmpty(t, claims.JTI)
}

func TestValidateTokenRejections(t *testing.T) {
	svc := newTestService()

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("rejects wrong signing key", func(t *testing.T) {
		other := NewJWTService("different-key", "complimart", "notification-engine")
		token, err := other.GenerateSessionToken("vendor-123", id.RoleVendor, time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		token, err := svc.GenerateSessionToken("vendor-123", id.RoleVendor, -time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("rejects unsupported role claim", func(t *testing.T) {
		token, err := svc.GenerateSessionToken("user-1", id.Role("admin"), time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})
}
