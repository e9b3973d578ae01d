package auth

import (
	"testing"
	"time"

	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *TokenManager {
	return NewTokenManager("test-secret", time.Hour, 24*time.Hour)
}

var manager = models.User{Base: models.Base{ID: "user-1"}, Role: models.RoleCampManager}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := testManager()

	access, err := m.IssueAccess(manager)
	require.NoError(t, err)

	id, err := m.Authenticate(access)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "user-1", Role: models.RoleCampManager}, id)

	refresh, err := m.IssueRefresh(manager)
	require.NoError(t, err)
	claims, err := m.Verify(refresh, RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := testManager()

	t.Run("refresh token used as access", func(t *testing.T) {
		refresh, err := m.IssueRefresh(manager)
		require.NoError(t, err)
		_, err = m.Authenticate(refresh)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		issuer := testManager()
		issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := issuer.IssueAccess(manager)
		require.NoError(t, err)
		_, err = m.Authenticate(token)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("other secret", func(t *testing.T) {
		token, err := NewTokenManager("other", time.Hour, time.Hour).IssueAccess(manager)
		require.NoError(t, err)
		_, err = m.Authenticate(token)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1", TokenType: AccessToken})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Authenticate(signed)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Authenticate("not-a-jwt")
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))

	assert.ErrorIs(t, ValidatePassword("short"), models.ErrValidation)
	assert.NoError(t, ValidatePassword("long enough"))
}
