package jwt

import (
	"agromart/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "test-refresh-secret")
}

func TestGenerateAndParseToken(t *testing.T) {
	setTestSecrets(t)

	exp := time.Now().Add(time.Hour).Unix()
	token, err := GenerateToken(42, "user", models.TokenKindAccess, exp)
	require.NoError(t, err)

	userID, role, err := ParseToken(token, models.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
	assert.Equal(t, "user", role)
}

func TestParseExpiredToken(t *testing.T) {
	setTestSecrets(t)

	exp := time.Now().Add(-time.Minute).Unix()
	token, err := GenerateToken(42, "user", models.TokenKindAccess, exp)
	require.NoError(t, err)

	_, _, err = ParseToken(token, models.TokenKindAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseWrongKind(t *testing.T) {
	setTestSecrets(t)

	//access token不能當作refresh token使用(密鑰不同)
	exp := time.Now().Add(time.Hour).Unix()
	token, err := GenerateToken(42, "user", models.TokenKindAccess, exp)
	require.NoError(t, err)

	_, _, err = ParseToken(token, models.TokenKindRefresh)
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	setTestSecrets(t)

	exp := time.Now().Add(time.Hour).Unix()
	token, err := GenerateToken(7, "admin", models.TokenKindRefresh, exp)
	require.NoError(t, err)

	userID, role, err := ParseToken(token, models.TokenKindRefresh)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
	assert.Equal(t, "admin", role)
}

func TestParseGarbageToken(t *testing.T) {
	setTestSecrets(t)

	_, _, err := ParseToken("not.a.token", models.TokenKindAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
