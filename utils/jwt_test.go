package utils

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	// Configuration is loaded lazily on first use; the secret must be in place
	// before any token helper runs.
	os.Setenv("JWT_SECRET", "unit-test-secret")
	os.Exit(m.Run())
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(42, "dana@unihub.dev", TokenAccess, time.Minute)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "dana@unihub.dev", claims.Email)
	assert.Equal(t, TokenAccess, claims.TokenType)
}

func TestGenerateTokenPair(t *testing.T) {
	pair, err := GenerateTokenPair(7, "kim@unihub.dev")
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	access, err := ParseToken(pair.Access)
	assert.NoError(t, err)
	assert.Equal(t, TokenAccess, access.TokenType)

	refresh, err := ParseToken(pair.Refresh)
	assert.NoError(t, err)
	assert.Equal(t, TokenRefresh, refresh.TokenType)
	assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt.Time))
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken(1, "old@unihub.dev", TokenAccess, -time.Minute)
	assert.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}
