package tokengenerator

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	g := NewJwtTokenGenerator("test-secret", "gatekit", "gatekit")

	tokenStr, expiresAt, err := g.GenerateToken("dev@example.com", time.Hour, map[string]interface{}{
		"account_id": "42",
	})
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	parsed, err := g.ParseToken(tokenStr)
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "dev@example.com", claims["sub"])
	assert.Equal(t, "dev@example.com", claims["email"])
}

func TestParseTokenRejectsUnexpectedAlgorithm(t *testing.T) {
	g := NewJwtTokenGenerator("test-secret", "gatekit", "gatekit")

	// Signed with the right secret but the wrong algorithm.
	token := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.RegisteredClaims{
		Subject:   "dev@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = g.ParseToken(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	g := NewJwtTokenGenerator("test-secret", "gatekit", "gatekit")
	other := NewJwtTokenGenerator("other-secret", "gatekit", "gatekit")

	tokenStr, _, err := other.GenerateToken("dev@example.com", time.Hour, nil)
	require.NoError(t, err)

	_, err = g.ParseToken(tokenStr)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	g := NewJwtTokenGenerator("test-secret", "gatekit", "gatekit")

	tokenStr, _, err := g.GenerateToken("dev@example.com", -time.Hour, nil)
	require.NoError(t, err)

	_, err = g.ParseToken(tokenStr)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
