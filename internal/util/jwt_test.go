package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestParseJWT(t *testing.T) {
	valid := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "auth",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}

	claims, err := ParseJWT(sign(t, "secret", valid), "secret", "auth")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)

	_, err = ParseJWT(sign(t, "other", valid), "secret", "")
	assert.Error(t, err)

	_, err = ParseJWT(sign(t, "secret", valid), "secret", "someone-else")
	assert.Error(t, err)

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	_, err = ParseJWT(sign(t, "secret", expired), "secret", "")
	assert.Error(t, err)

	anonymous := valid
	anonymous.Subject = ""
	_, err = ParseJWT(sign(t, "secret", anonymous), "secret", "")
	assert.Error(t, err)
}
