package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndParse(t *testing.T) {
	token, expiry, err := GenerateToken(17, secret, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)

	userID, err := GetUserIDFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, int64(17), userID)
}

func TestParseRejectsBadTokens(t *testing.T) {
	expired, _, err := GenerateToken(17, secret, -time.Minute)
	require.NoError(t, err)

	otherKey, _, err := GenerateToken(17, []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 17}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":     expired,
		"wrong key":   otherKey,
		"unsigned":    none,
		"not a token": "abc.def",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := GetUserIDFromToken(token, secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
