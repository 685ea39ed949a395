package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret")

	token, err := tm.GenerateAccessToken("665f1c2ab1", "user")
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "665f1c2ab1", claims.UserID)
	assert.Equal(t, "user", claims.Role)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager("test-secret")

	t.Run("Wrong secret", func(t *testing.T) {
		token, err := NewTokenManager("other").GenerateAccessToken("u1", "")
		require.NoError(t, err)
		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := tm.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Non HMAC algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, UserClaims{UserID: "u1"})
		s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = tm.ValidateToken(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("No user id", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, UserClaims{
			RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(time.Now())},
		})
		s, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = tm.ValidateToken(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestTokenManager_MaxAge(t *testing.T) {
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// a token with a far exp claim still expires 15 days after issuance
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, UserClaims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(365 * 24 * time.Hour)),
		},
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tm := &tokenManager{secret: []byte("test-secret"), maxAge: MaxTokenAge}

	tm.now = func() time.Time { return issued.Add(14 * 24 * time.Hour) }
	_, err = tm.ValidateToken(s)
	assert.NoError(t, err)

	tm.now = func() time.Time { return issued.Add(16 * 24 * time.Hour) }
	_, err = tm.ValidateToken(s)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_Expired(t *testing.T) {
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tm := &tokenManager{secret: []byte("s"), maxAge: MaxTokenAge, now: func() time.Time { return issued }}
	token, err := tm.GenerateAccessToken("u1", "")
	require.NoError(t, err)

	tm.now = func() time.Time { return issued.Add(MaxTokenAge + time.Hour) }
	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
