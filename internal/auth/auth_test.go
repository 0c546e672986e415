package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken("test-secret-key", "user-123", "USER", time.Hour)

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestParseToken(t *testing.T) {
	secret := "test-secret-key"
	userID := "user-123"
	role := "USER"

	t.Run("valid token", func(t *testing.T) {
		token, err := GenerateToken(secret, userID, role, time.Hour)
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.Sub)
		assert.Equal(t, role, claims.Role)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("unique jti", func(t *testing.T) {
		a, err := GenerateToken(secret, userID, role, time.Hour)
		require.NoError(t, err)
		b, err := GenerateToken(secret, userID, role, time.Hour)
		require.NoError(t, err)

		ca, err := ParseToken(secret, a)
		require.NoError(t, err)
		cb, err := ParseToken(secret, b)
		require.NoError(t, err)
		assert.NotEqual(t, ca.ID, cb.ID)
	})

	t.Run("invalid signature", func(t *testing.T) {
		token, err := GenerateToken("wrong-secret", userID, role, time.Hour)
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("expired token", func(t *testing.T) {
		c := Claims{
			Sub:  userID,
			Role: role,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		c := Claims{
			Sub: userID,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = ParseToken(secret, token)
		assert.Error(t, err)
	})

	t.Run("malformed token", func(t *testing.T) {
		claims, err := ParseToken(secret, "not.a.valid.token")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestHashPassword(t *testing.T) {
	password := "testpassword123"

	hash, err := HashPassword(password)

	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
}

func TestVerifyPassword(t *testing.T) {
	password := "testpassword123"

	hash, err := HashPassword(password)
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		assert.True(t, VerifyPassword(hash, password))
	})

	t.Run("wrong password", func(t *testing.T) {
		assert.False(t, VerifyPassword(hash, "wrongpassword"))
	})

	t.Run("different hash each time", func(t *testing.T) {
		hash2, err := HashPassword(password)
		require.NoError(t, err)
		assert.NotEqual(t, hash, hash2)
		assert.True(t, VerifyPassword(hash2, password))
	})
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"Test123!@#", nil},
		{"SecureP@ss1", nil},
		{"Test1!", ErrPasswordTooShort},
		{"test123!@#", ErrPasswordNoUpper},
		{"TEST123!@#", ErrPasswordNoLower},
		{"TestPass!@#", ErrPasswordNoNumber},
		{"TestPass123", ErrPasswordNoSpecialChar},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.ErrorIs(t, ValidatePasswordStrength(tt.password), tt.want)
		})
	}
}
