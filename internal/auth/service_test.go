package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse-battery", hash)

	assert.NoError(t, CheckPassword(hash, "correct-horse-battery"))
	assert.Error(t, CheckPassword(hash, "wrong-password"))
}

func TestHashPasswordLengthLimits(t *testing.T) {
	_, err := HashPassword("short")
	assert.Error(t, err)

	_, err = HashPassword(strings.Repeat("a", MaxPasswordLength+1))
	assert.Error(t, err)
}

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService()
	user := &User{
		ID:       "9f0c1a2b-0000-0000-0000-000000000001",
		Name:     "Анна",
		LastName: "Сергеева",
		Email:    "a.sergeeva@example.com",
	}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.ID, claims.Subject)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewJWTService()

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)

	_, err = svc.ValidateToken("")
	assert.Error(t, err)
}
