package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("test-secret", 15, 24)

	token, err := m.GenerateAccessToken("7a9f4a67-7a4e-4f3e-9a51-93d9d6d7c10f", "ada@example.edu", "author")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "7a9f4a67-7a4e-4f3e-9a51-93d9d6d7c10f", claims.UserID)
	assert.Equal(t, "ada@example.edu", claims.Email)
	assert.Equal(t, "author", claims.Role)
	assert.Equal(t, "access", claims.Type)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := NewManager("test-secret", 15, 24)

	token, err := m.GenerateRefreshToken("7a9f4a67-7a4e-4f3e-9a51-93d9d6d7c10f")
	require.NoError(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.Type)
}

func TestTokenTypeMismatch(t *testing.T) {
	m := NewManager("test-secret", 15, 24)

	access, err := m.GenerateAccessToken("u1", "ada@example.edu", "author")
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken("u1")
	require.NoError(t, err)

	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)
	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	m := NewManager("test-secret", 15, 24)
	other := NewManager("another-secret", 15, 24)

	token, err := m.GenerateAccessToken("u1", "ada@example.edu", "author")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewManager("test-secret", -1, 24)

	token, err := m.GenerateAccessToken("u1", "ada@example.edu", "author")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}
