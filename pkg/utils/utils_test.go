package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_AccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "admin@example.com", "Admin")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "Admin", claims.Role)
	assert.Equal(t, "admin@example.com", claims.Email)
}

func TestJWTManager_RejectsForeignSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Hour, time.Hour)
	verifier := NewJWTManager("secret-b", time.Hour, time.Hour)

	token, err := issuer.GenerateAccessToken(uuid.New(), "u@example.com", "User")
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute, time.Hour)

	token, err := m.GenerateAccessToken(uuid.New(), "u@example.com", "User")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RefreshToken(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, time.Hour)
	userID := uuid.New()

	token, err := m.GenerateRefreshToken(userID)
	require.NoError(t, err)

	got, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestGenerateDocumentNumber(t *testing.T) {
	n := GenerateDocumentNumber("QT")
	assert.True(t, strings.HasPrefix(n, "QT-"))
	assert.Len(t, n, len("QT-")+8)
	assert.NotEqual(t, n, GenerateDocumentNumber("QT"))
}

func TestNewLogger_FallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(LoggerConfig{Level: "verbose", Format: "json", OutputPath: "stderr"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(0))
	assert.False(t, logger.Core().Enabled(-1))
}
