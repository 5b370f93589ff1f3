package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/sangkips/fms-api/internal/domain/enum"
	infraRepo "github.com/sangkips/fms-api/internal/infrastructure/repository"
	"github.com/sangkips/fms-api/internal/testutil"
	"github.com/sangkips/fms-api/pkg/apperror"
	"github.com/sangkips/fms-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := testutil.NewDB(t)
	repos := infraRepo.NewRepositories(db)
	jwt := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(repos.Users, jwt, zap.NewNop())
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, nil, &RegisterInput{Name: "Alice", Email: " Alice@Example.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, enum.RoleUser, user.Role)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	out, err := svc.Login(ctx, &LoginInput{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)

	_, err = svc.Login(ctx, &LoginInput{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	refreshed, err := svc.RefreshToken(ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.User.ID)

	_, err = svc.Register(ctx, nil, &RegisterInput{Name: "Again", Email: "alice@example.com", Password: "x"})
	assertAppError(t, err, http.StatusConflict)
}

func TestAuthService_AdminRegistrationNeedsAdmin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, nil, &RegisterInput{Name: "Eve", Email: "eve@example.com", Password: "x", Role: enum.RoleAdmin})
	assertAppError(t, err, http.StatusForbidden)

	admin := &Actor{Role: enum.RoleAdmin}
	user, err := svc.Register(ctx, admin, &RegisterInput{Name: "Boss", Email: "boss@example.com", Password: "x", Role: enum.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, enum.RoleAdmin, user.Role)

	_, err = svc.Register(ctx, admin, &RegisterInput{Name: "X", Email: "x@example.com", Password: "x", Role: "Owner"})
	assertAppError(t, err, http.StatusBadRequest)
}

func TestAuthService_RefreshRejectsGarbage(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.RefreshToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}
