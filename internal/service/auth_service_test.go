package service

import (
	"context"
	"testing"

	"cat_registry/internal/model"
	"cat_registry/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) (AuthService, UserService) {
	t.Helper()
	repo := newFakeUserRepo()
	jwtUtil := utils.NewJWTUtil("secret", 1)
	return NewAuthService(repo, testHasher, jwtUtil), NewUserService(repo, testHasher, "")
}

func TestLogin_Success(t *testing.T) {
	authSvc, userSvc := newTestAuthService(t)
	out := registerUser(t, userSvc, "matti", "matti@example.com")

	user, token, err := authSvc.Login(context.Background(), "matti", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, out.ID, user.ID)

	// The token carries the full caller identity
	claims, err := utils.NewJWTUtil("secret", 1).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, out.ID, claims.UserID)
	assert.Equal(t, "matti", claims.UserName)
	assert.Equal(t, "matti@example.com", claims.Email)
	assert.Equal(t, model.RoleUser, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	authSvc, userSvc := newTestAuthService(t)
	registerUser(t, userSvc, "matti", "matti@example.com")

	_, _, err := authSvc.Login(context.Background(), "matti", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	authSvc, _ := newTestAuthService(t)

	_, _, err := authSvc.Login(context.Background(), "nobody", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
