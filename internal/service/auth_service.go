package service

import (
	"context"
	"errors"
	"fmt"

	"cat_registry/internal/model"
	"cat_registry/internal/repository"
	"cat_registry/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid user name or password")

// AuthService verifies credentials and issues identity tokens
type AuthService interface {
	Login(ctx context.Context, userName, password string) (*model.User, string, error)
}

type authService struct {
	userRepo repository.UserRepository
	hasher   *utils.PasswordHasher
	jwtUtil  *utils.JWTUtil
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, hasher *utils.PasswordHasher, jwtUtil *utils.JWTUtil) AuthService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		jwtUtil:  jwtUtil,
	}
}

// Login authenticates a user and returns a JWT token carrying their identity
func (s *authService) Login(ctx context.Context, userName, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByUserName(ctx, userName)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by user name: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials // User not found
	}

	if !s.hasher.Check(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials // Password mismatch
	}

	token, err := s.jwtUtil.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}
