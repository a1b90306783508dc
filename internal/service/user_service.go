package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cat_registry/internal/model"
	"cat_registry/internal/repository"
	"cat_registry/internal/utils"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrNoUsersFound      = errors.New("no users found")
	ErrUserAlreadyExists = errors.New("user with this user name or email already exists")
)

// UserService defines operations on user accounts
type UserService interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.UserRoleView, error)
	CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.UserOutput, error)
	UpdateCurrentUser(ctx context.Context, ident model.Identity, req model.UpdateUserRequest) (*model.UserOutput, error)
	DeleteCurrentUser(ctx context.Context, ident model.Identity) (*model.UserOutput, error)
}

type userService struct {
	repo              repository.UserRepository
	hasher            *utils.PasswordHasher
	initialAdminEmail string
}

// NewUserService creates a new UserService. initialAdminEmail, when set,
// grants the admin role to the account registered with that address.
func NewUserService(repo repository.UserRepository, hasher *utils.PasswordHasher, initialAdminEmail string) UserService {
	return &userService{repo: repo, hasher: hasher, initialAdminEmail: initialAdminEmail}
}

func output(user *model.User) *model.UserOutput {
	return &model.UserOutput{
		ID:       user.ID,
		UserName: user.UserName,
		Email:    user.Email,
	}
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	user.PasswordHash = "" // never leaves this layer
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.UserRoleView, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrNoUsersFound
	}
	return users, nil
}

func (s *userService) CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.UserOutput, error) {
	existing, err := s.repo.FindByUserName(ctx, req.UserName)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user name: %w", err)
	}
	if existing == nil {
		existing, err = s.repo.FindByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing email: %w", err)
		}
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userRole := model.RoleUser // Default role
	if s.initialAdminEmail != "" && req.Email == s.initialAdminEmail {
		userRole = model.RoleAdmin
		log.Printf("INFO: User %s is being registered as ADMIN via initial admin email.", req.Email)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		UserName:     req.UserName,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         userRole,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	return output(user), nil
}

func (s *userService) UpdateCurrentUser(ctx context.Context, ident model.Identity, req model.UpdateUserRequest) (*model.UserOutput, error) {
	existing, err := s.repo.FindByID(ctx, ident.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user for update: %w", err)
	}
	if existing == nil {
		return nil, ErrUserNotFound
	}

	// Only admins may change a role
	if req.Role != nil && *req.Role != existing.Role && ident.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}

	if req.UserName != nil && *req.UserName != existing.UserName {
		conflict, err := s.repo.FindByUserName(ctx, *req.UserName)
		if err != nil {
			return nil, fmt.Errorf("failed to check user name availability: %w", err)
		}
		if conflict != nil {
			return nil, ErrUserAlreadyExists
		}
		existing.UserName = *req.UserName
	}
	if req.Email != nil && *req.Email != existing.Email {
		conflict, err := s.repo.FindByEmail(ctx, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email availability: %w", err)
		}
		if conflict != nil {
			return nil, ErrUserAlreadyExists
		}
		existing.Email = *req.Email
	}
	if req.Password != nil {
		hashedPassword, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		existing.PasswordHash = hashedPassword
	}
	if req.Role != nil {
		existing.Role = *req.Role
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update user in repo: %w", err)
	}
	return output(existing), nil
}

func (s *userService) DeleteCurrentUser(ctx context.Context, ident model.Identity) (*model.UserOutput, error) {
	existing, err := s.repo.FindByID(ctx, ident.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user for deletion: %w", err)
	}
	if existing == nil {
		return nil, ErrUserNotFound
	}

	// Cats keep their owner snapshot; deleting the account does not cascade.
	if err := s.repo.Delete(ctx, ident.ID); err != nil {
		return nil, fmt.Errorf("failed to delete user in repo: %w", err)
	}
	return output(existing), nil
}
