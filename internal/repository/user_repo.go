package repository

import (
	"context"
	"errors"
	"fmt"

	"cat_registry/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUserName(ctx context.Context, userName string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindAll(ctx context.Context) ([]model.UserRoleView, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (id, user_name, email, password_hash, role)
            VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Exec(ctx, sql, user.ID, user.UserName, user.Email, user.PasswordHash, user.Role)
	if err != nil {
		// TODO: Check for unique constraint violation specifically pgerrcode.UniqueViolation
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, user_name, email, password_hash, role FROM users WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(&user.ID, &user.UserName, &user.Email, &user.PasswordHash, &user.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindByUserName retrieves a user by their unique user name
func (r *userRepository) FindByUserName(ctx context.Context, userName string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, user_name, email, password_hash, role FROM users WHERE user_name = $1`
	err := r.db.QueryRow(ctx, sql, userName).Scan(&user.ID, &user.UserName, &user.Email, &user.PasswordHash, &user.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to find user by user name: %w", err)
	}
	return user, nil
}

// FindByEmail retrieves a user by their unique email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, user_name, email, password_hash, role FROM users WHERE email = $1`
	err := r.db.QueryRow(ctx, sql, email).Scan(&user.ID, &user.UserName, &user.Email, &user.PasswordHash, &user.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindAll retrieves all users projected to id and role only
func (r *userRepository) FindAll(ctx context.Context) ([]model.UserRoleView, error) {
	sql := `SELECT id, role FROM users ORDER BY user_name`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.UserRoleView
	for rows.Next() {
		var u model.UserRoleView
		if err := rows.Scan(&u.ID, &u.Role); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// Update overwrites an existing user record
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	sql := `UPDATE users SET user_name = $1, email = $2, password_hash = $3, role = $4 WHERE id = $5`
	cmdTag, err := r.db.Exec(ctx, sql, user.UserName, user.Email, user.PasswordHash, user.Role, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for update")
	}
	return nil
}

// Delete removes a user from the database
func (r *userRepository) Delete(ctx context.Context, id string) error {
	sql := `DELETE FROM users WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for deletion")
	}
	return nil
}
