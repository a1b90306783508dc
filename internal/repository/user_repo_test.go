package repository

import (
	"context"
	"testing"

	"cat_registry/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRepoWithMock(t *testing.T) (UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewUserRepository(mock), mock
}

func TestUserRepository_Create(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	user := &model.User{
		ID:           "u-1",
		UserName:     "matti",
		Email:        "matti@example.com",
		PasswordHash: "hashed",
		Role:         model.RoleUser,
	}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.UserName, user.Email, user.PasswordHash, user.Role).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), user)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	rows := pgxmock.NewRows([]string{"id", "user_name", "email", "password_hash", "role"}).
		AddRow("u-1", "matti", "matti@example.com", "hashed", model.RoleUser)
	mock.ExpectQuery("SELECT id, user_name, email, password_hash, role FROM users WHERE id").
		WithArgs("u-1").
		WillReturnRows(rows)

	user, err := repo.FindByID(context.Background(), "u-1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "matti", user.UserName)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery("SELECT id, user_name, email, password_hash, role FROM users WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.FindByID(context.Background(), "missing")
	assert.NoError(t, err) // not found is not an error at this layer
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindAll_RoleProjection(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	rows := pgxmock.NewRows([]string{"id", "role"}).
		AddRow("u-1", model.RoleAdmin).
		AddRow("u-2", model.RoleUser)
	mock.ExpectQuery("SELECT id, role FROM users").WillReturnRows(rows)

	users, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, model.UserRoleView{ID: "u-1", Role: model.RoleAdmin}, users[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	user := &model.User{ID: "missing", UserName: "matti", Email: "matti@example.com", PasswordHash: "h", Role: model.RoleUser}
	mock.ExpectExec("UPDATE users SET").
		WithArgs(user.UserName, user.Email, user.PasswordHash, user.Role, user.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), user)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectExec("DELETE FROM users WHERE id").
		WithArgs("u-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "u-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
