package service

import (
	"context"
	"testing"

	"cat_registry/internal/model"
	"cat_registry/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type fakeUserRepo struct {
	byID map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*model.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	stored := *user
	r.byID[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByUserName(ctx context.Context, userName string) (*model.User, error) {
	for _, user := range r.byID {
		if user.UserName == userName {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range r.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context) ([]model.UserRoleView, error) {
	var out []model.UserRoleView
	for _, user := range r.byID {
		out = append(out, model.UserRoleView{ID: user.ID, Role: user.Role})
	}
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return ErrUserNotFound
	}
	stored := *user
	r.byID[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

// -------------------------
// Helpers
// -------------------------

var testHasher = utils.NewPasswordHasher(4) // min cost keeps tests fast

func newTestUserService(t *testing.T, initialAdminEmail string) (UserService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	return NewUserService(repo, testHasher, initialAdminEmail), repo
}

func registerUser(t *testing.T, svc UserService, userName, email string) *model.UserOutput {
	t.Helper()
	out, err := svc.CreateUser(context.Background(), model.CreateUserRequest{
		UserName: userName,
		Email:    email,
		Password: "secret",
	})
	require.NoError(t, err)
	return out
}

func identFor(out *model.UserOutput, role string) model.Identity {
	return model.Identity{ID: out.ID, UserName: out.UserName, Email: out.Email, Role: role}
}

// -------------------------
// Tests
// -------------------------

func TestCreateUser_HashesPassword(t *testing.T) {
	svc, repo := newTestUserService(t, "")

	out := registerUser(t, svc, "matti", "matti@example.com")

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "matti", out.UserName)
	assert.Equal(t, "matti@example.com", out.Email)

	stored := repo.byID[out.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret", stored.PasswordHash)
	assert.True(t, testHasher.Check("secret", stored.PasswordHash))
	assert.Equal(t, model.RoleUser, stored.Role)
}

func TestCreateUser_DuplicateUserName(t *testing.T) {
	svc, _ := newTestUserService(t, "")
	registerUser(t, svc, "matti", "matti@example.com")

	_, err := svc.CreateUser(context.Background(), model.CreateUserRequest{
		UserName: "matti",
		Email:    "other@example.com",
		Password: "secret",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestCreateUser_InitialAdminEmail(t *testing.T) {
	svc, repo := newTestUserService(t, "boss@example.com")

	out := registerUser(t, svc, "boss", "boss@example.com")
	assert.Equal(t, model.RoleAdmin, repo.byID[out.ID].Role)

	regular := registerUser(t, svc, "matti", "matti@example.com")
	assert.Equal(t, model.RoleUser, repo.byID[regular.ID].Role)
}

func TestGetUserByID_StripsPasswordHash(t *testing.T) {
	svc, _ := newTestUserService(t, "")
	out := registerUser(t, svc, "matti", "matti@example.com")

	user, err := svc.GetUserByID(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, out.ID, user.ID)
	assert.Empty(t, user.PasswordHash)
}

func TestGetUserByID_NotFound(t *testing.T) {
	svc, _ := newTestUserService(t, "")

	_, err := svc.GetUserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsers_EmptyCollection(t *testing.T) {
	svc, _ := newTestUserService(t, "")

	_, err := svc.ListUsers(context.Background())
	assert.ErrorIs(t, err, ErrNoUsersFound)
}

func TestListUsers_RoleProjection(t *testing.T) {
	svc, _ := newTestUserService(t, "boss@example.com")
	registerUser(t, svc, "boss", "boss@example.com")
	registerUser(t, svc, "matti", "matti@example.com")

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	roles := []string{users[0].Role, users[1].Role}
	assert.ElementsMatch(t, []string{model.RoleAdmin, model.RoleUser}, roles)
}

func TestUpdateCurrentUser_RehashesPassword(t *testing.T) {
	svc, repo := newTestUserService(t, "")
	out := registerUser(t, svc, "matti", "matti@example.com")

	newPassword := "newsecret"
	_, err := svc.UpdateCurrentUser(context.Background(), identFor(out, model.RoleUser),
		model.UpdateUserRequest{Password: &newPassword})
	require.NoError(t, err)

	stored := repo.byID[out.ID]
	assert.NotEqual(t, "newsecret", stored.PasswordHash)
	assert.True(t, testHasher.Check("newsecret", stored.PasswordHash))
}

func TestUpdateCurrentUser_RoleEscalationForbidden(t *testing.T) {
	svc, repo := newTestUserService(t, "")
	out := registerUser(t, svc, "matti", "matti@example.com")

	admin := model.RoleAdmin
	_, err := svc.UpdateCurrentUser(context.Background(), identFor(out, model.RoleUser),
		model.UpdateUserRequest{Role: &admin})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, model.RoleUser, repo.byID[out.ID].Role)
}

func TestUpdateCurrentUser_AdminMayChangeRole(t *testing.T) {
	svc, repo := newTestUserService(t, "boss@example.com")
	out := registerUser(t, svc, "boss", "boss@example.com")

	demoted := model.RoleUser
	_, err := svc.UpdateCurrentUser(context.Background(), identFor(out, model.RoleAdmin),
		model.UpdateUserRequest{Role: &demoted})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, repo.byID[out.ID].Role)
}

func TestUpdateCurrentUser_UserNameConflict(t *testing.T) {
	svc, _ := newTestUserService(t, "")
	registerUser(t, svc, "matti", "matti@example.com")
	out := registerUser(t, svc, "teppo", "teppo@example.com")

	taken := "matti"
	_, err := svc.UpdateCurrentUser(context.Background(), identFor(out, model.RoleUser),
		model.UpdateUserRequest{UserName: &taken})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestDeleteCurrentUser_RemovesRecord(t *testing.T) {
	svc, repo := newTestUserService(t, "")
	out := registerUser(t, svc, "matti", "matti@example.com")

	deleted, err := svc.DeleteCurrentUser(context.Background(), identFor(out, model.RoleUser))
	require.NoError(t, err)
	assert.Equal(t, out.ID, deleted.ID)

	assert.NotContains(t, repo.byID, out.ID)
	_, err = svc.GetUserByID(context.Background(), out.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteCurrentUser_NotFound(t *testing.T) {
	svc, _ := newTestUserService(t, "")

	_, err := svc.DeleteCurrentUser(context.Background(), model.Identity{ID: "missing"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
