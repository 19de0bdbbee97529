package employee

import (
	"context"
	"testing"
	"time"

	"github.com/attendly/attendly-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[string]user.User
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Create(_ context.Context, newUser user.User) (user.User, error) {
	f.users[newUser.ID] = newUser
	return newUser, nil
}

func (f *fakeUserRepo) ListByRole(_ context.Context, role user.Role) ([]user.User, error) {
	out := make([]user.User, 0)
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, req user.UpdateUserRequest) error {
	u, ok := f.users[req.ID]
	if !ok {
		return user.ErrUserNotFound
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	f.users[req.ID] = u
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

const testUserID = "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"

func authedCtx(t *testing.T, userID string) context.Context {
	t.Helper()

	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{"user_id": userID})
	require.NoError(t, err)

	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestEmployeeService_Me_ReturnsOwnProfile(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]user.User{
		testUserID: {
			ID:        testUserID,
			Name:      "Alice",
			Email:     "alice@example.com",
			Role:      user.RoleEmployee,
			CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		},
	}}
	svc := NewEmployeeService(nil, repo)

	profile, err := svc.Me(authedCtx(t, testUserID))
	require.NoError(t, err)

	assert.Equal(t, testUserID, profile.ID)
	assert.Equal(t, "Alice", profile.Name)
	assert.Equal(t, "employee", profile.Role)
}

func TestEmployeeService_Me_NoClaims(t *testing.T) {
	svc := NewEmployeeService(nil, &fakeUserRepo{users: map[string]user.User{}})

	_, err := svc.Me(context.Background())
	assert.Error(t, err)
}

func TestEmployeeService_Me_UnknownUser(t *testing.T) {
	svc := NewEmployeeService(nil, &fakeUserRepo{users: map[string]user.User{}})

	_, err := svc.Me(authedCtx(t, testUserID))
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
