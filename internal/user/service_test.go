package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/petcare-clinic/petcare-backend/internal/auth"
)

type fakeRepo struct {
	byID       map[string]*User
	lastLogins map[string]time.Time
	loginErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*User{}, lastLogins: map[string]time.Time{}}
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	u.ID = "u" + string(rune('0'+len(f.byID)+1))
	u.CreatedAt = time.Now()
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateLastLogin(_ context.Context, id string, t time.Time) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.lastLogins[id] = t
	return nil
}

func (f *fakeRepo) List(context.Context, Filter) ([]*User, int, error) {
	out := make([]*User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(_ context.Context, u *User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return ErrNotFound
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func newTestService() (Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, auth.NewBcryptPasswordHasherWithCost(4), zap.NewNop()), repo
}

func TestRegister(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "  Ana@Example.com ", "supersecret", " Ana ")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, "Ana", u.Name())
	assert.True(t, u.IsActive)
	assert.False(t, u.IsStaff, "self-registration never grants staff")
	assert.NotEqual(t, "supersecret", repo.byID[u.ID].PasswordHash)

	_, err = svc.Register(ctx, "ana@example.com", "supersecret", "")
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)

	_, err = svc.Register(ctx, "  ", "supersecret", "")
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = svc.Register(ctx, "bia@example.com", "short", "")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestLogin(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "ana@example.com", "supersecret", "")
	require.NoError(t, err)

	u, err := svc.Login(ctx, "ANA@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	require.NotNil(t, u.LastLoginAt)
	assert.Contains(t, repo.lastLogins, u.ID)

	_, err = svc.Login(ctx, "ana@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "supersecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	repo.byID[registered.ID].IsActive = false
	_, err = svc.Login(ctx, "ana@example.com", "supersecret")
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestLogin_LastLoginFailureIsNotFatal(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "ana@example.com", "supersecret", "")
	require.NoError(t, err)
	repo.loginErr = errors.New("db down")

	u, err := svc.Login(ctx, "ana@example.com", "supersecret")
	require.NoError(t, err)
	assert.Nil(t, u.LastLoginAt)
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "vet@example.com", "supersecret", "Vet")
	require.NoError(t, err)

	staff, name := true, "  Dra. Vet "
	updated, err := svc.Update(ctx, u.ID, UpdateRequest{IsStaff: &staff, DisplayName: &name})
	require.NoError(t, err)
	assert.True(t, updated.IsStaff)
	assert.Equal(t, "Dra. Vet", updated.Name())

	got, err := svc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsStaff)

	_, err = svc.Update(ctx, "missing", UpdateRequest{IsStaff: &staff})
	assert.ErrorIs(t, err, ErrNotFound)
}
