package service

import (
	"context"
	"testing"

	"github.com/pavel-2009/ai-task-assistant/internal/auth"
	dom "github.com/pavel-2009/ai-task-assistant/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo keeps users in a map and mimics Postgres error behavior.
type fakeUserRepo struct {
	users  map[string]dom.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]dom.User{}, nextID: 1}
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	u, ok := f.users[username]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (f *fakeUserRepo) Create(ctx context.Context, username, passwordHash string) (dom.User, error) {
	if _, ok := f.users[username]; ok {
		return dom.User{}, &pgconn.PgError{Code: "23505"}
	}
	u := dom.User{ID: f.nextID, Username: username, PasswordHash: passwordHash}
	f.nextID++
	f.users[username] = u
	return u, nil
}

func TestUserService_Register(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotContains(t, u.PasswordHash, "secret1", "raw password must never be persisted")
	assert.True(t, auth.CheckPassword("secret1", u.PasswordHash))
}

func TestUserService_Register_DuplicateUsername(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUserService_ValidateCredentials(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	u, err := svc.ValidateCredentials(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	// wrong password and unknown user fail identically
	_, err = svc.ValidateCredentials(ctx, "alice", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.ValidateCredentials(ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.ValidateCredentials(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_GetByID(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
