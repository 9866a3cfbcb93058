package authservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jorgebenaventee/taskify/internal/pkg/config"
	"github.com/jorgebenaventee/taskify/internal/pkg/jwtauth"
	"github.com/jorgebenaventee/taskify/internal/taskify/domain/models"
	"github.com/jorgebenaventee/taskify/internal/taskify/repository/userrepo"
	"github.com/jorgebenaventee/taskify/internal/taskify/services/authservice"
	"github.com/stretchr/testify/require"
)

var testCfg = config.Auth{TTL: time.Hour, Secret: "test_secret"}

type fakeUserRepo struct {
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, u models.User) (models.User, error) {
	if _, ok := r.users[u.Username]; ok {
		return models.User{}, userrepo.ErrAlreadyExists
	}

	u.ID = uuid.New()
	r.users[u.Username] = u

	return u, nil
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	u, ok := r.users[username]
	if !ok {
		return models.User{}, userrepo.ErrNotFound
	}

	return u, nil
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := authservice.New(repo, testCfg)
	ctx := context.Background()

	token, err := svc.Register(ctx, authservice.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	id, err := jwtauth.ValidateToken(token, testCfg.Secret)
	require.NoError(t, err)
	require.Equal(t, repo.users["alice"].ID, id)

	token, err = svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	_, err = jwtauth.ValidateToken(token, testCfg.Secret)
	require.NoError(t, err)
}

func TestRegisterValidation(t *testing.T) {
	svc := authservice.New(newFakeUserRepo(), testCfg)
	ctx := context.Background()

	var vErr *models.ValidationError

	_, err := svc.Register(ctx, authservice.RegisterRequest{Username: "al", Password: "secret1"})
	require.ErrorAs(t, err, &vErr)

	_, err = svc.Register(ctx, authservice.RegisterRequest{Username: "alice", Password: "short"})
	require.ErrorAs(t, err, &vErr)
}

func TestRegisterDuplicate(t *testing.T) {
	svc := authservice.New(newFakeUserRepo(), testCfg)
	ctx := context.Background()

	_, err := svc.Register(ctx, authservice.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, authservice.RegisterRequest{Username: "alice", Password: "secret2"})
	require.ErrorIs(t, err, authservice.ErrUserExists)
}

func TestLoginFailures(t *testing.T) {
	repo := newFakeUserRepo()
	svc := authservice.New(repo, testCfg)
	ctx := context.Background()

	_, err := svc.Register(ctx, authservice.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wrong_password")
	require.ErrorIs(t, err, authservice.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "bob", "secret1")
	require.ErrorIs(t, err, authservice.ErrInvalidCredentials)
}
