package authservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/jorgebenaventee/taskify/internal/pkg/config"
	"github.com/jorgebenaventee/taskify/internal/pkg/jwtauth"
	"github.com/jorgebenaventee/taskify/internal/taskify/domain/models"
	"github.com/jorgebenaventee/taskify/internal/taskify/repository/userrepo"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers both the unknown username and the bad
	// password so login failures do not reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = errors.New("username already taken")
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

type Repository interface {
	CreateUser(context.Context, models.User) (models.User, error)
	GetUserByUsername(context.Context, string) (models.User, error)
}

type AuthService struct {
	userRepo Repository
	cfg      config.Auth
}

func New(userRepo Repository, cfg config.Auth) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (as *AuthService) Register(ctx context.Context, req RegisterRequest) (string, error) {
	if len(req.Username) < minUsernameLen {
		return "", models.Invalidf("username must be at least %d characters", minUsernameLen)
	}

	if len(req.Password) < minPasswordLen {
		return "", models.Invalidf("password must be at least %d characters", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("generate from password error: %w", err)
	}

	u := models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
	}

	u, err = as.userRepo.CreateUser(ctx, u)
	if err != nil {
		if errors.Is(err, userrepo.ErrAlreadyExists) {
			return "", ErrUserExists
		}

		return "", fmt.Errorf("create user error: %w", err)
	}

	token, err := jwtauth.GetToken(u, as.cfg.TTL, as.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("can't get token error: %w", err)
	}

	return token, nil
}

func (as *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := as.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", fmt.Errorf("get user error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := jwtauth.GetToken(u, as.cfg.TTL, as.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("can't get token error: %w", err)
	}

	return token, nil
}
