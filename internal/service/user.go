package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/miniplayinc/miniplay-backend/internal/apperror"
	"github.com/miniplayinc/miniplay-backend/internal/entity"
)

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*entity.User, error)
	Login(ctx context.Context, username, password string) (string, *entity.User, error)

	GetByID(ctx context.Context, id uint) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}

type userService struct {
	store Store
	auth  AuthService
}

func NewUserService(store Store, auth AuthService) UserService {
	return &userService{
		store: store,
		auth:  auth,
	}
}

func (that *userService) Register(ctx context.Context, username, email, password string) (*entity.User, error) {
	repos := that.store.Repos()

	if _, err := repos.Users.GetByUsername(ctx, username); err == nil {
		return nil, apperror.ErrUserExists
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := repos.Users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.ErrUserExists
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}

	if err = repos.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (that *userService) Login(ctx context.Context, username, password string) (string, *entity.User, error) {
	user, err := that.store.Repos().Users.GetByUsername(ctx, username)
	if errors.Is(err, apperror.ErrNotFound) {
		return "", nil, apperror.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, apperror.ErrInvalidCredentials
	}

	token, err := that.auth.GenerateToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, user, nil
}

func (that *userService) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	user, err := that.store.Repos().Users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (that *userService) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := that.store.Repos().Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}
