package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/miniplayinc/miniplay-backend/internal/apperror"
	"github.com/miniplayinc/miniplay-backend/internal/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error

	GetByID(ctx context.Context, id uint) (*entity.User, error)
	// GetByIDLocked takes a row-level lock on the user. Only meaningful
	// inside Store.WithinTx; serializes flows that must see a consistent
	// picture of everything the user owns, such as their active rooms.
	GetByIDLocked(ctx context.Context, id uint) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

type userRepository struct {
	conn *gorm.DB
}

func NewUserRepository(conn *gorm.DB) UserRepository {
	return &userRepository{conn: conn}
}

func (that *userRepository) Create(ctx context.Context, user *entity.User) error {
	if err := that.conn.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (that *userRepository) Update(ctx context.Context, user *entity.User) error {
	if err := that.conn.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

func (that *userRepository) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User

	err := that.conn.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &user, nil
}

func (that *userRepository) GetByIDLocked(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User

	err := that.conn.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock user by id: %w", err)
	}

	return &user, nil
}

func (that *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User

	err := that.conn.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &user, nil
}

func (that *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User

	err := that.conn.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}
