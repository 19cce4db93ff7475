package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/miniplayinc/miniplay-backend/internal/apperror"
	"github.com/miniplayinc/miniplay-backend/internal/entity"
)

type FriendshipRepository interface {
	Create(ctx context.Context, friendship *entity.Friendship) error
	Update(ctx context.Context, friendship *entity.Friendship) error
	Delete(ctx context.Context, id uint) error

	GetByID(ctx context.Context, id uint) (*entity.Friendship, error)
	FindBetween(ctx context.Context, userAID, userBID uint) (*entity.Friendship, error)
	AreFriends(ctx context.Context, userAID, userBID uint) (bool, error)

	ListAcceptedFor(ctx context.Context, userID uint) ([]entity.Friendship, error)
	ListPendingFor(ctx context.Context, userID uint) ([]entity.Friendship, error)
}

type friendshipRepository struct {
	conn *gorm.DB
}

func NewFriendshipRepository(conn *gorm.DB) FriendshipRepository {
	return &friendshipRepository{conn: conn}
}

func (that *friendshipRepository) Create(ctx context.Context, friendship *entity.Friendship) error {
	if err := that.conn.WithContext(ctx).Create(friendship).Error; err != nil {
		return fmt.Errorf("failed to create friendship: %w", err)
	}

	return nil
}

func (that *friendshipRepository) Update(ctx context.Context, friendship *entity.Friendship) error {
	if err := that.conn.WithContext(ctx).Save(friendship).Error; err != nil {
		return fmt.Errorf("failed to update friendship: %w", err)
	}

	return nil
}

func (that *friendshipRepository) Delete(ctx context.Context, id uint) error {
	if err := that.conn.WithContext(ctx).Delete(&entity.Friendship{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}

	return nil
}

func (that *friendshipRepository) GetByID(ctx context.Context, id uint) (*entity.Friendship, error) {
	var friendship entity.Friendship

	err := that.conn.WithContext(ctx).
		Preload("User1").
		Preload("User2").
		First(&friendship, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friendship by id: %w", err)
	}

	return &friendship, nil
}

func (that *friendshipRepository) FindBetween(ctx context.Context, userAID, userBID uint) (*entity.Friendship, error) {
	var friendship entity.Friendship

	err := that.conn.WithContext(ctx).
		Where("(user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)",
			userAID, userBID, userBID, userAID).
		First(&friendship).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find friendship: %w", err)
	}

	return &friendship, nil
}

func (that *friendshipRepository) AreFriends(ctx context.Context, userAID, userBID uint) (bool, error) {
	friendship, err := that.FindBetween(ctx, userAID, userBID)
	if errors.Is(err, apperror.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return friendship.IsAccepted(), nil
}

func (that *friendshipRepository) ListAcceptedFor(ctx context.Context, userID uint) ([]entity.Friendship, error) {
	var friendships []entity.Friendship

	err := that.conn.WithContext(ctx).
		Preload("User1").
		Preload("User2").
		Where("(user1_id = ? OR user2_id = ?) AND status = ?",
			userID, userID, entity.FriendshipStatusAccepted).
		Find(&friendships).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list friendships: %w", err)
	}

	return friendships, nil
}

func (that *friendshipRepository) ListPendingFor(ctx context.Context, userID uint) ([]entity.Friendship, error) {
	var friendships []entity.Friendship

	err := that.conn.WithContext(ctx).
		Preload("User1").
		Preload("User2").
		Where("(user1_id = ? OR user2_id = ?) AND status = ? AND requested_by <> ?",
			userID, userID, entity.FriendshipStatusPending, userID).
		Order("created_at DESC").
		Find(&friendships).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending friend requests: %w", err)
	}

	return friendships, nil
}
