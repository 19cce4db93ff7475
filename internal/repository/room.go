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

type RoomRepository interface {
	Create(ctx context.Context, room *entity.GameRoom) error
	Update(ctx context.Context, room *entity.GameRoom) error

	GetByID(ctx context.Context, id uint) (*entity.GameRoom, error)
	// GetByIDLocked takes a row-level lock on the room. Only meaningful
	// inside Store.WithinTx; at most one writer can move a room out of
	// waiting this way.
	GetByIDLocked(ctx context.Context, id uint) (*entity.GameRoom, error)

	FindActiveByUser(ctx context.Context, userID uint) ([]entity.GameRoom, error)
	FindWaitingOwnedBy(ctx context.Context, userID, gameID uint) ([]entity.GameRoom, error)
	FindAvailableByGame(ctx context.Context, gameID uint) ([]entity.GameRoom, error)
}

type roomRepository struct {
	conn *gorm.DB
}

func NewRoomRepository(conn *gorm.DB) RoomRepository {
	return &roomRepository{conn: conn}
}

func (that *roomRepository) Create(ctx context.Context, room *entity.GameRoom) error {
	if err := that.conn.WithContext(ctx).Create(room).Error; err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	return nil
}

func (that *roomRepository) Update(ctx context.Context, room *entity.GameRoom) error {
	if err := that.conn.WithContext(ctx).Save(room).Error; err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	return nil
}

func (that *roomRepository) GetByID(ctx context.Context, id uint) (*entity.GameRoom, error) {
	var room entity.GameRoom

	err := that.conn.WithContext(ctx).
		Preload("Game").
		Preload("Player1").
		Preload("Player2").
		First(&room, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	return &room, nil
}

func (that *roomRepository) GetByIDLocked(ctx context.Context, id uint) (*entity.GameRoom, error) {
	var room entity.GameRoom

	err := that.conn.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock room by id: %w", err)
	}

	if err = that.conn.WithContext(ctx).
		Preload("Game").
		Preload("Player1").
		Preload("Player2").
		First(&room, id).Error; err != nil {
		return nil, fmt.Errorf("failed to load locked room: %w", err)
	}

	return &room, nil
}

func (that *roomRepository) FindActiveByUser(ctx context.Context, userID uint) ([]entity.GameRoom, error) {
	var rooms []entity.GameRoom

	err := that.conn.WithContext(ctx).
		Where("(player1_id = ? OR player2_id = ?) AND status IN ?",
			userID, userID, []string{entity.RoomStatusWaiting, entity.RoomStatusPlaying}).
		Order("created_at ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find active rooms: %w", err)
	}

	return rooms, nil
}

func (that *roomRepository) FindWaitingOwnedBy(ctx context.Context, userID, gameID uint) ([]entity.GameRoom, error) {
	var rooms []entity.GameRoom

	err := that.conn.WithContext(ctx).
		Where("player1_id = ? AND game_id = ? AND status = ? AND player2_id IS NULL",
			userID, gameID, entity.RoomStatusWaiting).
		Order("created_at ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find waiting rooms: %w", err)
	}

	return rooms, nil
}

func (that *roomRepository) FindAvailableByGame(ctx context.Context, gameID uint) ([]entity.GameRoom, error) {
	var rooms []entity.GameRoom

	err := that.conn.WithContext(ctx).
		Preload("Player1").
		Where("game_id = ? AND status = ? AND player2_id IS NULL", gameID, entity.RoomStatusWaiting).
		Order("created_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find available rooms: %w", err)
	}

	return rooms, nil
}
