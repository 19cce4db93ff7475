package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/miniplayinc/miniplay-backend/internal/apperror"
	"github.com/miniplayinc/miniplay-backend/internal/entity"
)

type GameRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.Game, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Game, error)
	ListActive(ctx context.Context) ([]entity.Game, error)
	Create(ctx context.Context, game *entity.Game) error
}

type gameRepository struct {
	conn *gorm.DB
}

func NewGameRepository(conn *gorm.DB) GameRepository {
	return &gameRepository{conn: conn}
}

func (that *gameRepository) GetByID(ctx context.Context, id uint) (*entity.Game, error) {
	var game entity.Game

	err := that.conn.WithContext(ctx).First(&game, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return &game, nil
}

func (that *gameRepository) GetBySlug(ctx context.Context, slug string) (*entity.Game, error) {
	var game entity.Game

	err := that.conn.WithContext(ctx).Where("slug = ?", slug).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by slug: %w", err)
	}

	return &game, nil
}

func (that *gameRepository) ListActive(ctx context.Context) ([]entity.Game, error) {
	var games []entity.Game

	err := that.conn.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return games, nil
}

func (that *gameRepository) Create(ctx context.Context, game *entity.Game) error {
	if err := that.conn.WithContext(ctx).Create(game).Error; err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	return nil
}
