package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/miniplayinc/miniplay-backend/internal/entity"
)

type ScoreRepository interface {
	CreateScore(ctx context.Context, score *entity.UserScore) error
	TopByGame(ctx context.Context, gameID uint, limit int) ([]entity.UserScore, error)
	BestForUser(ctx context.Context, userID, gameID uint) (*entity.UserScore, error)

	GetStat(ctx context.Context, userID, gameID uint) (*entity.UserGameStat, error)
	SaveStat(ctx context.Context, stat *entity.UserGameStat) error
}

type scoreRepository struct {
	conn *gorm.DB
}

func NewScoreRepository(conn *gorm.DB) ScoreRepository {
	return &scoreRepository{conn: conn}
}

func (that *scoreRepository) CreateScore(ctx context.Context, score *entity.UserScore) error {
	if err := that.conn.WithContext(ctx).Create(score).Error; err != nil {
		return fmt.Errorf("failed to create score: %w", err)
	}

	return nil
}

func (that *scoreRepository) TopByGame(ctx context.Context, gameID uint, limit int) ([]entity.UserScore, error) {
	var scores []entity.UserScore

	err := that.conn.WithContext(ctx).
		Preload("User").
		Where("game_id = ?", gameID).
		Order("score DESC").
		Limit(limit).
		Find(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top scores: %w", err)
	}

	return scores, nil
}

func (that *scoreRepository) BestForUser(ctx context.Context, userID, gameID uint) (*entity.UserScore, error) {
	var score entity.UserScore

	err := that.conn.WithContext(ctx).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Order("score DESC").
		First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get best score: %w", err)
	}

	return &score, nil
}

func (that *scoreRepository) GetStat(ctx context.Context, userID, gameID uint) (*entity.UserGameStat, error) {
	var stat entity.UserGameStat

	err := that.conn.WithContext(ctx).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		First(&stat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entity.UserGameStat{UserID: userID, GameID: gameID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game stat: %w", err)
	}

	return &stat, nil
}

func (that *scoreRepository) SaveStat(ctx context.Context, stat *entity.UserGameStat) error {
	if err := that.conn.WithContext(ctx).Save(stat).Error; err != nil {
		return fmt.Errorf("failed to save game stat: %w", err)
	}

	return nil
}
