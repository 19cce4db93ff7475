package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/miniplayinc/miniplay-backend/internal/entity"
)

const defaultTopLimit = 10

type ScoreService interface {
	SubmitScore(ctx context.Context, userID, gameID uint, score int) (*entity.UserScore, error)
	TopScores(ctx context.Context, gameID uint, limit int) ([]entity.UserScore, error)
	UserStats(ctx context.Context, userID, gameID uint) (*entity.UserGameStat, error)

	// RecordMatchResult folds a finished room into both players' stats.
	RecordMatchResult(ctx context.Context, room *entity.GameRoom) error
}

type scoreService struct {
	logger *slog.Logger
	store  Store
}

func NewScoreService(logger *slog.Logger, store Store) ScoreService {
	return &scoreService{
		logger: logger.With("component", "score-service"),
		store:  store,
	}
}

func (that *scoreService) SubmitScore(ctx context.Context, userID, gameID uint, score int) (*entity.UserScore, error) {
	repos := that.store.Repos()

	if _, err := repos.Games.GetByID(ctx, gameID); err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	entry := &entity.UserScore{
		UserID: userID,
		GameID: gameID,
		Score:  score,
	}

	if err := repos.Scores.CreateScore(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to submit score: %w", err)
	}

	return entry, nil
}

func (that *scoreService) TopScores(ctx context.Context, gameID uint, limit int) ([]entity.UserScore, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}

	scores, err := that.store.Repos().Scores.TopByGame(ctx, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top scores: %w", err)
	}

	return scores, nil
}

func (that *scoreService) UserStats(ctx context.Context, userID, gameID uint) (*entity.UserGameStat, error) {
	stat, err := that.store.Repos().Scores.GetStat(ctx, userID, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return stat, nil
}

func (that *scoreService) RecordMatchResult(ctx context.Context, room *entity.GameRoom) error {
	if !room.IsFinished() || room.WinnerID == nil || room.Player2ID == nil {
		return nil
	}

	now := time.Now()
	winnerID := *room.WinnerID

	for _, playerID := range []uint{room.Player1ID, *room.Player2ID} {
		stat, err := that.store.Repos().Scores.GetStat(ctx, playerID, room.GameID)
		if err != nil {
			return fmt.Errorf("failed to get stat: %w", err)
		}

		switch {
		case winnerID == entity.DrawWinnerID:
			stat.Draws++
		case winnerID == playerID:
			stat.Wins++
		default:
			stat.Losses++
		}
		stat.LastPlayedAt = &now

		if err = that.store.Repos().Scores.SaveStat(ctx, stat); err != nil {
			return fmt.Errorf("failed to save stat: %w", err)
		}
	}

	return nil
}
