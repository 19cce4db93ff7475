package service

import (
	"context"
	"fmt"

	"github.com/miniplayinc/miniplay-backend/internal/entity"
)

type GameService interface {
	List(ctx context.Context) ([]entity.Game, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Game, error)
}

type gameService struct {
	store Store
}

func NewGameService(store Store) GameService {
	return &gameService{store: store}
}

func (that *gameService) List(ctx context.Context) ([]entity.Game, error) {
	games, err := that.store.Repos().Games.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return games, nil
}

func (that *gameService) GetBySlug(ctx context.Context, slug string) (*entity.Game, error) {
	game, err := that.store.Repos().Games.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}
