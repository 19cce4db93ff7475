package rest

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/miniplayinc/miniplay-backend/internal/service"
)

type GameHandler struct {
	logger *slog.Logger
	games  service.GameService
}

func NewGameHandler(logger *slog.Logger, games service.GameService) *GameHandler {
	return &GameHandler{
		logger: logger.With("handler", "game"),
		games:  games,
	}
}

func (that *GameHandler) List(ctx *gin.Context) {
	games, err := that.games.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondOK(ctx, "games", gin.H{"games": games})
}
