package rest

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/miniplayinc/miniplay-backend/internal/service"
)

type PresenceHandler struct {
	logger   *slog.Logger
	presence service.PresenceService
}

func NewPresenceHandler(logger *slog.Logger, presence service.PresenceService) *PresenceHandler {
	return &PresenceHandler{
		logger:   logger.With("handler", "presence"),
		presence: presence,
	}
}

func (that *PresenceHandler) Heartbeat(ctx *gin.Context) {
	if err := that.presence.Heartbeat(ctx.Request.Context(), currentUserID(ctx)); err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondOK(ctx, "heartbeat recorded", nil)
}

func (that *PresenceHandler) OnlineFriends(ctx *gin.Context) {
	online, err := that.presence.OnlineFriends(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondOK(ctx, "online friends", gin.H{"friends": online})
}
