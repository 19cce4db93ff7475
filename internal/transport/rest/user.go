package rest

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/miniplayinc/miniplay-backend/internal/service"
)

type UserHandler struct {
	logger *slog.Logger
	users  service.UserService
}

func NewUserHandler(logger *slog.Logger, users service.UserService) *UserHandler {
	return &UserHandler{
		logger: logger.With("handler", "user"),
		users:  users,
	}
}

func (that *UserHandler) Me(ctx *gin.Context) {
	user, err := that.users.GetByID(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondOK(ctx, "profile", gin.H{"user": user})
}

func (that *UserHandler) ByUsername(ctx *gin.Context) {
	user, err := that.users.GetByUsername(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondOK(ctx, "user found", gin.H{"user": user.Summary()})
}
