package rest

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/miniplayinc/miniplay-backend/internal/service"
)

type AuthHandler struct {
	logger *slog.Logger
	users  service.UserService
}

func NewAuthHandler(logger *slog.Logger, users service.UserService) *AuthHandler {
	return &AuthHandler{
		logger: logger.With("handler", "auth"),
		users:  users,
	}
}

func (that *AuthHandler) Register(ctx *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required,min=3,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBadRequest(ctx, "invalid registration payload")
		return
	}

	user, err := that.users.Register(ctx.Request.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondCreated(ctx, "user registered", gin.H{"user": user.Summary()})
}

func (that *AuthHandler) Login(ctx *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBadRequest(ctx, "invalid login payload")
		return
	}

	token, user, err := that.users.Login(ctx.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondOK(ctx, "login successful", gin.H{
		"token": token,
		"user":  user.Summary(),
	})
}
