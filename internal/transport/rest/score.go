package rest

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/miniplayinc/miniplay-backend/internal/service"
)

type ScoreHandler struct {
	logger *slog.Logger
	scores service.ScoreService
}

func NewScoreHandler(logger *slog.Logger, scores service.ScoreService) *ScoreHandler {
	return &ScoreHandler{
		logger: logger.With("handler", "score"),
		scores: scores,
	}
}

func (that *ScoreHandler) Submit(ctx *gin.Context) {
	gameID, ok := uintParam(ctx, "gameID")
	if !ok {
		return
	}

	var input struct {
		Score *int `json:"score" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBadRequest(ctx, "invalid score payload")
		return
	}

	entry, err := that.scores.SubmitScore(ctx.Request.Context(), currentUserID(ctx), gameID, *input.Score)
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondCreated(ctx, "score submitted", gin.H{"score": entry})
}

func (that *ScoreHandler) Top(ctx *gin.Context) {
	gameID, ok := uintParam(ctx, "gameID")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))

	top, err := that.scores.TopScores(ctx.Request.Context(), gameID, limit)
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondOK(ctx, "top scores", gin.H{"scores": top})
}

func (that *ScoreHandler) Stats(ctx *gin.Context) {
	gameID, ok := uintParam(ctx, "gameID")
	if !ok {
		return
	}

	stats, err := that.scores.UserStats(ctx.Request.Context(), currentUserID(ctx), gameID)
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondOK(ctx, "stats", gin.H{"stats": stats})
}
