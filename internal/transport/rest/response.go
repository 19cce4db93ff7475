package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/miniplayinc/miniplay-backend/internal/apperror"
	"github.com/miniplayinc/miniplay-backend/internal/board"
	"github.com/miniplayinc/miniplay-backend/internal/service"
)

// respond writes the platform envelope: {"success": bool, "message": string}
// plus any handler payload keys.
func respond(ctx *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{
		"success": status < http.StatusBadRequest,
		"message": message,
	}
	for key, value := range payload {
		body[key] = value
	}

	ctx.JSON(status, body)
}

func respondOK(ctx *gin.Context, message string, payload gin.H) {
	respond(ctx, http.StatusOK, message, payload)
}

func respondCreated(ctx *gin.Context, message string, payload gin.H) {
	respond(ctx, http.StatusCreated, message, payload)
}

// statusMapping pairs each domain sentinel with its HTTP status. First
// match wins.
var statusMapping = []struct {
	err    error
	status int
}{
	{apperror.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusUnauthorized},
	{apperror.ErrUserBanned, http.StatusForbidden},
	{apperror.ErrPermissionDenied, http.StatusForbidden},
	{apperror.ErrNotFriends, http.StatusForbidden},
	{apperror.ErrNotFound, http.StatusNotFound},
	{apperror.ErrSelfAction, http.StatusBadRequest},
	{board.ErrColumnOutOfRange, http.StatusBadRequest},
	{board.ErrColumnFull, http.StatusBadRequest},
	{board.ErrInvalidBoard, http.StatusBadRequest},
	{apperror.ErrUserExists, http.StatusConflict},
	{apperror.ErrActiveRoomExists, http.StatusConflict},
	{apperror.ErrRoomNotWaiting, http.StatusConflict},
	{apperror.ErrAlreadyCreator, http.StatusConflict},
	{apperror.ErrRoomFull, http.StatusConflict},
	{apperror.ErrRoomNotPlaying, http.StatusConflict},
	{apperror.ErrNotYourTurn, http.StatusConflict},
	{apperror.ErrRoomUnavailable, http.StatusConflict},
	{apperror.ErrInvitationExpired, http.StatusConflict},
	{apperror.ErrInvitationProcessed, http.StatusConflict},
	{apperror.ErrInvitationPending, http.StatusConflict},
	{apperror.ErrAlreadyFriends, http.StatusConflict},
	{apperror.ErrRequestPending, http.StatusConflict},
}

// respondError maps a domain error to the envelope. Unexpected errors are
// logged and answered with a bare 500; internals never leak to the client.
func respondError(ctx *gin.Context, logger *slog.Logger, err error, payload gin.H) {
	for _, mapping := range statusMapping {
		if errors.Is(err, mapping.err) {
			respond(ctx, mapping.status, mapping.err.Error(), payload)
			return
		}
	}

	logger.Error("request failed", "method", ctx.Request.Method, "path", ctx.FullPath(), "error", err)
	respond(ctx, http.StatusInternalServerError, "internal server error", nil)
}

func respondBadRequest(ctx *gin.Context, message string) {
	respond(ctx, http.StatusBadRequest, message, nil)
}
