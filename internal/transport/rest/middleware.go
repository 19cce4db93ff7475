package rest

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/miniplayinc/miniplay-backend/internal/apperror"
	"github.com/miniplayinc/miniplay-backend/internal/service"
)

const userIDKey = "userID"

// RequestLogger logs every request with the structured logger after it
// completes.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		logger.Info("http request",
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", ctx.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Auth validates the bearer token and puts the acting user's id into the
// request context.
func Auth(auth service.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			respond(ctx, http.StatusUnauthorized, "authorization header is required", nil)
			ctx.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			respond(ctx, http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil)
			ctx.Abort()
			return
		}

		userID, err := auth.ParseToken(parts[1])
		if err != nil {
			respond(ctx, http.StatusUnauthorized, service.ErrInvalidToken.Error(), nil)
			ctx.Abort()
			return
		}

		ctx.Set(userIDKey, userID)
		ctx.Next()
	}
}

// BanGuard blocks banned users from every authenticated route. Runs after
// Auth.
func BanGuard(logger *slog.Logger, users service.UserService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := users.GetByID(ctx.Request.Context(), currentUserID(ctx))
		if err != nil {
			respondError(ctx, logger, err, nil)
			ctx.Abort()
			return
		}

		if user.BannedAt(time.Now()) {
			respondError(ctx, logger, apperror.ErrUserBanned, nil)
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}

// currentUserID returns the id Auth placed into the context. Routes behind
// Auth always have it.
func currentUserID(ctx *gin.Context) uint {
	userID, _ := ctx.Get(userIDKey)
	id, _ := userID.(uint)
	return id
}
