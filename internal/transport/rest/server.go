package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/miniplayinc/miniplay-backend/internal/service"
)

// Server is the HTTP boundary of the platform.
type Server struct {
	logger *slog.Logger
	srv    *http.Server
}

func New(logger *slog.Logger, services *service.Services, port string) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(RequestLogger(logger), gin.Recovery())

	registerRoutes(engine, logger, services)

	return &Server{
		logger: logger.With("component", "http-server"),
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      engine,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
	}
}

// Start serves until the context is canceled, then drains in-flight
// requests.
func (that *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := that.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	that.logger.Info("server stopped")

	return nil
}

func registerRoutes(engine *gin.Engine, logger *slog.Logger, services *service.Services) {
	authHandler := NewAuthHandler(logger, services.Users)
	userHandler := NewUserHandler(logger, services.Users)
	gameHandler := NewGameHandler(logger, services.Games)
	roomHandler := NewRoomHandler(logger, services.Rooms)
	invitationHandler := NewInvitationHandler(logger, services.Invitations)
	friendshipHandler := NewFriendshipHandler(logger, services.Friendships)
	scoreHandler := NewScoreHandler(logger, services.Scores)
	presenceHandler := NewPresenceHandler(logger, services.Presence)

	engine.GET("/ping", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "pong")
	})

	engine.NoRoute(func(ctx *gin.Context) {
		respond(ctx, http.StatusNotFound, "route not found", nil)
	})

	api := engine.Group("/api")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/games", gameHandler.List)

	authorized := api.Group("/")
	authorized.Use(Auth(services.Auth), BanGuard(logger, services.Users))
	{
		authorized.GET("/users/me", userHandler.Me)
		authorized.GET("/users/:username", userHandler.ByUsername)

		authorized.POST("/rooms/create/:gameID", roomHandler.Create)
		authorized.GET("/rooms/available/:gameID", roomHandler.Available)
		authorized.GET("/rooms/:roomID", roomHandler.Get)
		authorized.POST("/rooms/:roomID/join", roomHandler.Join)
		authorized.POST("/rooms/:roomID/move", roomHandler.Move)

		authorized.GET("/invitations", invitationHandler.ListPending)
		authorized.POST("/invitations", invitationHandler.Invite)
		authorized.POST("/invitations/:invitationID/accept", invitationHandler.Accept)
		authorized.POST("/invitations/:invitationID/reject", invitationHandler.Reject)

		authorized.GET("/friends", friendshipHandler.ListFriends)
		authorized.GET("/friends/requests", friendshipHandler.ListRequests)
		authorized.POST("/friends/request/:userID", friendshipHandler.Request)
		authorized.POST("/friends/:friendshipID/accept", friendshipHandler.Accept)
		authorized.POST("/friends/:friendshipID/reject", friendshipHandler.Reject)
		authorized.DELETE("/friends/:friendshipID", friendshipHandler.Remove)

		authorized.POST("/scores/:gameID", scoreHandler.Submit)
		authorized.GET("/scores/:gameID/top", scoreHandler.Top)
		authorized.GET("/scores/:gameID/stats", scoreHandler.Stats)

		authorized.POST("/presence/heartbeat", presenceHandler.Heartbeat)
		authorized.GET("/presence/online", presenceHandler.OnlineFriends)
	}
}
