package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"github.com/miniplayinc/miniplay-backend/internal/config"
	"github.com/miniplayinc/miniplay-backend/internal/entity"
	"github.com/miniplayinc/miniplay-backend/internal/repository"
	"github.com/miniplayinc/miniplay-backend/internal/repository/storage"
	"github.com/miniplayinc/miniplay-backend/internal/service"
	"github.com/miniplayinc/miniplay-backend/internal/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	postgresStorage, err := storage.NewPostgresStorage(conf.Postgres.GetDSN())
	if err != nil {
		return fmt.Errorf("could not connect to postgres storage: %w", err)
	}

	defer func() {
		if closeErr := postgresStorage.Close(); closeErr != nil {
			log.Error("could not close postgres storage", "error", closeErr)
		}
	}()

	if err = postgresStorage.AutoMigrate(
		&entity.User{},
		&entity.Game{},
		&entity.GameRoom{},
		&entity.GameInvitation{},
		&entity.Friendship{},
		&entity.UserScore{},
		&entity.UserGameStat{},
	); err != nil {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	if err = seedGames(postgresStorage.Connection); err != nil {
		return fmt.Errorf("could not seed game catalog: %w", err)
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if closeErr := redisStorage.Close(); closeErr != nil {
			log.Error("could not close redis storage", "error", closeErr)
		}
	}()

	store := repository.NewStore(postgresStorage)
	presenceRepo := repository.NewPresenceRepository(redisStorage.Connection)

	services := service.NewServices(logger, store, presenceRepo, service.Config{
		JWTSecretKey:  conf.JWTSecretKey,
		InvitationTTL: conf.InvitationTTL(),
		PresenceTTL:   conf.PresenceTTL(),
	})

	log.Info("Starting HTTP server", "port", conf.HTTPPort)

	server := rest.New(logger, services, conf.HTTPPort)
	if err = server.Start(ctx); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	return nil
}

// seedGames makes sure the built-in catalog entries exist. Idempotent by
// slug.
func seedGames(conn *gorm.DB) error {
	connectFour := entity.Game{
		Name:       "Connect Four",
		Slug:       "connect-four",
		Rows:       6,
		Cols:       7,
		ConnectLen: 4,
		IsActive:   true,
	}

	return conn.Where(entity.Game{Slug: connectFour.Slug}).FirstOrCreate(&connectFour).Error
}
