package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/miniplayinc/miniplay-backend/internal/repository"
)

// Store is the persistence surface the services run against. The repository
// package implements it; tests substitute an in-memory fake.
type Store interface {
	Repos() *repository.Repositories
	// WithinTx runs fn against transaction-bound repositories. Row locks
	// taken inside are held until fn returns, which is what keeps a
	// concurrent double-join from seating two second players.
	WithinTx(ctx context.Context, fn func(repos *repository.Repositories) error) error
}

type Config struct {
	JWTSecretKey  string
	InvitationTTL time.Duration
	PresenceTTL   time.Duration
}

type Services struct {
	Auth        AuthService
	Users       UserService
	Games       GameService
	Rooms       RoomService
	Invitations InvitationService
	Friendships FriendshipService
	Scores      ScoreService
	Presence    PresenceService
}

func NewServices(logger *slog.Logger, store Store, presenceRepo repository.PresenceRepository, cfg Config) *Services {
	authService := NewAuthService(cfg.JWTSecretKey)
	userService := NewUserService(store, authService)
	scoreService := NewScoreService(logger, store)
	roomService := NewRoomService(logger, store, scoreService)
	invitationService := NewInvitationService(logger, store, cfg.InvitationTTL)
	friendshipService := NewFriendshipService(store)
	presenceService := NewPresenceService(logger, presenceRepo, store, cfg.PresenceTTL)

	return &Services{
		Auth:        authService,
		Users:       userService,
		Games:       NewGameService(store),
		Rooms:       roomService,
		Invitations: invitationService,
		Friendships: friendshipService,
		Scores:      scoreService,
		Presence:    presenceService,
	}
}
