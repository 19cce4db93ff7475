package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/miniplayinc/miniplay-backend/internal/repository"
)

type PresenceService interface {
	Heartbeat(ctx context.Context, userID uint) error
	OnlineFriends(ctx context.Context, userID uint) ([]Friend, error)
}

type presenceService struct {
	logger   *slog.Logger
	presence repository.PresenceRepository
	store    Store
	ttl      time.Duration
}

func NewPresenceService(logger *slog.Logger, presence repository.PresenceRepository, store Store, ttl time.Duration) PresenceService {
	return &presenceService{
		logger:   logger.With("component", "presence-service"),
		presence: presence,
		store:    store,
		ttl:      ttl,
	}
}

func (that *presenceService) Heartbeat(ctx context.Context, userID uint) error {
	if err := that.presence.Heartbeat(ctx, userID, that.ttl); err != nil {
		return fmt.Errorf("failed to record heartbeat: %w", err)
	}

	return nil
}

// OnlineFriends filters the user's friends down to those with a live
// heartbeat.
func (that *presenceService) OnlineFriends(ctx context.Context, userID uint) ([]Friend, error) {
	friendships, err := that.store.Repos().Friendships.ListAcceptedFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friendships: %w", err)
	}

	byID := make(map[uint]Friend, len(friendships))
	ids := make([]uint, 0, len(friendships))
	for i := range friendships {
		other := friendships[i].OtherUser(userID)
		if other == nil {
			continue
		}

		byID[other.ID] = Friend{FriendshipID: friendships[i].ID, User: other.Summary()}
		ids = append(ids, other.ID)
	}

	online, err := that.presence.OnlineAmong(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check presence: %w", err)
	}

	result := make([]Friend, 0, len(online))
	for _, id := range online {
		result = append(result, byID[id])
	}

	return result, nil
}
