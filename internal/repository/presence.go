package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// PresenceRepository tracks who is online. Presence is a heartbeat key with
// a TTL, so a client that stops polling simply falls off.
type PresenceRepository interface {
	Heartbeat(ctx context.Context, userID uint, ttl time.Duration) error
	IsOnline(ctx context.Context, userID uint) (bool, error)
	OnlineAmong(ctx context.Context, userIDs []uint) ([]uint, error)
}

type presenceRepository struct {
	client *redis.Client
}

func NewPresenceRepository(client *redis.Client) PresenceRepository {
	return &presenceRepository{client: client}
}

func presenceKey(userID uint) string {
	return "presence:" + strconv.FormatUint(uint64(userID), 10)
}

func (that *presenceRepository) Heartbeat(ctx context.Context, userID uint, ttl time.Duration) error {
	err := that.client.Set(ctx, presenceKey(userID), time.Now().Unix(), ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set presence: %w", err)
	}

	return nil
}

func (that *presenceRepository) IsOnline(ctx context.Context, userID uint) (bool, error) {
	count, err := that.client.Exists(ctx, presenceKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check presence: %w", err)
	}

	return count > 0, nil
}

func (that *presenceRepository) OnlineAmong(ctx context.Context, userIDs []uint) ([]uint, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	pipe := that.client.Pipeline()

	checks := make([]*redis.IntCmd, len(userIDs))
	for i, userID := range userIDs {
		checks[i] = pipe.Exists(ctx, presenceKey(userID))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to check presence batch: %w", err)
	}

	var online []uint
	for i, check := range checks {
		if check.Val() > 0 {
			online = append(online, userIDs[i])
		}
	}

	return online, nil
}
