package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/miniplayinc/miniplay-backend/internal/apperror"
	"github.com/miniplayinc/miniplay-backend/internal/entity"
)

// Friend is one accepted friendship resolved to the other participant.
type Friend struct {
	FriendshipID uint               `json:"friendship_id"`
	User         entity.UserSummary `json:"user"`
}

type FriendshipService interface {
	Request(ctx context.Context, requesterID, targetID uint) (*entity.Friendship, error)
	Accept(ctx context.Context, friendshipID, userID uint) (*entity.Friendship, error)
	Reject(ctx context.Context, friendshipID, userID uint) error
	Remove(ctx context.Context, friendshipID, userID uint) error

	ListFriends(ctx context.Context, userID uint) ([]Friend, error)
	ListPendingRequests(ctx context.Context, userID uint) ([]entity.Friendship, error)
	AreFriends(ctx context.Context, userAID, userBID uint) (bool, error)
}

type friendshipService struct {
	store Store
}

func NewFriendshipService(store Store) FriendshipService {
	return &friendshipService{store: store}
}

func (that *friendshipService) Request(ctx context.Context, requesterID, targetID uint) (*entity.Friendship, error) {
	if requesterID == targetID {
		return nil, apperror.ErrSelfAction
	}

	repos := that.store.Repos()

	if _, err := repos.Users.GetByID(ctx, targetID); err != nil {
		return nil, fmt.Errorf("failed to get target user: %w", err)
	}

	existing, err := repos.Friendships.FindBetween(ctx, requesterID, targetID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	}

	if existing != nil {
		switch existing.Status {
		case entity.FriendshipStatusAccepted:
			return nil, apperror.ErrAlreadyFriends
		case entity.FriendshipStatusPending:
			return nil, apperror.ErrRequestPending
		default:
			return nil, apperror.ErrPermissionDenied
		}
	}

	friendship := &entity.Friendship{
		User1ID:     requesterID,
		User2ID:     targetID,
		Status:      entity.FriendshipStatusPending,
		RequestedBy: requesterID,
	}

	if err = repos.Friendships.Create(ctx, friendship); err != nil {
		return nil, fmt.Errorf("failed to create friendship: %w", err)
	}

	return friendship, nil
}

func (that *friendshipService) Accept(ctx context.Context, friendshipID, userID uint) (*entity.Friendship, error) {
	friendship, err := that.pendingRequestFor(ctx, friendshipID, userID)
	if err != nil {
		return nil, err
	}

	friendship.Status = entity.FriendshipStatusAccepted
	if err = that.store.Repos().Friendships.Update(ctx, friendship); err != nil {
		return nil, fmt.Errorf("failed to update friendship: %w", err)
	}

	return friendship, nil
}

func (that *friendshipService) Reject(ctx context.Context, friendshipID, userID uint) error {
	friendship, err := that.pendingRequestFor(ctx, friendshipID, userID)
	if err != nil {
		return err
	}

	if err = that.store.Repos().Friendships.Delete(ctx, friendship.ID); err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}

	return nil
}

func (that *friendshipService) Remove(ctx context.Context, friendshipID, userID uint) error {
	repos := that.store.Repos()

	friendship, err := repos.Friendships.GetByID(ctx, friendshipID)
	if err != nil {
		return fmt.Errorf("failed to get friendship: %w", err)
	}

	if !friendship.Involves(userID) {
		return apperror.ErrNotFound
	}

	if err = repos.Friendships.Delete(ctx, friendship.ID); err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}

	return nil
}

func (that *friendshipService) ListFriends(ctx context.Context, userID uint) ([]Friend, error) {
	friendships, err := that.store.Repos().Friendships.ListAcceptedFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friendships: %w", err)
	}

	friends := make([]Friend, 0, len(friendships))
	for i := range friendships {
		other := friendships[i].OtherUser(userID)
		if other == nil {
			continue
		}

		friends = append(friends, Friend{
			FriendshipID: friendships[i].ID,
			User:         other.Summary(),
		})
	}

	return friends, nil
}

func (that *friendshipService) ListPendingRequests(ctx context.Context, userID uint) ([]entity.Friendship, error) {
	requests, err := that.store.Repos().Friendships.ListPendingFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}

	return requests, nil
}

func (that *friendshipService) AreFriends(ctx context.Context, userAID, userBID uint) (bool, error) {
	friends, err := that.store.Repos().Friendships.AreFriends(ctx, userAID, userBID)
	if err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}

	return friends, nil
}

func (that *friendshipService) pendingRequestFor(ctx context.Context, friendshipID, userID uint) (*entity.Friendship, error) {
	friendship, err := that.store.Repos().Friendships.GetByID(ctx, friendshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}

	// only the addressee of a pending request may act on it
	if !friendship.IsPending() || friendship.Addressee() != userID {
		return nil, apperror.ErrNotFound
	}

	return friendship, nil
}
