package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/miniplayinc/miniplay-backend/internal/apperror"
	"github.com/miniplayinc/miniplay-backend/internal/entity"
	"github.com/miniplayinc/miniplay-backend/internal/repository"
)

// InviteResult is the invitation plus the waiting room it is bound to.
// Existing is true when a pending invitation already covered the request
// and no new one was created.
type InviteResult struct {
	Invitation *entity.GameInvitation
	Room       *entity.GameRoom
	Existing   bool
}

type InvitationService interface {
	Invite(ctx context.Context, inviterID, invitedUserID, gameID uint) (*InviteResult, error)
	Accept(ctx context.Context, invitationID, userID uint) (*entity.GameRoom, error)
	Reject(ctx context.Context, invitationID, userID uint) error
	ListPending(ctx context.Context, userID uint) ([]entity.GameInvitation, error)
}

type invitationService struct {
	logger *slog.Logger
	store  Store
	ttl    time.Duration
}

func NewInvitationService(logger *slog.Logger, store Store, ttl time.Duration) InvitationService {
	return &invitationService{
		logger: logger.With("component", "invitation-service"),
		store:  store,
		ttl:    ttl,
	}
}

// Invite offers a friend a seat in a waiting room. Repeating the same
// invite while one is pending returns the existing invitation instead of
// failing or duplicating it.
func (that *invitationService) Invite(ctx context.Context, inviterID, invitedUserID, gameID uint) (*InviteResult, error) {
	if inviterID == invitedUserID {
		return nil, apperror.ErrSelfAction
	}

	repos := that.store.Repos()

	if _, err := repos.Users.GetByID(ctx, invitedUserID); err != nil {
		return nil, fmt.Errorf("failed to get invited user: %w", err)
	}

	friends, err := repos.Friendships.AreFriends(ctx, inviterID, invitedUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	}
	if !friends {
		return nil, apperror.ErrNotFriends
	}

	game, err := repos.Games.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	now := time.Now()

	var result *InviteResult

	// the inviter's user row is locked for the whole check-then-insert,
	// so of two concurrent identical invites exactly one can pass the
	// duplicate check; the other sees the fresh row and returns it
	err = that.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		if _, err := repos.Users.GetByIDLocked(ctx, inviterID); err != nil {
			return fmt.Errorf("failed to lock inviter: %w", err)
		}

		existing, err := repos.Invitations.FindPendingDuplicate(ctx, inviterID, invitedUserID, gameID)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return fmt.Errorf("failed to check pending invitations: %w", err)
		}

		if existing != nil {
			if !existing.ExpiredAt(now) {
				room, roomErr := repos.Rooms.GetByID(ctx, existing.RoomID)
				if roomErr != nil && !errors.Is(roomErr, apperror.ErrNotFound) {
					return fmt.Errorf("failed to get bound room: %w", roomErr)
				}

				result = &InviteResult{Invitation: existing, Room: room, Existing: true}

				return nil
			}

			// lazy expiry: flip the stale invitation before issuing a fresh one
			existing.Status = entity.InvitationStatusExpired
			if err = repos.Invitations.Update(ctx, existing); err != nil {
				return fmt.Errorf("failed to expire invitation: %w", err)
			}
		}

		reverse, err := repos.Invitations.FindPendingDuplicate(ctx, invitedUserID, inviterID, gameID)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return fmt.Errorf("failed to check reverse invitations: %w", err)
		}
		if reverse != nil && !reverse.ExpiredAt(now) {
			// the friend already invited this user for the same game;
			// the open invitation should be answered, not crossed
			return apperror.ErrInvitationPending
		}

		room, err := that.waitingRoomFor(ctx, repos, inviterID, game)
		if err != nil {
			return err
		}

		invitation := &entity.GameInvitation{
			InviterID:     inviterID,
			InvitedUserID: invitedUserID,
			GameID:        gameID,
			Status:        entity.InvitationStatusPending,
			RoomID:        room.ID,
			ExpiresAt:     now.Add(that.ttl),
		}

		if err = repos.Invitations.Create(ctx, invitation); err != nil {
			return fmt.Errorf("failed to create invitation: %w", err)
		}

		result = &InviteResult{Invitation: invitation, Room: room}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.Existing {
		that.logger.Info("invitation created",
			"invitation_id", result.Invitation.ID, "room_id", result.Room.ID, "invited_user_id", invitedUserID)
	}

	return result, nil
}

// waitingRoomFor reuses the inviter's oldest waiting room for the game, or
// opens a new one. Pick-first matches the historical behavior; a user with
// several stale waiting rooms keeps getting the oldest.
func (that *invitationService) waitingRoomFor(ctx context.Context, repos *repository.Repositories, inviterID uint, game *entity.Game) (*entity.GameRoom, error) {
	waiting, err := repos.Rooms.FindWaitingOwnedBy(ctx, inviterID, game.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find waiting rooms: %w", err)
	}

	if len(waiting) > 0 {
		room := waiting[0]
		that.logger.Debug("reusing waiting room", "room_id", room.ID, "inviter_id", inviterID)
		return &room, nil
	}

	room, err := openRoom(ctx, repos, game, inviterID)
	if err != nil {
		return nil, err
	}

	return room, nil
}

// Accept seats the invited user in the bound room. The invitation and room
// rows are locked together, so a join racing this accept cannot double-book
// the room.
func (that *invitationService) Accept(ctx context.Context, invitationID, userID uint) (*entity.GameRoom, error) {
	invitation, err := that.pendingInvitationFor(ctx, invitationID, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	if invitation.ExpiredAt(now) {
		invitation.Status = entity.InvitationStatusExpired
		if err = that.store.Repos().Invitations.Update(ctx, invitation); err != nil {
			return nil, fmt.Errorf("failed to expire invitation: %w", err)
		}

		return nil, apperror.ErrInvitationExpired
	}

	var room *entity.GameRoom

	err = that.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		locked, err := repos.Invitations.GetByIDLocked(ctx, invitationID)
		if err != nil {
			return fmt.Errorf("failed to lock invitation: %w", err)
		}

		// revalidate under the lock; another accept may have won the race
		if !locked.IsPending() {
			return apperror.ErrInvitationProcessed
		}

		boundRoom, err := repos.Rooms.GetByIDLocked(ctx, locked.RoomID)
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.ErrRoomUnavailable
		}
		if err != nil {
			return fmt.Errorf("failed to lock room: %w", err)
		}

		if err = seatAndStart(ctx, repos, boundRoom, userID, now); err != nil {
			if errors.Is(err, apperror.ErrRoomNotWaiting) || errors.Is(err, apperror.ErrRoomFull) {
				return apperror.ErrRoomUnavailable
			}
			return err
		}

		locked.Status = entity.InvitationStatusAccepted
		if err = repos.Invitations.Update(ctx, locked); err != nil {
			return fmt.Errorf("failed to update invitation: %w", err)
		}

		room = boundRoom

		return nil
	})
	if err != nil {
		return nil, err
	}

	return room, nil
}

// Reject declines the invitation. The bound room stays waiting for other
// joiners, so there are no room side effects.
func (that *invitationService) Reject(ctx context.Context, invitationID, userID uint) error {
	invitation, err := that.pendingInvitationFor(ctx, invitationID, userID)
	if err != nil {
		return err
	}

	invitation.Status = entity.InvitationStatusRejected
	if err = that.store.Repos().Invitations.Update(ctx, invitation); err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}

	return nil
}

func (that *invitationService) ListPending(ctx context.Context, userID uint) ([]entity.GameInvitation, error) {
	invitations, err := that.store.Repos().Invitations.FindPendingFor(ctx, userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list pending invitations: %w", err)
	}

	return invitations, nil
}

// pendingInvitationFor loads an invitation addressed to the given user.
// Only the recipient may act on an invitation.
func (that *invitationService) pendingInvitationFor(ctx context.Context, invitationID, userID uint) (*entity.GameInvitation, error) {
	invitation, err := that.store.Repos().Invitations.GetByID(ctx, invitationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}

	if invitation.InvitedUserID != userID {
		return nil, apperror.ErrPermissionDenied
	}

	if !invitation.IsPending() {
		return nil, apperror.ErrInvitationProcessed
	}

	return invitation, nil
}
