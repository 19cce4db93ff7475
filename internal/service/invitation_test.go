package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miniplayinc/miniplay-backend/internal/apperror"
	"github.com/miniplayinc/miniplay-backend/internal/entity"
)

func newInvitationServiceForTest(store *fakeStore, ttl time.Duration) (InvitationService, RoomService) {
	logger := testLogger()
	rooms := NewRoomService(logger, store, NewScoreService(logger, store))
	return NewInvitationService(logger, store, ttl), rooms
}

// expireInvitation backdates the stored expiry so the next read sees the
// invitation as past its window.
func expireInvitation(store *fakeStore, invitationID uint) {
	store.invitations.mu.Lock()
	defer store.invitations.mu.Unlock()

	invitation := store.invitations.invitations[invitationID]
	invitation.ExpiresAt = time.Now().Add(-time.Minute)
	store.invitations.invitations[invitationID] = invitation
}

func TestInvitationService_Invite(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates an invitation bound to a fresh waiting room", func(t *testing.T) {
		// Given: Two friends and an active game
		store := newFakeStore()
		game := store.addGame(6, 7, 4)
		inviter := store.addUser("alice")
		invited := store.addUser("bob")
		store.makeFriends(inviter.ID, invited.ID)
		invitations, _ := newInvitationServiceForTest(store, 30*time.Minute)

		// When: One invites the other
		result, err := invitations.Invite(ctx, inviter.ID, invited.ID, game.ID)

		// Then: A pending invitation and a waiting room owned by the inviter exist
		require.NoError(t, err)
		assert.False(t, result.Existing)
		assert.Equal(t, entity.InvitationStatusPending, result.Invitation.Status)
		assert.Equal(t, invited.ID, result.Invitation.InvitedUserID)
		require.NotNil(t, result.Room)
		assert.Equal(t, result.Room.ID, result.Invitation.RoomID)
		assert.Equal(t, inviter.ID, result.Room.Player1ID)
		assert.Equal(t, entity.RoomStatusWaiting, result.Room.Status)
		assert.WithinDuration(t, time.Now().Add(30*time.Minute), result.Invitation.ExpiresAt, 5*time.Second)
	})

	t.Run("Rejects inviting yourself", func(t *testing.T) {
		store := newFakeStore()
		game := store.addGame(6, 7, 4)
		inviter := store.addUser("alice")
		invitations, _ := newInvitationServiceForTest(store, 30*time.Minute)

		_, err := invitations.Invite(ctx, inviter.ID, inviter.ID, game.ID)

		require.ErrorIs(t, err, apperror.ErrSelfAction)
	})

	t.Run("Rejects inviting a user who is not a friend", func(t *testing.T) {
		store := newFakeStore()
		game := store.addGame(6, 7, 4)
		inviter := store.addUser("alice")
		stranger := store.addUser("mallory")
		invitations, _ := newInvitationServiceForTest(store, 30*time.Minute)

		_, err := invitations.Invite(ctx, inviter.ID, stranger.ID, game.ID)

		require.ErrorIs(t, err, apperror.ErrNotFriends)
	})

	t.Run("Repeating a pending invite returns the existing one", func(t *testing.T) {
		// Given: A pending invitation between two friends
		store := newFakeStore()
		game := store.addGame(6, 7, 4)
		inviter := store.addUser("alice")
		invited := store.addUser("bob")
		store.makeFriends(inviter.ID, invited.ID)
		invitations, _ := newInvitationServiceForTest(store, 30*time.Minute)

		first, err := invitations.Invite(ctx, inviter.ID, invited.ID, game.ID)
		require.NoError(t, err)

		// When: The same invite is sent again
		second, err := invitations.Invite(ctx, inviter.ID, invited.ID, game.ID)

		// Then: No duplicate is created, the pending one comes back
		require.NoError(t, err)
		assert.True(t, second.Existing)
		assert.Equal(t, first.Invitation.ID, second.Invitation.ID)
		assert.Equal(t, 1, store.rooms.count())
	})

	t.Run("Exactly one of two concurrent identical invites creates a row", func(t *testing.T) {
		// Given: Two friends and the same invite fired twice at once
		store := newFakeStore()
		game := store.addGame(6, 7, 4)
		inviter := store.addUser("alice")
		invited := store.addUser("bob")
		store.makeFriends(inviter.ID, invited.ID)
		invitations, _ := newInvitationServiceForTest(store, 30*time.Minute)

		// When: Both run concurrently
		results := make([]*InviteResult, 2)
		errs := make([]error, 2)
		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = invitations.Invite(ctx, inviter.ID, invited.ID, game.ID)
			}(i)
		}
		wg.Wait()

		// Then: Both succeed against the same single pending invitation
		fresh := 0
		for i := range results {
			require.NoError(t, errs[i])
			if !results[i].Existing {
				fresh++
			}
		}
		assert.Equal(t, 1, fresh)
		assert.Equal(t, results[0].Invitation.ID, results[1].Invitation.ID)
		assert.Equal(t, 1, store.rooms.count())
	})

	t.Run("Rejects crossing an invite the friend already sent", func(t *testing.T) {
		// Given: Bob already holds a pending invitation from Alice
		store := newFakeStore()
		game := store.addGame(6, 7, 4)
		inviter := store.addUser("alice")
		invited := store.addUser("bob")
		store.makeFriends(inviter.ID, invited.ID)
		invitations, _ := newInvitationServiceForTest(store, 30*time.Minute)

		_, err := invitations.Invite(ctx, inviter.ID, invited.ID, game.ID)
		require.NoError(t, err)

		// When: Bob invites Alice back for the same game
		_, err = invitations.Invite(ctx, invited.ID, inviter.ID, game.ID)

		// Then: The open invitation has to be answered instead
		require.ErrorIs(t, err, apperror.ErrInvitationPending)
		assert.Equal(t, 1, store.rooms.count())
	})

	t.Run("Reuses the inviter's oldest waiting room", func(t *testing.T) {
		// Given: An inviter who already opened a waiting room for the game
		store := newFakeStore()
		game := store.addGame(6, 7, 4)
		inviter := store.addUser("alice")
		invited := store.addUser("bob")
		store.makeFriends(inviter.ID, invited.ID)
		invitations, rooms := newInvitationServiceForTest(store, 30*time.Minute)

		room, err := rooms.CreateRoom(ctx, game.ID, inviter.ID)
		require.NoError(t, err)

		// When: They invite a friend
		result, err := invitations.Invite(ctx, inviter.ID, invited.ID, game.ID)

		// Then: The invitation binds to the existing room instead of a new one
		require.NoError(t, err)
		assert.Equal(t, room.ID, result.Invitation.RoomID)
		assert.Equal(t, 1, store.rooms.count())
	})

	t.Run("A stale invite is expired and replaced by a fresh one", func(t *testing.T) {
		// Given: A pending invitation whose window has passed
		store := newFakeStore()
		game := store.addGame(6, 7, 4)
		inviter := store.addUser("alice")
		invited := store.addUser("bob")
		store.makeFriends(inviter.ID, invited.ID)
		invitations, _ := newInvitationServiceForTest(store, 30*time.Minute)

		stale, err := invitations.Invite(ctx, inviter.ID, invited.ID, game.ID)
		require.NoError(t, err)
		expireInvitation(store, stale.Invitation.ID)

		// When: The inviter tries again
		fresh, err := invitations.Invite(ctx, inviter.ID, invited.ID, game.ID)

		// Then: The stale one is flipped to expired and a new one is issued
		require.NoError(t, err)
		assert.False(t, fresh.Existing)
		assert.NotEqual(t, stale.Invitation.ID, fresh.Invitation.ID)

		flipped, err := store.invitations.GetByID(ctx, stale.Invitation.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.InvitationStatusExpired, flipped.Status)
	})
}

func TestInvitationService_Accept(t *testing.T) {
	ctx := context.Background()

	invite := func(t *testing.T, store *fakeStore, invitations InvitationService) (*entity.GameInvitation, uint, uint) {
		t.Helper()

		game := store.addGame(6, 7, 4)
		inviter := store.addUser("alice")
		invited := store.addUser("bob")
		store.makeFriends(inviter.ID, invited.ID)

		result, err := invitations.Invite(ctx, inviter.ID, invited.ID, game.ID)
		require.NoError(t, err)

		return result.Invitation, inviter.ID, invited.ID
	}

	t.Run("Seats the invited user and accepts the invitation", func(t *testing.T) {
		// Given: A pending invitation
		store := newFakeStore()
		invitations, _ := newInvitationServiceForTest(store, 30*time.Minute)
		invitation, inviterID, invitedID := invite(t, store, invitations)

		// When: The recipient accepts
		room, err := invitations.Accept(ctx, invitation.ID, invitedID)

		// Then: The bound room starts with the inviter on turn
		require.NoError(t, err)
		assert.Equal(t, entity.RoomStatusPlaying, room.Status)
		require.NotNil(t, room.Player2ID)
		assert.Equal(t, invitedID, *room.Player2ID)
		require.NotNil(t, room.CurrentTurnID)
		assert.Equal(t, inviterID, *room.CurrentTurnID)

		accepted, err := store.invitations.GetByID(ctx, invitation.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.InvitationStatusAccepted, accepted.Status)
	})

	t.Run("Only the recipient can accept", func(t *testing.T) {
		store := newFakeStore()
		invitations, _ := newInvitationServiceForTest(store, 30*time.Minute)
		invitation, inviterID, _ := invite(t, store, invitations)

		_, err := invitations.Accept(ctx, invitation.ID, inviterID)

		require.ErrorIs(t, err, apperror.ErrPermissionDenied)
	})

	t.Run("An expired invitation is flipped on first accept, processed on second", func(t *testing.T) {
		// Given: A pending invitation past its window
		store := newFakeStore()
		invitations, _ := newInvitationServiceForTest(store, 30*time.Minute)
		invitation, _, invitedID := invite(t, store, invitations)
		expireInvitation(store, invitation.ID)

		// When: The recipient accepts twice
		_, firstErr := invitations.Accept(ctx, invitation.ID, invitedID)
		_, secondErr := invitations.Accept(ctx, invitation.ID, invitedID)

		// Then: The first accept expires it, the second sees a processed one
		require.ErrorIs(t, firstErr, apperror.ErrInvitationExpired)
		require.ErrorIs(t, secondErr, apperror.ErrInvitationProcessed)

		flipped, err := store.invitations.GetByID(ctx, invitation.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.InvitationStatusExpired, flipped.Status)
	})

	t.Run("Fails when the room was taken by a direct join", func(t *testing.T) {
		// Given: A pending invitation whose room a third user has joined
		store := newFakeStore()
		invitations, rooms := newInvitationServiceForTest(store, 30*time.Minute)
		invitation, _, invitedID := invite(t, store, invitations)
		third := store.addUser("carol")

		_, err := rooms.JoinRoom(ctx, invitation.RoomID, third.ID)
		require.NoError(t, err)

		// When: The recipient accepts the now stale invitation
		_, err = invitations.Accept(ctx, invitation.ID, invitedID)

		// Then: The room is gone for them and the invitation stays pending
		require.ErrorIs(t, err, apperror.ErrRoomUnavailable)

		pending, getErr := store.invitations.GetByID(ctx, invitation.ID)
		require.NoError(t, getErr)
		assert.Equal(t, entity.InvitationStatusPending, pending.Status)
	})
}

func TestInvitationService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("Marks the invitation rejected and leaves the room waiting", func(t *testing.T) {
		store := newFakeStore()
		game := store.addGame(6, 7, 4)
		inviter := store.addUser("alice")
		invited := store.addUser("bob")
		store.makeFriends(inviter.ID, invited.ID)
		invitations, _ := newInvitationServiceForTest(store, 30*time.Minute)

		result, err := invitations.Invite(ctx, inviter.ID, invited.ID, game.ID)
		require.NoError(t, err)

		err = invitations.Reject(ctx, result.Invitation.ID, invited.ID)

		require.NoError(t, err)

		rejected, err := store.invitations.GetByID(ctx, result.Invitation.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.InvitationStatusRejected, rejected.Status)

		room, err := store.rooms.GetByID(ctx, result.Room.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.RoomStatusWaiting, room.Status)
	})

	t.Run("Only the recipient can reject", func(t *testing.T) {
		store := newFakeStore()
		game := store.addGame(6, 7, 4)
		inviter := store.addUser("alice")
		invited := store.addUser("bob")
		store.makeFriends(inviter.ID, invited.ID)
		invitations, _ := newInvitationServiceForTest(store, 30*time.Minute)

		result, err := invitations.Invite(ctx, inviter.ID, invited.ID, game.ID)
		require.NoError(t, err)

		err = invitations.Reject(ctx, result.Invitation.ID, inviter.ID)

		require.ErrorIs(t, err, apperror.ErrPermissionDenied)
	})
}

func TestInvitationService_ListPending(t *testing.T) {
	ctx := context.Background()

	t.Run("Lists only live pending invitations for the recipient", func(t *testing.T) {
		// Given: One live and one expired invitation for the same recipient
		store := newFakeStore()
		gameA := store.addGame(6, 7, 4)
		gameB := store.addGame(6, 7, 4)
		inviterA := store.addUser("alice")
		inviterB := store.addUser("carol")
		invited := store.addUser("bob")
		store.makeFriends(inviterA.ID, invited.ID)
		store.makeFriends(inviterB.ID, invited.ID)
		invitations, _ := newInvitationServiceForTest(store, 30*time.Minute)

		live, err := invitations.Invite(ctx, inviterA.ID, invited.ID, gameA.ID)
		require.NoError(t, err)

		stale, err := invitations.Invite(ctx, inviterB.ID, invited.ID, gameB.ID)
		require.NoError(t, err)
		expireInvitation(store, stale.Invitation.ID)

		// When: The recipient lists their invitations
		pending, err := invitations.ListPending(ctx, invited.ID)

		// Then: Only the live one is visible
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, live.Invitation.ID, pending[0].ID)
	})
}
