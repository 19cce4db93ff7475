package rest

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/miniplayinc/miniplay-backend/internal/service"
)

type FriendshipHandler struct {
	logger      *slog.Logger
	friendships service.FriendshipService
}

func NewFriendshipHandler(logger *slog.Logger, friendships service.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{
		logger:      logger.With("handler", "friendship"),
		friendships: friendships,
	}
}

func (that *FriendshipHandler) Request(ctx *gin.Context) {
	targetID, ok := uintParam(ctx, "userID")
	if !ok {
		return
	}

	friendship, err := that.friendships.Request(ctx.Request.Context(), currentUserID(ctx), targetID)
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondCreated(ctx, "friend request sent", gin.H{"friendship": friendship})
}

func (that *FriendshipHandler) Accept(ctx *gin.Context) {
	friendshipID, ok := uintParam(ctx, "friendshipID")
	if !ok {
		return
	}

	friendship, err := that.friendships.Accept(ctx.Request.Context(), friendshipID, currentUserID(ctx))
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondOK(ctx, "friend request accepted", gin.H{"friendship": friendship})
}

func (that *FriendshipHandler) Reject(ctx *gin.Context) {
	friendshipID, ok := uintParam(ctx, "friendshipID")
	if !ok {
		return
	}

	if err := that.friendships.Reject(ctx.Request.Context(), friendshipID, currentUserID(ctx)); err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondOK(ctx, "friend request rejected", nil)
}

func (that *FriendshipHandler) Remove(ctx *gin.Context) {
	friendshipID, ok := uintParam(ctx, "friendshipID")
	if !ok {
		return
	}

	if err := that.friendships.Remove(ctx.Request.Context(), friendshipID, currentUserID(ctx)); err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondOK(ctx, "friend removed", nil)
}

func (that *FriendshipHandler) ListFriends(ctx *gin.Context) {
	friends, err := that.friendships.ListFriends(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondOK(ctx, "friends", gin.H{"friends": friends})
}

func (that *FriendshipHandler) ListRequests(ctx *gin.Context) {
	requests, err := that.friendships.ListPendingRequests(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondOK(ctx, "friend requests", gin.H{"requests": requests})
}
