package rest

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/miniplayinc/miniplay-backend/internal/service"
)

type InvitationHandler struct {
	logger      *slog.Logger
	invitations service.InvitationService
}

func NewInvitationHandler(logger *slog.Logger, invitations service.InvitationService) *InvitationHandler {
	return &InvitationHandler{
		logger:      logger.With("handler", "invitation"),
		invitations: invitations,
	}
}

func (that *InvitationHandler) Invite(ctx *gin.Context) {
	var input struct {
		FriendID uint `json:"friend_id" binding:"required"`
		GameID   uint `json:"game_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBadRequest(ctx, "invalid invitation payload")
		return
	}

	result, err := that.invitations.Invite(ctx.Request.Context(), currentUserID(ctx), input.FriendID, input.GameID)
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	payload := gin.H{
		"invitation": result.Invitation,
		"room":       result.Room,
	}

	if result.Existing {
		respondOK(ctx, "invitation already pending", payload)
		return
	}

	respond(ctx, http.StatusCreated, "invitation sent", payload)
}

func (that *InvitationHandler) Accept(ctx *gin.Context) {
	invitationID, ok := uintParam(ctx, "invitationID")
	if !ok {
		return
	}

	room, err := that.invitations.Accept(ctx.Request.Context(), invitationID, currentUserID(ctx))
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondOK(ctx, "invitation accepted", gin.H{"room": room})
}

func (that *InvitationHandler) Reject(ctx *gin.Context) {
	invitationID, ok := uintParam(ctx, "invitationID")
	if !ok {
		return
	}

	if err := that.invitations.Reject(ctx.Request.Context(), invitationID, currentUserID(ctx)); err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondOK(ctx, "invitation rejected", nil)
}

func (that *InvitationHandler) ListPending(ctx *gin.Context) {
	invitations, err := that.invitations.ListPending(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondOK(ctx, "pending invitations", gin.H{"invitations": invitations})
}
