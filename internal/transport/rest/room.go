package rest

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/miniplayinc/miniplay-backend/internal/apperror"
	"github.com/miniplayinc/miniplay-backend/internal/board"
	"github.com/miniplayinc/miniplay-backend/internal/service"
)

type RoomHandler struct {
	logger *slog.Logger
	rooms  service.RoomService
}

func NewRoomHandler(logger *slog.Logger, rooms service.RoomService) *RoomHandler {
	return &RoomHandler{
		logger: logger.With("handler", "room"),
		rooms:  rooms,
	}
}

func (that *RoomHandler) Create(ctx *gin.Context) {
	gameID, ok := uintParam(ctx, "gameID")
	if !ok {
		return
	}

	room, err := that.rooms.CreateRoom(ctx.Request.Context(), gameID, currentUserID(ctx))
	if errors.Is(err, apperror.ErrActiveRoomExists) {
		// hand the existing room back so the client can jump into it
		respondError(ctx, that.logger, err, gin.H{"room_id": room.ID})
		return
	}
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondCreated(ctx, "room created", gin.H{"room": room})
}

func (that *RoomHandler) Join(ctx *gin.Context) {
	roomID, ok := uintParam(ctx, "roomID")
	if !ok {
		return
	}

	room, err := that.rooms.JoinRoom(ctx.Request.Context(), roomID, currentUserID(ctx))
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondOK(ctx, "joined room", gin.H{"room": room})
}

func (that *RoomHandler) Get(ctx *gin.Context) {
	roomID, ok := uintParam(ctx, "roomID")
	if !ok {
		return
	}

	room, err := that.rooms.GetRoom(ctx.Request.Context(), roomID, currentUserID(ctx))
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondOK(ctx, "room", gin.H{"room": room})
}

func (that *RoomHandler) Move(ctx *gin.Context) {
	roomID, ok := uintParam(ctx, "roomID")
	if !ok {
		return
	}

	var input struct {
		Column *int `json:"column" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBadRequest(ctx, "invalid move payload")
		return
	}

	result, err := that.rooms.MakeMove(ctx.Request.Context(), roomID, currentUserID(ctx), *input.Column)
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	payload := gin.H{
		"room":  result.Room,
		"board": result.Board,
		"row":   result.Row,
	}

	switch result.Outcome {
	case board.OutcomeWin:
		respondOK(ctx, "game won", payload)
	case board.OutcomeDraw:
		respondOK(ctx, "game drawn", payload)
	default:
		respondOK(ctx, "move accepted", payload)
	}
}

func (that *RoomHandler) Available(ctx *gin.Context) {
	gameID, ok := uintParam(ctx, "gameID")
	if !ok {
		return
	}

	rooms, err := that.rooms.AvailableRooms(ctx.Request.Context(), gameID)
	if err != nil {
		respondError(ctx, that.logger, err, nil)
		return
	}

	respondOK(ctx, "available rooms", gin.H{"rooms": rooms})
}

// uintParam parses a numeric path parameter, answering 400 itself on
// garbage input.
func uintParam(ctx *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		respondBadRequest(ctx, "invalid "+name)
		return 0, false
	}

	return uint(value), true
}
