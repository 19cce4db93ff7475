package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/miniplayinc/miniplay-backend/internal/apperror"
	"github.com/miniplayinc/miniplay-backend/internal/board"
	"github.com/miniplayinc/miniplay-backend/internal/entity"
	"github.com/miniplayinc/miniplay-backend/internal/repository"
)

// MoveResult carries everything a caller needs after a move: the updated
// room, the decoded board and where the token landed.
type MoveResult struct {
	Room    *entity.GameRoom
	Board   *board.Board
	Row     int
	Outcome board.Outcome
}

type RoomService interface {
	CreateRoom(ctx context.Context, gameID, creatorID uint) (*entity.GameRoom, error)
	JoinRoom(ctx context.Context, roomID, userID uint) (*entity.GameRoom, error)
	GetRoom(ctx context.Context, roomID, userID uint) (*entity.GameRoom, error)
	MakeMove(ctx context.Context, roomID, userID uint, column int) (*MoveResult, error)
	AvailableRooms(ctx context.Context, gameID uint) ([]entity.GameRoom, error)
}

type roomService struct {
	logger *slog.Logger
	store  Store
	scores ScoreService
}

func NewRoomService(logger *slog.Logger, store Store, scores ScoreService) RoomService {
	return &roomService{
		logger: logger.With("component", "room-service"),
		store:  store,
		scores: scores,
	}
}

// CreateRoom opens a new waiting room. A user can hold at most one active
// room, which is enforced here rather than at the storage layer: the
// creator's user row is locked for the whole check-then-insert, so of two
// concurrent creates exactly one can pass the active-room check.
func (that *roomService) CreateRoom(ctx context.Context, gameID, creatorID uint) (*entity.GameRoom, error) {
	var created *entity.GameRoom

	err := that.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		if _, err := repos.Users.GetByIDLocked(ctx, creatorID); err != nil {
			return fmt.Errorf("failed to lock creator: %w", err)
		}

		game, err := repos.Games.GetByID(ctx, gameID)
		if err != nil {
			return fmt.Errorf("failed to get game: %w", err)
		}

		created, err = openRoom(ctx, repos, game, creatorID)

		return err
	})

	// created still carries the existing room on ErrActiveRoomExists
	return created, err
}

// openRoom creates a waiting room for the creator after verifying they hold
// no other active room. Must run with the creator's user row locked.
func openRoom(ctx context.Context, repos *repository.Repositories, game *entity.Game, creatorID uint) (*entity.GameRoom, error) {
	active, err := repos.Rooms.FindActiveByUser(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active rooms: %w", err)
	}

	if len(active) > 0 {
		return &active[0], apperror.ErrActiveRoomExists
	}

	turn := creatorID
	room := &entity.GameRoom{
		GameID:        game.ID,
		Player1ID:     creatorID,
		Status:        entity.RoomStatusWaiting,
		CurrentTurnID: &turn,
	}

	if err = repos.Rooms.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	room.Game = game

	return room, nil
}

// JoinRoom seats the joining user as player two. The room row is locked
// for the whole read-validate-write, so of two concurrent joins exactly one
// can move the room out of waiting.
func (that *roomService) JoinRoom(ctx context.Context, roomID, userID uint) (*entity.GameRoom, error) {
	var joined *entity.GameRoom

	err := that.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		room, err := repos.Rooms.GetByIDLocked(ctx, roomID)
		if err != nil {
			return fmt.Errorf("failed to get room: %w", err)
		}

		if err = seatAndStart(ctx, repos, room, userID, time.Now()); err != nil {
			return err
		}

		joined = room

		return nil
	})
	if err != nil {
		return nil, err
	}

	return joined, nil
}

// seatAndStart is the single player2-set path shared by direct joins and
// invitation acceptance. Must run with the room row locked.
func seatAndStart(ctx context.Context, repos *repository.Repositories, room *entity.GameRoom, userID uint, now time.Time) error {
	if err := room.SeatSecondPlayer(userID, now); err != nil {
		return err
	}

	game := room.Game
	if game == nil {
		loaded, err := repos.Games.GetByID(ctx, room.GameID)
		if err != nil {
			return fmt.Errorf("failed to get game: %w", err)
		}
		game = loaded
	}

	b := board.NewEngine(game.BoardConfig()).NewBoard()

	raw, err := b.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode board: %w", err)
	}
	room.GameState = datatypes.JSON(raw)

	if err = repos.Rooms.Update(ctx, room); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	return nil
}

func (that *roomService) GetRoom(ctx context.Context, roomID, userID uint) (*entity.GameRoom, error) {
	room, err := that.store.Repos().Rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	if !room.IsParticipant(userID) {
		return nil, apperror.ErrPermissionDenied
	}

	return room, nil
}

// MakeMove validates the acting user's turn, applies the move to the board
// and either finishes the room or passes the turn. All preconditions are
// checked before any mutation; a failed move leaves the room untouched.
func (that *roomService) MakeMove(ctx context.Context, roomID, userID uint, column int) (*MoveResult, error) {
	var result *MoveResult

	err := that.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		room, err := repos.Rooms.GetByIDLocked(ctx, roomID)
		if err != nil {
			return fmt.Errorf("failed to get room: %w", err)
		}

		if !room.IsParticipant(userID) {
			return apperror.ErrPermissionDenied
		}

		if !room.IsPlaying() {
			return apperror.ErrRoomNotPlaying
		}

		if !room.IsPlayerTurn(userID) {
			return apperror.ErrNotYourTurn
		}

		game := room.Game
		if game == nil {
			loaded, err := repos.Games.GetByID(ctx, room.GameID)
			if err != nil {
				return fmt.Errorf("failed to get game: %w", err)
			}
			game = loaded
		}

		engine := board.NewEngine(game.BoardConfig())

		b := engine.NewBoard()
		if len(room.GameState) > 0 {
			if b, err = engine.Decode(room.GameState); err != nil {
				return fmt.Errorf("failed to decode board: %w", err)
			}
		}

		row, err := engine.ApplyMove(b, column, room.CellFor(userID))
		if err != nil {
			return err
		}

		now := time.Now()

		outcome, winnerCell := engine.Result(b)
		switch outcome {
		case board.OutcomeWin:
			room.Finish(room.UserIDFor(winnerCell), now)
		case board.OutcomeDraw:
			room.Finish(entity.DrawWinnerID, now)
		default:
			room.SwitchTurn()
		}

		raw, err := b.Encode()
		if err != nil {
			return fmt.Errorf("failed to encode board: %w", err)
		}
		room.GameState = datatypes.JSON(raw)

		if err = repos.Rooms.Update(ctx, room); err != nil {
			return fmt.Errorf("failed to update room: %w", err)
		}

		result = &MoveResult{
			Room:    room,
			Board:   b,
			Row:     row,
			Outcome: outcome,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Room.IsFinished() {
		// stats are best effort and never fail the move
		if err = that.scores.RecordMatchResult(ctx, result.Room); err != nil {
			that.logger.Error("failed to record match result", "room_id", result.Room.ID, "error", err)
		}
	}

	return result, nil
}

func (that *roomService) AvailableRooms(ctx context.Context, gameID uint) ([]entity.GameRoom, error) {
	repos := that.store.Repos()

	if _, err := repos.Games.GetByID(ctx, gameID); err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	rooms, err := repos.Rooms.FindAvailableByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list available rooms: %w", err)
	}

	return rooms, nil
}
