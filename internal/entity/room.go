package entity

import (
	"time"

	"gorm.io/datatypes"

	"github.com/miniplayinc/miniplay-backend/internal/apperror"
	"github.com/miniplayinc/miniplay-backend/internal/board"
)

const (
	RoomStatusWaiting   = "waiting"
	RoomStatusPlaying   = "playing"
	RoomStatusFinished  = "finished"
	RoomStatusCancelled = "cancelled"
)

// DrawWinnerID marks a finished game that ended with no winner. It is
// distinct from a nil winner, which means the game is still running.
const DrawWinnerID uint = 0

type GameRoom struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	GameID        uint           `gorm:"not null;index" json:"game_id"`
	Game          *Game          `gorm:"foreignKey:GameID" json:"game,omitempty"`
	Player1ID     uint           `gorm:"not null;index" json:"player1_id"`
	Player1       *User          `gorm:"foreignKey:Player1ID" json:"player1,omitempty"`
	Player2ID     *uint          `gorm:"index" json:"player2_id,omitempty"`
	Player2       *User          `gorm:"foreignKey:Player2ID" json:"player2,omitempty"`
	Status        string         `gorm:"size:20;not null;default:'waiting';index" json:"status"`
	CurrentTurnID *uint          `json:"current_turn_id,omitempty"`
	GameState     datatypes.JSON `json:"game_state,omitempty"`
	WinnerID      *uint          `json:"winner_id,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"-"`
	StartedAt     *time.Time     `json:"started_at,omitempty"`
	FinishedAt    *time.Time     `json:"finished_at,omitempty"`
}

func (that *GameRoom) IsWaiting() bool {
	return that.Status == RoomStatusWaiting
}

func (that *GameRoom) IsPlaying() bool {
	return that.Status == RoomStatusPlaying
}

func (that *GameRoom) IsFinished() bool {
	return that.Status == RoomStatusFinished
}

func (that *GameRoom) IsActive() bool {
	return that.IsWaiting() || that.IsPlaying()
}

func (that *GameRoom) IsParticipant(userID uint) bool {
	if that.Player1ID == userID {
		return true
	}

	return that.Player2ID != nil && *that.Player2ID == userID
}

func (that *GameRoom) IsPlayerTurn(userID uint) bool {
	return that.CurrentTurnID != nil && *that.CurrentTurnID == userID
}

// SeatSecondPlayer attaches the joining user as player two and starts the
// game. The creator keeps the first move. Validations run before any
// mutation, so a failed seat leaves the room untouched.
func (that *GameRoom) SeatSecondPlayer(userID uint, now time.Time) error {
	if !that.IsWaiting() {
		return apperror.ErrRoomNotWaiting
	}

	if that.Player1ID == userID {
		return apperror.ErrAlreadyCreator
	}

	if that.Player2ID != nil {
		return apperror.ErrRoomFull
	}

	that.Player2ID = &userID
	that.Status = RoomStatusPlaying
	that.StartedAt = &now

	return nil
}

// SwitchTurn toggles the turn between the two players. It is a no-op while
// the second seat is empty.
func (that *GameRoom) SwitchTurn() {
	if that.Player2ID == nil || that.CurrentTurnID == nil {
		return
	}

	if *that.CurrentTurnID == that.Player1ID {
		that.CurrentTurnID = that.Player2ID
	} else {
		turn := that.Player1ID
		that.CurrentTurnID = &turn
	}
}

// Finish marks the room terminal. The winner id stays as played, the draw
// sentinel marks a full board, and the turn no longer changes.
func (that *GameRoom) Finish(winnerID uint, now time.Time) {
	that.Status = RoomStatusFinished
	that.WinnerID = &winnerID
	that.FinishedAt = &now
}

// CellFor maps a participant to their board symbol.
func (that *GameRoom) CellFor(userID uint) board.Cell {
	if that.Player1ID == userID {
		return board.PlayerOne
	}
	return board.PlayerTwo
}

// UserIDFor maps a board symbol back to the owning participant.
func (that *GameRoom) UserIDFor(cell board.Cell) uint {
	if cell == board.PlayerOne {
		return that.Player1ID
	}

	if that.Player2ID != nil {
		return *that.Player2ID
	}

	return 0
}
