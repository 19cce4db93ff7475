package board

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Cell is a single slot on the grid. Zero means empty, otherwise it holds
// the number of the player who dropped a token there.
type Cell int

const (
	Empty     Cell = 0
	PlayerOne Cell = 1
	PlayerTwo Cell = 2
)

var (
	ErrColumnOutOfRange = errors.New("column is out of range")
	ErrColumnFull       = errors.New("column is full")
	ErrInvalidBoard     = errors.New("invalid board state")
)

type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeDraw
)

// Config describes a grid game variant. The reference game is
// Connect Four on a 6x7 grid.
type Config struct {
	Rows       int
	Cols       int
	ConnectLen int
}

func DefaultConfig() Config {
	return Config{Rows: 6, Cols: 7, ConnectLen: 4}
}

// Board is the in-memory game state. Its JSON form matches the shape
// persisted in the game_rooms table: {"board":[[...]],"currentPlayer":1,"moves":0}.
type Board struct {
	Cells         [][]Cell `json:"board"`
	CurrentPlayer Cell     `json:"currentPlayer"`
	Moves         int      `json:"moves"`
}

// Engine applies moves and detects terminal states for one game variant.
// It never touches storage and knows nothing about user ids.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) Engine {
	return Engine{cfg: cfg}
}

func (that Engine) Config() Config {
	return that.cfg
}

func (that Engine) NewBoard() *Board {
	cells := make([][]Cell, that.cfg.Rows)
	for row := range cells {
		cells[row] = make([]Cell, that.cfg.Cols)
	}

	return &Board{
		Cells:         cells,
		CurrentPlayer: PlayerOne,
		Moves:         0,
	}
}

// ApplyMove drops a token for player into the given column and returns the
// row it landed in. The board is left untouched on error.
func (that Engine) ApplyMove(b *Board, column int, player Cell) (int, error) {
	if column < 0 || column >= that.cfg.Cols {
		return 0, fmt.Errorf("%w: column %d", ErrColumnOutOfRange, column)
	}

	for row := that.cfg.Rows - 1; row >= 0; row-- {
		if b.Cells[row][column] != Empty {
			continue
		}

		b.Cells[row][column] = player
		b.Moves++
		b.CurrentPlayer = opponent(player)

		return row, nil
	}

	return 0, fmt.Errorf("%w: column %d", ErrColumnFull, column)
}

// Result scans the grid for a finished game. Cells are visited in row-major
// order and only the four forward directions are checked, so the first
// completed line in scan order wins.
func (that Engine) Result(b *Board) (Outcome, Cell) {
	directions := [4][2]int{
		{0, 1},  // horizontal
		{1, 0},  // vertical
		{1, 1},  // diagonal down-right
		{1, -1}, // diagonal down-left
	}

	for row := 0; row < that.cfg.Rows; row++ {
		for col := 0; col < that.cfg.Cols; col++ {
			player := b.Cells[row][col]
			if player == Empty {
				continue
			}

			for _, dir := range directions {
				if that.connects(b, row, col, dir[0], dir[1], player) {
					return OutcomeWin, player
				}
			}
		}
	}

	if b.Moves >= that.cfg.Rows*that.cfg.Cols {
		return OutcomeDraw, Empty
	}

	return OutcomeNone, Empty
}

func (that Engine) connects(b *Board, row, col, dRow, dCol int, player Cell) bool {
	endRow := row + (that.cfg.ConnectLen-1)*dRow
	endCol := col + (that.cfg.ConnectLen-1)*dCol

	if endRow < 0 || endRow >= that.cfg.Rows || endCol < 0 || endCol >= that.cfg.Cols {
		return false
	}

	for i := 1; i < that.cfg.ConnectLen; i++ {
		if b.Cells[row+i*dRow][col+i*dCol] != player {
			return false
		}
	}

	return true
}

func opponent(player Cell) Cell {
	if player == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

// Decode restores a board from its persisted JSON form and checks that the
// grid matches the engine's dimensions.
func (that Engine) Decode(raw []byte) (*Board, error) {
	var b Board
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("could not unmarshal board: %w", err)
	}

	if len(b.Cells) != that.cfg.Rows {
		return nil, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidBoard, that.cfg.Rows, len(b.Cells))
	}

	for _, row := range b.Cells {
		if len(row) != that.cfg.Cols {
			return nil, fmt.Errorf("%w: expected %d columns, got %d", ErrInvalidBoard, that.cfg.Cols, len(row))
		}
	}

	return &b, nil
}

func (that *Board) Encode() ([]byte, error) {
	raw, err := json.Marshal(that)
	if err != nil {
		return nil, fmt.Errorf("could not marshal board: %w", err)
	}

	return raw, nil
}
