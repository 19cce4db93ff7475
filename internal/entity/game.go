package entity

import (
	"time"

	"github.com/miniplayinc/miniplay-backend/internal/board"
)

// Game is one entry of the mini-games catalog. Board dimensions live here
// so other grid variants can share the same engine.
type Game struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Slug       string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Rows       int       `gorm:"not null;default:6" json:"rows"`
	Cols       int       `gorm:"not null;default:7" json:"cols"`
	ConnectLen int       `gorm:"not null;default:4" json:"connect_len"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func (that *Game) BoardConfig() board.Config {
	return board.Config{
		Rows:       that.Rows,
		Cols:       that.Cols,
		ConnectLen: that.ConnectLen,
	}
}
