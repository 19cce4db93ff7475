package entity

import "time"

// UserScore is a single score submission for one round of a mini-game.
type UserScore struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	GameID    uint      `gorm:"not null;index" json:"game_id"`
	Score     int       `gorm:"not null" json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// UserGameStat aggregates match results per user and game.
type UserGameStat struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;uniqueIndex:idx_stat_user_game" json:"user_id"`
	GameID       uint       `gorm:"not null;uniqueIndex:idx_stat_user_game" json:"game_id"`
	Wins         int        `gorm:"not null;default:0" json:"wins"`
	Losses       int        `gorm:"not null;default:0" json:"losses"`
	Draws        int        `gorm:"not null;default:0" json:"draws"`
	LastPlayedAt *time.Time `json:"last_played_at,omitempty"`
}
