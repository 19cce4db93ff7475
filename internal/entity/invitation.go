package entity

import "time"

const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusRejected = "rejected"
	InvitationStatusExpired  = "expired"
)

// GameInvitation is a time-bounded offer from one friend to another to join
// a specific waiting room.
type GameInvitation struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	InviterID     uint      `gorm:"not null;index" json:"inviter_id"`
	Inviter       *User     `gorm:"foreignKey:InviterID" json:"inviter,omitempty"`
	InvitedUserID uint      `gorm:"not null;index" json:"invited_user_id"`
	InvitedUser   *User     `gorm:"foreignKey:InvitedUserID" json:"invited_user,omitempty"`
	GameID        uint      `gorm:"not null;index" json:"game_id"`
	Game          *Game     `gorm:"foreignKey:GameID" json:"game,omitempty"`
	Status        string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RoomID        uint      `gorm:"not null" json:"room_id"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `gorm:"not null" json:"expires_at"`
}

func (that *GameInvitation) IsPending() bool {
	return that.Status == InvitationStatusPending
}

// ExpiredAt reports whether the invitation window has passed. Expiry is
// evaluated lazily at read and accept time; there is no background sweep.
func (that *GameInvitation) ExpiredAt(now time.Time) bool {
	return now.After(that.ExpiresAt)
}
