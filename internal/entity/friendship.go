package entity

import "time"

const (
	FriendshipStatusPending  = "pending"
	FriendshipStatusAccepted = "accepted"
	FriendshipStatusBlocked  = "blocked"
)

type Friendship struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	User1ID     uint      `gorm:"not null;index:idx_friendship_pair" json:"user1_id"`
	User1       *User     `gorm:"foreignKey:User1ID" json:"user1,omitempty"`
	User2ID     uint      `gorm:"not null;index:idx_friendship_pair" json:"user2_id"`
	User2       *User     `gorm:"foreignKey:User2ID" json:"user2,omitempty"`
	Status      string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RequestedBy uint      `gorm:"not null" json:"requested_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

func (that *Friendship) IsPending() bool {
	return that.Status == FriendshipStatusPending
}

func (that *Friendship) IsAccepted() bool {
	return that.Status == FriendshipStatusAccepted
}

func (that *Friendship) Involves(userID uint) bool {
	return that.User1ID == userID || that.User2ID == userID
}

// OtherUserID returns the id of the participant that is not the given user.
func (that *Friendship) OtherUserID(userID uint) uint {
	if that.User1ID == userID {
		return that.User2ID
	}
	return that.User1ID
}

// OtherUser returns the loaded participant that is not the given user.
func (that *Friendship) OtherUser(userID uint) *User {
	if that.User1ID == userID {
		return that.User2
	}
	return that.User1
}

// Addressee is the user who received the request and may accept it.
func (that *Friendship) Addressee() uint {
	if that.RequestedBy == that.User1ID {
		return that.User2ID
	}
	return that.User1ID
}
