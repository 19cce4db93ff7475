package entity

import "time"

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:100;not null" json:"-"`
	ProfileImage string     `gorm:"size:255" json:"profile_image,omitempty"`
	IsBanned     bool       `gorm:"default:false" json:"-"`
	BannedUntil  *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"-"`
}

// BannedAt reports whether the user is banned at the given moment.
// A banned user without an until date is banned permanently.
func (that *User) BannedAt(now time.Time) bool {
	if !that.IsBanned {
		return false
	}

	if that.BannedUntil == nil {
		return true
	}

	return now.Before(*that.BannedUntil)
}

// Summary is the public projection embedded in room and invitation payloads.
type UserSummary struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	ProfileImage string `json:"profile_image,omitempty"`
}

func (that *User) Summary() UserSummary {
	return UserSummary{
		ID:           that.ID,
		Username:     that.Username,
		ProfileImage: that.ProfileImage,
	}
}
