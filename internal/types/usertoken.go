package types

import (
	"time"
)

type UserToken struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index;column:user_id" json:"user_id"`
	AccessToken  string    `gorm:"size:512;uniqueIndex;not null;column:access_token" json:"-"`
	RefreshToken string    `gorm:"size:64;uniqueIndex;not null;column:refresh_token" json:"-"`
	ExpiresAt    time.Time `gorm:"not null;column:expires_at" json:"expires_at"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (UserToken) TableName() string {
	return "user_token"
}
