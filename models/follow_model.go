package models

import "github.com/google/uuid"

// Follow is unique per (follower, followed).
type Follow struct {
	BaseModel
	FollowerID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FollowedID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_follow_pair;index" json:"followed_id"`

	Follower User `gorm:"foreignKey:FollowerID" json:"-"`
	Followed User `gorm:"foreignKey:FollowedID" json:"-"`
}
