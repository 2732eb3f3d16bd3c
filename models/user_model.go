package models

import (
	"time"
)

type User struct {
	BaseModel
	Username  string  `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Email     string  `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password  string  `gorm:"not null" json:"-"`
	Bio       *string `gorm:"type:text" json:"bio"`
	AvatarURL *string `gorm:"size:255" json:"avatar_url"`
	IsStaff   bool    `gorm:"default:false" json:"is_staff"`
	IsActive  bool    `gorm:"default:true" json:"is_active"`

	ResetPasswordToken          *string    `gorm:"size:255;uniqueIndex" json:"-"`
	ResetPasswordTokenExpiresAt *time.Time `json:"-"`
}
