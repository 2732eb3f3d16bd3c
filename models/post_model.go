package models

import "github.com/google/uuid"

type Post struct {
	BaseModel
	Title    string    `gorm:"size:100;not null" json:"title"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	ImageURL *string   `gorm:"size:255" json:"image_url"`
	AuthorID uuid.UUID `gorm:"type:char(36);not null;index" json:"author_id"`

	LikesCount    int64 `gorm:"->;-:migration" json:"likes_count"`
	CommentsCount int64 `gorm:"->;-:migration" json:"comments_count"`

	Author   User      `gorm:"foreignKey:AuthorID" json:"author"`
	Comments []Comment `json:"-"`
	Likes    []Like    `json:"-"`
}

type Comment struct {
	BaseModel
	PostID   uuid.UUID `gorm:"type:char(36);not null;index" json:"post_id"`
	AuthorID uuid.UUID `gorm:"type:char(36);not null" json:"author_id"`
	Text     string    `gorm:"type:text;not null" json:"text"`

	Author User `gorm:"foreignKey:AuthorID" json:"author"`
}

// Like is unique per (user, post).
type Like struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_like_user_post" json:"post_id"`
}
