package db

import (
	"time"

	"gorm.io/gorm"
)

// CommentAuthor snapshots the commenter at creation time.
type CommentAuthor struct {
	UserID    uint   `json:"user_id"`
	Nickname  string `json:"nickname"`
	AvatarRef string `json:"profile_image"`
}

// Comment 定义了评论模型，评论只属于一篇文章。
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"comment_id"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	Content   string         `gorm:"type:text;not null" json:"comment_content"`
	Author    CommentAuthor  `gorm:"embedded;embeddedPrefix:author_" json:"comment_author"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
