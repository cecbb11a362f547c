package db

import (
	"time"

	"gorm.io/gorm"
)

// Author 是文章创建时作者信息的快照，之后用户资料变更不会影响历史文章。
type Author struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	AvatarRef string `json:"profile_image"`
}

// Post 定义了文章模型
type Post struct {
	ID           uint           `gorm:"primaryKey" json:"post_id"`
	Title        string         `gorm:"not null" json:"post_title"`
	Body         string         `gorm:"type:text;not null" json:"post_content"`
	ImageURL     *string        `json:"post_image"`
	ImageName    *string        `json:"post_image_name"`
	ImageWidth   int            `json:"post_image_width,omitempty"`
	ImageHeight  int            `json:"post_image_height,omitempty"`
	Author       Author         `gorm:"embedded;embeddedPrefix:author_" json:"author"`
	LikeCount    int64          `gorm:"not null;default:0" json:"likes"`
	CommentCount int64          `gorm:"not null;default:0" json:"comments"`
	ViewCount    int64          `gorm:"not null;default:0" json:"views"`
	Comments     []Comment      `gorm:"foreignKey:PostID" json:"comment_list,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// PostLike records that a user likes a post. The unique index keeps one row per user and post.
type PostLike struct {
	ID        uint `gorm:"primaryKey"`
	PostID    uint `gorm:"not null;uniqueIndex:idx_post_likes_post_user"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_post_likes_post_user"`
	CreatedAt time.Time
}

// TableName 指定自定义表名。
func (PostLike) TableName() string {
	return "post_likes"
}
