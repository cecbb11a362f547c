package service

import (
	"context"
	"errors"
	"strings"

	"github.com/postboard/internal/db"
	"github.com/postboard/internal/identity"
	"github.com/postboard/internal/metrics"
	"gorm.io/gorm"
)

// CommentCheck is evaluated inside the parent post's critical section before a comment
// mutation is applied.
type CommentCheck func(post *db.Post, comment *db.Comment) error

// AddComment appends a comment to the post and bumps its comment counter in the same transaction.
func (s *ContentStore) AddComment(ctx context.Context, postID uint, author identity.Identity, content string) (*db.Comment, error) {
	if strings.TrimSpace(content) == "" || author.UserID == 0 {
		return nil, ErrInvalidInput
	}

	unlock := s.locks.lock(postID)
	defer unlock()

	comment := db.Comment{
		PostID:  postID,
		Content: content,
		Author: db.CommentAuthor{
			UserID:    author.UserID,
			Nickname:  author.DisplayName(),
			AvatarRef: author.AvatarRef,
		},
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadPost(tx, postID, false); err != nil {
			return err
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&db.Post{}).
			Where("id = ?", postID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.ContentMutations.WithLabelValues("add_comment").Inc()
	return &comment, nil
}

// GetComments lists a post's comments in insertion order. A missing post yields an empty list.
func (s *ContentStore) GetComments(ctx context.Context, postID uint) ([]db.Comment, error) {
	comments := []db.Comment{}
	if err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id asc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// GetComment fetches one comment of a post.
func (s *ContentStore) GetComment(ctx context.Context, postID, commentID uint) (*db.Comment, error) {
	return loadComment(s.db.WithContext(ctx), postID, commentID)
}

// UpdateComment replaces the content of a comment.
func (s *ContentStore) UpdateComment(ctx context.Context, postID, commentID uint, content string, checks ...CommentCheck) (*db.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrInvalidInput
	}

	unlock := s.locks.lock(postID)
	defer unlock()

	var updated *db.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, comment, err := loadPostComment(tx, postID, commentID)
		if err != nil {
			return err
		}
		if err := runCommentChecks(post, comment, checks); err != nil {
			return err
		}

		if err := tx.Model(comment).Update("content", content).Error; err != nil {
			return err
		}

		updated, err = loadComment(tx, postID, commentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ContentMutations.WithLabelValues("update_comment").Inc()
	return updated, nil
}

// DeleteComment removes a comment and decrements the post's comment counter.
// It reports false when the comment does not exist under postID.
func (s *ContentStore) DeleteComment(ctx context.Context, postID, commentID uint, checks ...CommentCheck) (bool, error) {
	unlock := s.locks.lock(postID)
	defer unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, comment, err := loadPostComment(tx, postID, commentID)
		if err != nil {
			return err
		}
		if err := runCommentChecks(post, comment, checks); err != nil {
			return err
		}

		if err := tx.Delete(comment).Error; err != nil {
			return err
		}
		return tx.Model(&db.Post{}).
			Where("id = ?", postID).
			UpdateColumn("comment_count", gorm.Expr("MAX(comment_count - 1, 0)")).Error
	})
	if errors.Is(err, ErrCommentNotFound) || errors.Is(err, ErrPostNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	metrics.ContentMutations.WithLabelValues("delete_comment").Inc()
	return true, nil
}

func loadComment(tx *gorm.DB, postID, commentID uint) (*db.Comment, error) {
	var comment db.Comment
	if err := tx.Where("post_id = ?", postID).First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func loadPostComment(tx *gorm.DB, postID, commentID uint) (*db.Post, *db.Comment, error) {
	post, err := loadPost(tx, postID, false)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, nil, ErrCommentNotFound
		}
		return nil, nil, err
	}
	comment, err := loadComment(tx, postID, commentID)
	if err != nil {
		return nil, nil, err
	}
	return post, comment, nil
}

func runCommentChecks(post *db.Post, comment *db.Comment, checks []CommentCheck) error {
	for _, check := range checks {
		if check == nil {
			continue
		}
		if err := check(post, comment); err != nil {
			return err
		}
	}
	return nil
}
