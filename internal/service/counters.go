package service

import (
	"context"

	"github.com/postboard/internal/db"
	"github.com/postboard/internal/metrics"
	"gorm.io/gorm"
)

// IncrementViews records one view and returns the new view count.
func (s *ContentStore) IncrementViews(ctx context.Context, postID uint) (int64, error) {
	views, err := s.adjustCounter(ctx, postID, "view_count", gorm.Expr("view_count + 1"))
	if err != nil {
		return 0, err
	}
	metrics.PostViews.Inc()
	return views, nil
}

// GetViews returns the post's view count.
func (s *ContentStore) GetViews(ctx context.Context, postID uint) (int64, error) {
	return pluckCounter(s.db.WithContext(ctx), postID, "view_count")
}

// IncrementCommentCount bumps the displayed comment counter without adding a comment.
// AddComment already maintains the counter; this entry point is an independent adjustment.
func (s *ContentStore) IncrementCommentCount(ctx context.Context, postID uint) (int64, error) {
	count, err := s.adjustCounter(ctx, postID, "comment_count", gorm.Expr("comment_count + 1"))
	if err != nil {
		return 0, err
	}
	metrics.ContentMutations.WithLabelValues("increment_comment_count").Inc()
	return count, nil
}

// DecrementCommentCount lowers the displayed comment counter, never below zero.
func (s *ContentStore) DecrementCommentCount(ctx context.Context, postID uint) (int64, error) {
	count, err := s.adjustCounter(ctx, postID, "comment_count", gorm.Expr("MAX(comment_count - 1, 0)"))
	if err != nil {
		return 0, err
	}
	metrics.ContentMutations.WithLabelValues("decrement_comment_count").Inc()
	return count, nil
}

// GetCommentCount returns the displayed comment counter.
func (s *ContentStore) GetCommentCount(ctx context.Context, postID uint) (int64, error) {
	return pluckCounter(s.db.WithContext(ctx), postID, "comment_count")
}

func (s *ContentStore) adjustCounter(ctx context.Context, postID uint, column string, expr interface{}) (int64, error) {
	unlock := s.locks.lock(postID)
	defer unlock()

	var value int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&db.Post{}).Where("id = ?", postID).UpdateColumn(column, expr)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPostNotFound
		}

		var err error
		value, err = pluckCounter(tx, postID, column)
		return err
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}
