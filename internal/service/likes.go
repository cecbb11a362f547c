package service

import (
	"context"

	"github.com/postboard/internal/db"
	"github.com/postboard/internal/metrics"
	"gorm.io/gorm"
)

// LikeState is the like-set state of a post after a toggle.
type LikeState struct {
	LikeCount int64 `json:"likeCount"`
	Liked     bool  `json:"liked"`
}

// ToggleLike flips userID's membership in the post's like set and returns the new state.
// The like count is recounted from the like set in the same transaction.
func (s *ContentStore) ToggleLike(ctx context.Context, postID, userID uint) (LikeState, error) {
	if userID == 0 {
		return LikeState{}, ErrInvalidInput
	}

	unlock := s.locks.lock(postID)
	defer unlock()

	var state LikeState
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadPost(tx, postID, false); err != nil {
			return err
		}

		removed := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&db.PostLike{})
		if removed.Error != nil {
			return removed.Error
		}

		state.Liked = removed.RowsAffected == 0
		if state.Liked {
			if err := tx.Create(&db.PostLike{PostID: postID, UserID: userID}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&db.PostLike{}).Where("post_id = ?", postID).Count(&state.LikeCount).Error; err != nil {
			return err
		}
		return tx.Model(&db.Post{}).
			Where("id = ?", postID).
			UpdateColumn("like_count", state.LikeCount).Error
	})
	if err != nil {
		return LikeState{}, err
	}

	if state.Liked {
		metrics.ContentMutations.WithLabelValues("like").Inc()
	} else {
		metrics.ContentMutations.WithLabelValues("unlike").Inc()
	}
	return state, nil
}

// LikeStatus reports whether userID currently likes the post.
func (s *ContentStore) LikeStatus(ctx context.Context, postID, userID uint) (bool, error) {
	tx := s.db.WithContext(ctx)
	if _, err := loadPost(tx, postID, false); err != nil {
		return false, err
	}

	var count int64
	if err := tx.Model(&db.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetLikes returns the post's like count.
func (s *ContentStore) GetLikes(ctx context.Context, postID uint) (int64, error) {
	return pluckCounter(s.db.WithContext(ctx), postID, "like_count")
}
