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

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("caller does not own this resource")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// PostCheck is evaluated against the stored post inside the post's critical section,
// before a mutation is applied. A non-nil error aborts the mutation.
type PostCheck func(post *db.Post) error

// ContentStore owns posts, their comments, like sets and counters.
// Mutations of one post are serialized; different posts proceed independently.
type ContentStore struct {
	db    *gorm.DB
	locks *postLocks
}

// PostInput represents fields accepted when creating a post.
type PostInput struct {
	Title string
	Body  string
}

// PostPatch carries the fields to merge into an existing post. Nil fields are left untouched.
type PostPatch struct {
	Title *string
	Body  *string
}

// ImageRef describes an uploaded file already stored by the caller.
type ImageRef struct {
	URL    string
	Name   string
	Width  int
	Height int
}

// NewContentStore creates a ContentStore instance.
func NewContentStore(gdb *gorm.DB) *ContentStore {
	return &ContentStore{db: gdb, locks: newPostLocks()}
}

// ListPosts returns every live post, newest first, without comments.
func (s *ContentStore) ListPosts(ctx context.Context) ([]db.Post, error) {
	posts := []db.Post{}
	if err := s.db.WithContext(ctx).Order("created_at desc, id desc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches a post with its comments in insertion order.
func (s *ContentStore) GetPost(ctx context.Context, id uint) (*db.Post, error) {
	return loadPost(s.db.WithContext(ctx), id, true)
}

// CreatePost stores a new post authored by author with zeroed counters.
func (s *ContentStore) CreatePost(ctx context.Context, author identity.Identity, input PostInput) (*db.Post, error) {
	if err := validatePostInput(input); err != nil {
		return nil, err
	}
	if author.UserID == 0 {
		return nil, ErrInvalidInput
	}

	post := db.Post{
		Title: strings.TrimSpace(input.Title),
		Body:  input.Body,
		Author: db.Author{
			ID:        author.UserID,
			Name:      author.DisplayName(),
			AvatarRef: author.AvatarRef,
		},
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, err
	}

	metrics.ContentMutations.WithLabelValues("create_post").Inc()
	post.Comments = []db.Comment{}
	return &post, nil
}

// UpdatePost merges patch into the post. Counters and author are never touched.
func (s *ContentStore) UpdatePost(ctx context.Context, id uint, patch PostPatch, checks ...PostCheck) (*db.Post, error) {
	updates, err := patch.updates()
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(id)
	defer unlock()

	var post *db.Post
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := loadPost(tx, id, false)
		if err != nil {
			return err
		}
		if err := runPostChecks(existing, checks); err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := tx.Model(existing).Updates(updates).Error; err != nil {
				return err
			}
		}

		post, err = loadPost(tx, id, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ContentMutations.WithLabelValues("update_post").Inc()
	return post, nil
}

// DeletePost removes a post together with its comments and like set.
// It reports false when the post does not exist.
func (s *ContentStore) DeletePost(ctx context.Context, id uint, checks ...PostCheck) (bool, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := loadPost(tx, id, false)
		if err != nil {
			return err
		}
		if err := runPostChecks(existing, checks); err != nil {
			return err
		}

		if err := tx.Where("post_id = ?", id).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&db.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(existing).Error
	})
	if errors.Is(err, ErrPostNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	metrics.ContentMutations.WithLabelValues("delete_post").Inc()
	return true, nil
}

// SetPostImage records an uploaded image on the post. No file I/O happens here;
// when the post is missing the caller owns cleanup of the uploaded file.
func (s *ContentStore) SetPostImage(ctx context.Context, id uint, ref ImageRef, checks ...PostCheck) (*db.Post, error) {
	if strings.TrimSpace(ref.URL) == "" {
		return nil, ErrInvalidInput
	}

	unlock := s.locks.lock(id)
	defer unlock()

	var post *db.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := loadPost(tx, id, false)
		if err != nil {
			return err
		}
		if err := runPostChecks(existing, checks); err != nil {
			return err
		}

		url := strings.TrimSpace(ref.URL)
		name := strings.TrimSpace(ref.Name)
		if err := tx.Model(existing).Updates(map[string]interface{}{
			"image_url":    url,
			"image_name":   name,
			"image_width":  ref.Width,
			"image_height": ref.Height,
		}).Error; err != nil {
			return err
		}

		post, err = loadPost(tx, id, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ContentMutations.WithLabelValues("set_post_image").Inc()
	return post, nil
}

func (p PostPatch) updates() (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, ErrInvalidInput
		}
		updates["title"] = title
	}
	if p.Body != nil {
		if strings.TrimSpace(*p.Body) == "" {
			return nil, ErrInvalidInput
		}
		updates["body"] = *p.Body
	}
	return updates, nil
}

func validatePostInput(input PostInput) error {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Body) == "" {
		return ErrInvalidInput
	}
	return nil
}

func runPostChecks(post *db.Post, checks []PostCheck) error {
	for _, check := range checks {
		if check == nil {
			continue
		}
		if err := check(post); err != nil {
			return err
		}
	}
	return nil
}

func loadPost(tx *gorm.DB, id uint, withComments bool) (*db.Post, error) {
	query := tx
	if withComments {
		query = query.Preload("Comments", func(q *gorm.DB) *gorm.DB {
			return q.Order("id asc")
		})
	}

	var post db.Post
	if err := query.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if withComments && post.Comments == nil {
		post.Comments = []db.Comment{}
	}
	return &post, nil
}

// pluckCounter reads one integer column of a live post.
func pluckCounter(tx *gorm.DB, id uint, column string) (int64, error) {
	var values []int64
	if err := tx.Model(&db.Post{}).Where("id = ?", id).Pluck(column, &values).Error; err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, ErrPostNotFound
	}
	return values[0], nil
}
