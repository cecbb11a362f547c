package service

import (
	"context"
	"strings"

	"github.com/postboard/internal/db"
	"github.com/postboard/internal/identity"
	"github.com/postboard/internal/metrics"
)

// Gate resolves the caller behind a session token and guards every mutating content
// operation. Requests without a resolvable identity never reach the store.
type Gate struct {
	resolver identity.Resolver
	store    *ContentStore
}

// NewGate creates a Gate in front of store.
func NewGate(resolver identity.Resolver, store *ContentStore) *Gate {
	return &Gate{resolver: resolver, store: store}
}

// Authenticate resolves token or reports ErrUnauthenticated.
func (g *Gate) Authenticate(ctx context.Context, token string) (identity.Identity, error) {
	if g.resolver == nil {
		return identity.Identity{}, ErrUnauthenticated
	}
	caller, ok := g.resolver.Resolve(ctx, token)
	if !ok {
		return identity.Identity{}, ErrUnauthenticated
	}
	return caller, nil
}

func (g *Gate) authenticate(ctx context.Context, operation, token string) (identity.Identity, error) {
	caller, err := g.Authenticate(ctx, token)
	if err != nil {
		metrics.GateRejections.WithLabelValues(operation, "unauthenticated").Inc()
		return identity.Identity{}, err
	}
	return caller, nil
}

// CreatePost validates input and stores a post authored by the caller.
func (g *Gate) CreatePost(ctx context.Context, token string, input PostInput) (*db.Post, error) {
	caller, err := g.authenticate(ctx, "create_post", token)
	if err != nil {
		return nil, err
	}
	if err := validatePostInput(input); err != nil {
		return nil, err
	}
	return g.store.CreatePost(ctx, caller, input)
}

// UpdatePost lets the post's author merge new fields into it.
func (g *Gate) UpdatePost(ctx context.Context, token string, postID uint, patch PostPatch) (*db.Post, error) {
	caller, err := g.authenticate(ctx, "update_post", token)
	if err != nil {
		return nil, err
	}
	if _, err := patch.updates(); err != nil {
		return nil, err
	}
	return g.store.UpdatePost(ctx, postID, patch, g.postOwnedBy("update_post", caller))
}

// DeletePost lets the post's author delete it. A missing post reports false.
func (g *Gate) DeletePost(ctx context.Context, token string, postID uint) (bool, error) {
	caller, err := g.authenticate(ctx, "delete_post", token)
	if err != nil {
		return false, err
	}
	return g.store.DeletePost(ctx, postID, g.postOwnedBy("delete_post", caller))
}

// SetPostImage lets the post's author attach an uploaded image.
func (g *Gate) SetPostImage(ctx context.Context, token string, postID uint, ref ImageRef) (*db.Post, error) {
	caller, err := g.authenticate(ctx, "set_post_image", token)
	if err != nil {
		return nil, err
	}
	return g.store.SetPostImage(ctx, postID, ref, g.postOwnedBy("set_post_image", caller))
}

// AddComment appends a comment authored by the caller.
func (g *Gate) AddComment(ctx context.Context, token string, postID uint, content string) (*db.Comment, error) {
	caller, err := g.authenticate(ctx, "add_comment", token)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrInvalidInput
	}
	return g.store.AddComment(ctx, postID, caller, content)
}

// UpdateComment lets the comment's author edit it.
func (g *Gate) UpdateComment(ctx context.Context, token string, postID, commentID uint, content string) (*db.Comment, error) {
	caller, err := g.authenticate(ctx, "update_comment", token)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrInvalidInput
	}
	return g.store.UpdateComment(ctx, postID, commentID, content, func(_ *db.Post, comment *db.Comment) error {
		if comment.Author.UserID != caller.UserID {
			metrics.GateRejections.WithLabelValues("update_comment", "forbidden").Inc()
			return ErrForbidden
		}
		return nil
	})
}

// DeleteComment lets the comment's author, or the author of the post it sits under, delete it.
func (g *Gate) DeleteComment(ctx context.Context, token string, postID, commentID uint) (bool, error) {
	caller, err := g.authenticate(ctx, "delete_comment", token)
	if err != nil {
		return false, err
	}
	return g.store.DeleteComment(ctx, postID, commentID, func(post *db.Post, comment *db.Comment) error {
		if comment.Author.UserID != caller.UserID && post.Author.ID != caller.UserID {
			metrics.GateRejections.WithLabelValues("delete_comment", "forbidden").Inc()
			return ErrForbidden
		}
		return nil
	})
}

// ToggleLike flips the caller's like on a post.
func (g *Gate) ToggleLike(ctx context.Context, token string, postID uint) (LikeState, error) {
	caller, err := g.authenticate(ctx, "toggle_like", token)
	if err != nil {
		return LikeState{}, err
	}
	return g.store.ToggleLike(ctx, postID, caller.UserID)
}

// LikeStatus reports whether the caller likes a post.
func (g *Gate) LikeStatus(ctx context.Context, token string, postID uint) (bool, error) {
	caller, err := g.authenticate(ctx, "like_status", token)
	if err != nil {
		return false, err
	}
	return g.store.LikeStatus(ctx, postID, caller.UserID)
}

// IncrementCommentCount adjusts the displayed comment counter for an authenticated caller.
func (g *Gate) IncrementCommentCount(ctx context.Context, token string, postID uint) (int64, error) {
	if _, err := g.authenticate(ctx, "increment_comment_count", token); err != nil {
		return 0, err
	}
	return g.store.IncrementCommentCount(ctx, postID)
}

// DecrementCommentCount adjusts the displayed comment counter for an authenticated caller.
func (g *Gate) DecrementCommentCount(ctx context.Context, token string, postID uint) (int64, error) {
	if _, err := g.authenticate(ctx, "decrement_comment_count", token); err != nil {
		return 0, err
	}
	return g.store.DecrementCommentCount(ctx, postID)
}

func (g *Gate) postOwnedBy(operation string, caller identity.Identity) PostCheck {
	return func(post *db.Post) error {
		if post.Author.ID != caller.UserID {
			metrics.GateRejections.WithLabelValues(operation, "forbidden").Inc()
			return ErrForbidden
		}
		return nil
	}
}
