// Package identity resolves opaque session tokens to the caller they were issued for.
package identity

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
)

// ErrSessionNotFound is returned by a SessionStore when the token is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// DefaultTTL mirrors the one hour lifetime of the session cookie.
const DefaultTTL = time.Hour

// Identity is the authenticated caller held by a live session.
type Identity struct {
	UserID    uint   `json:"userId"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname,omitempty"`
	AvatarRef string `json:"profileImage"`
}

// DisplayName is the name shown next to content the caller authors.
func (i Identity) DisplayName() string {
	if name := strings.TrimSpace(i.Nickname); name != "" {
		return name
	}
	return i.Username
}

// SessionStore persists sessions keyed by token.
type SessionStore interface {
	Create(ctx context.Context, id Identity) (string, error)
	Get(ctx context.Context, token string) (Identity, error)
	Delete(ctx context.Context, token string) error
}

// Resolver maps a session token to an Identity. It never mutates the store.
type Resolver interface {
	Resolve(ctx context.Context, token string) (Identity, bool)
}

// StoreResolver resolves tokens against a SessionStore.
type StoreResolver struct {
	store SessionStore
}

// NewResolver creates a resolver backed by store.
func NewResolver(store SessionStore) *StoreResolver {
	return &StoreResolver{store: store}
}

// Resolve reports the identity bound to token. Missing, expired and malformed tokens,
// as well as store faults, all resolve to unauthenticated.
func (r *StoreResolver) Resolve(ctx context.Context, token string) (Identity, bool) {
	token = strings.TrimSpace(token)
	if token == "" || r == nil || r.store == nil {
		return Identity{}, false
	}

	id, err := r.store.Get(ctx, token)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			log.Printf("[WARN] session lookup failed: %v", err)
		}
		return Identity{}, false
	}
	if id.UserID == 0 {
		return Identity{}, false
	}
	return id, true
}
