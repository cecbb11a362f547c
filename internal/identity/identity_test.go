package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIdentity = Identity{
	UserID:    7,
	Email:     "u7@example.com",
	Username:  "u7",
	Nickname:  "Seven",
	AvatarRef: "/avatars/u7.png",
}

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t, time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, testIdentity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := store.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, testIdentity, got)

	require.NoError(t, store.Delete(ctx, token))
	_, err = store.Get(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStoreExpires(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, testIdentity)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Get(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreExpires(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	token, err := store.Create(ctx, testIdentity)
	require.NoError(t, err)

	got, err := store.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, testIdentity.UserID, got.UserID)

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

type failingStore struct{}

func (failingStore) Create(context.Context, Identity) (string, error) {
	return "", errors.New("boom")
}

func (failingStore) Get(context.Context, string) (Identity, error) {
	return Identity{}, errors.New("connection refused")
}

func (failingStore) Delete(context.Context, string) error { return nil }

func TestResolverOutcomes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	token, err := store.Create(ctx, testIdentity)
	require.NoError(t, err)

	resolver := NewResolver(store)

	tests := []struct {
		name     string
		resolver *StoreResolver
		token    string
		wantOK   bool
	}{
		{name: "live session", resolver: resolver, token: token, wantOK: true},
		{name: "padded token", resolver: resolver, token: "  " + token + " ", wantOK: true},
		{name: "empty token", resolver: resolver, token: "", wantOK: false},
		{name: "unknown token", resolver: resolver, token: "not-a-session", wantOK: false},
		{name: "store failure", resolver: NewResolver(failingStore{}), token: token, wantOK: false},
		{name: "nil resolver", resolver: nil, token: token, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := tt.resolver.Resolve(ctx, tt.token)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, testIdentity, id)
			} else {
				assert.Zero(t, id.UserID)
			}
		})
	}
}

func TestConnectStoreFallsBackToMemory(t *testing.T) {
	store := ConnectStore(context.Background(), "", time.Hour)
	_, ok := store.(*MemoryStore)
	assert.True(t, ok, "expected in-memory store when no address is configured")

	mr := miniredis.RunT(t)
	store = ConnectStore(context.Background(), mr.Addr(), time.Hour)
	_, ok = store.(*RedisStore)
	assert.True(t, ok, "expected redis store when the server answers PING")
}

func TestDisplayNamePrefersNickname(t *testing.T) {
	assert.Equal(t, "Seven", testIdentity.DisplayName())
	assert.Equal(t, "u7", Identity{Username: "u7", Nickname: "  "}.DisplayName())
}
