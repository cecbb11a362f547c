package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisStore keeps sessions in Redis with a TTL so expiry is handled by the server.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// ConnectStore returns a Redis backed store when addr is reachable and falls back to an
// in-process store otherwise.
func ConnectStore(ctx context.Context, addr string, ttl time.Duration) SessionStore {
	if addr == "" {
		log.Printf("[INFO] REDIS_ADDR not set; sessions are kept in memory")
		return NewMemoryStore(ttl)
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("[WARN] redis connection failed: %v (falling back to in-memory sessions)", err)
		_ = client.Close()
		return NewMemoryStore(ttl)
	}

	log.Printf("[INFO] redis connected at %s", addr)
	return NewRedisStore(client, ttl)
}

// Create issues a new token for id.
func (s *RedisStore) Create(ctx context.Context, id Identity) (string, error) {
	payload, err := json.Marshal(id)
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	if err := s.client.Set(ctx, sessionKeyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Get loads the identity for token.
func (s *RedisStore) Get(ctx context.Context, token string) (Identity, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return Identity{}, ErrSessionNotFound
	}
	if err != nil {
		return Identity{}, fmt.Errorf("load session: %w", err)
	}

	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return Identity{}, fmt.Errorf("decode session: %w", err)
	}
	return id, nil
}

// Delete removes the session. Deleting an unknown token is not an error.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}
