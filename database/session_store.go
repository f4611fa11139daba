package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/madebyaris/woo-headless-sub002/models"
)

// SessionStore persists checkout flow snapshots between requests.
// Persistence is best-effort from the flow's point of view; the storage
// medium is an external concern.
type SessionStore interface {
	Persist(ctx context.Context, sessionID string, state models.FlowState) error
	// Load returns (nil, nil) when no snapshot exists.
	Load(ctx context.Context, sessionID string) (*models.FlowState, error)
	Clear(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps flow snapshots as JSON blobs with a TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) getKey(sessionID string) string {
	return fmt.Sprintf("checkout:session:%s", sessionID)
}

// Persist stores the flow snapshot, refreshing its TTL.
func (s *RedisSessionStore) Persist(ctx context.Context, sessionID string, state models.FlowState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.getKey(sessionID), data, s.ttl).Err()
}

// Load fetches a snapshot; a missing key is not an error.
func (s *RedisSessionStore) Load(ctx context.Context, sessionID string) (*models.FlowState, error) {
	data, err := s.client.Get(ctx, s.getKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var state models.FlowState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Clear removes a snapshot.
func (s *RedisSessionStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.getKey(sessionID)).Err()
}

var _ SessionStore = (*RedisSessionStore)(nil)
