package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"shophub/internal/domain"
	"github.com/redis/go-redis/v9"
)

// snapshotVersion is the current envelope format. Bumping it requires a
// migration branch in decodeSnapshot.
const snapshotVersion = 1

// envelope wraps the persisted item list so future format changes can migrate
// old snapshots instead of discarding them.
type envelope struct {
	Version int               `json:"version"`
	Items   []domain.CartItem `json:"items"`
}

func encodeSnapshot(items []domain.CartItem) ([]byte, error) {
	return json.Marshal(envelope{Version: snapshotVersion, Items: items})
}

// decodeSnapshot reads a versioned envelope. A bare top-level array is the
// legacy unversioned format and is accepted as version 1 content; it gets
// rewritten versioned on the next save.
func decodeSnapshot(data []byte) ([]domain.CartItem, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Version > 0 {
		if env.Version > snapshotVersion {
			return nil, fmt.Errorf("unsupported snapshot version %d", env.Version)
		}
		return env.Items, nil
	}

	var legacy []domain.CartItem
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return legacy, nil
}

// SnapshotStore persists serialized cart snapshots under a well-known key,
// the server-side analog of browser local storage.
type SnapshotStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

type memoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore returns a process-local SnapshotStore.
func NewMemoryStore() SnapshotStore {
	return &memoryStore{blobs: make(map[string][]byte)}
}

func (s *memoryStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *memoryStore) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[key] = stored
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, key)
	return nil
}

const redisKeyPrefix = "cart:"

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore keeps snapshots in redis so carts survive process restarts.
// A zero ttl stores snapshots without expiry.
func NewRedisStore(client *redis.Client, ttl time.Duration) SnapshotStore {
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *redisStore) Save(ctx context.Context, key string, data []byte) error {
	return s.client.Set(ctx, redisKeyPrefix+key, data, s.ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, redisKeyPrefix+key).Err()
}
