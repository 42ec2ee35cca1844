package users

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"shophub/internal/domain"
)

// TokenStore persists issued bearer tokens. Implementations must expire
// entries at their deadline.
type TokenStore interface {
	Save(ctx context.Context, token string, userID int64, ttl time.Duration) error
	Get(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

type memoryTokenEntry struct {
	userID    int64
	expiresAt time.Time
}

type memoryTokenStore struct {
	mu      sync.Mutex
	entries map[string]memoryTokenEntry
	now     func() time.Time
}

// NewMemoryTokenStore keeps sessions in process memory; they vanish on
// restart, as browser-session cookies would.
func NewMemoryTokenStore() TokenStore {
	return &memoryTokenStore{entries: make(map[string]memoryTokenEntry), now: time.Now}
}

func (s *memoryTokenStore) Save(_ context.Context, token string, userID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[token] = memoryTokenEntry{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *memoryTokenStore) Get(_ context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[token]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, token)
		return 0, domain.ErrNotFound
	}
	return entry.userID, nil
}

func (s *memoryTokenStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, token)
	return nil
}

const tokenKeyPrefix = "session:"

type redisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore keeps sessions in redis so logins survive restarts and
// can be shared across instances.
func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func (s *redisTokenStore) Save(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKeyPrefix+token, userID, ttl).Err()
}

func (s *redisTokenStore) Get(ctx context.Context, token string) (int64, error) {
	raw, err := s.client.Get(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (s *redisTokenStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, tokenKeyPrefix+token).Err()
}

// newToken returns an unguessable opaque bearer token.
func newToken() string {
	return uuid.NewString() + uuid.NewString()
}
