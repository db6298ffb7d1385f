package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StorageKeyPrefix is the fixed prefix under which raw bearer tokens are
// persisted, one key per console session.
const StorageKeyPrefix = "citas:token:"

// TokenStore persists the raw bearer token of one console session. Only
// the encoded token is ever stored; the decoded identity lives in memory
// and dies with it.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// RedisTokenStore keeps the token in Redis so a console session survives a
// gateway restart. The TTL bounds how long an abandoned session's token
// lingers; the token's own exp still governs whether it is accepted.
type RedisTokenStore struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRedisTokenStore scopes a store to one session identifier.
func NewRedisTokenStore(rdb *redis.Client, sessionID string, ttl time.Duration) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb, key: StorageKeyPrefix + sessionID, ttl: ttl}
}

func (s *RedisTokenStore) Get(ctx context.Context) (string, error) {
	v, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *RedisTokenStore) Set(ctx context.Context, token string) error {
	return s.rdb.Set(ctx, s.key, token, s.ttl).Err()
}

func (s *RedisTokenStore) Clear(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key).Err()
}

// MemoryTokenStore is the in-process fallback used in tests and when Redis
// is unavailable; sessions then simply do not survive a restart.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryTokenStore() *MemoryTokenStore { return &MemoryTokenStore{} }

func (s *MemoryTokenStore) Get(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
