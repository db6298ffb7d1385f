package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Manager hands out one Store per console session identifier. Stores are
// cached in memory and bootstrap themselves from the token persisted under
// their session's storage key, so a returning browser picks its credential
// back up. With no Redis available the manager falls back to in-memory
// token stores and sessions die with the process.
type Manager struct {
	newTokens func(sessionID string) TokenStore

	mu     sync.Mutex
	stores map[string]*managedStore
}

// managedStore pairs a store with its one-time bootstrap so concurrent
// first requests for a session all wait for the same bootstrap.
type managedStore struct {
	boot sync.Once
	st   *Store
}

func NewManager(rdb *redis.Client, ttl time.Duration) *Manager {
	return &Manager{
		newTokens: func(sessionID string) TokenStore {
			if rdb != nil {
				return NewRedisTokenStore(rdb, sessionID, ttl)
			}
			return NewMemoryTokenStore()
		},
		stores: make(map[string]*managedStore),
	}
}

// Store returns the credential store for a session, creating it on first
// sight. The bootstrap completes before the store is handed out, so a
// returning session is never observed in its pre-bootstrap unauthenticated
// state, however the first requests race.
func (m *Manager) Store(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	ms, ok := m.stores[sessionID]
	if !ok {
		ms = &managedStore{st: NewStore(m.newTokens(sessionID))}
		m.stores[sessionID] = ms
	}
	m.mu.Unlock()

	ms.boot.Do(func() { ms.st.Bootstrap(ctx) })
	return ms.st
}

// Drop forgets a session's in-memory store; its persisted token has
// already been cleared by Logout.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	delete(m.stores, sessionID)
	m.mu.Unlock()
}

// NewSessionID mints an unguessable session identifier.
func NewSessionID() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
