package session

import (
	"context"
	"sync"
	"time"
)

// loadingTTL is how long the transient loading flag stays up after an
// explicit Set before clearing itself.
const loadingTTL = time.Second

// Event is delivered to subscribers on every state transition.
type Event struct {
	Authenticated bool
	Identity      *Identity
}

// Store is the credential state container for one console session. It
// holds at most one decoded identity at a time, mutated only through
// Bootstrap, Login, Logout and Set, and notifies subscribers on each
// transition. The raw token is persisted through the TokenStore; the
// decoded identity never outlives the process.
type Store struct {
	tokens TokenStore
	now    func() time.Time

	mu           sync.RWMutex
	identity     *Identity
	token        string
	loading      bool
	loadingTimer *time.Timer
	subs         map[chan Event]struct{}
}

// NewStore builds an unauthenticated store over the given token
// persistence. Call Bootstrap to pick up a previously stored credential.
func NewStore(tokens TokenStore) *Store {
	return &Store{
		tokens: tokens,
		now:    time.Now,
		subs:   make(map[chan Event]struct{}),
	}
}

// Bootstrap reads the stored token, if any, and decodes it. A missing,
// malformed or expired token leaves the store unauthenticated; that is an
// expected condition, not an error.
func (s *Store) Bootstrap(ctx context.Context) {
	token, err := s.tokens.Get(ctx)
	if err != nil || token == "" {
		return
	}
	id, err := DecodeIdentity(token, s.now())
	if err != nil {
		return
	}
	s.mu.Lock()
	s.identity = id
	s.token = token
	s.mu.Unlock()
}

// Current returns the decoded identity and whether one is held.
func (s *Store) Current() (*Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.identity != nil
}

// Token returns the raw bearer credential of the current session, or ""
// when unauthenticated. It satisfies the API clients' token source.
func (s *Store) Token(context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Loading reports whether a transient update-then-relogin flow is in
// progress.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Login validates and installs a freshly exchanged token. On success the
// raw token is persisted and subscribers are notified; on failure the
// store stays in its previous state.
func (s *Store) Login(ctx context.Context, token string) (*Identity, error) {
	id, err := DecodeIdentity(token, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Set(ctx, token); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.identity = id
	s.token = token
	s.mu.Unlock()
	s.notify()
	return id, nil
}

// Logout clears the stored token and drops the identity. Subscribers are
// notified of the transition.
func (s *Store) Logout(ctx context.Context) {
	_ = s.tokens.Clear(ctx)
	s.mu.Lock()
	s.identity = nil
	s.token = ""
	s.mu.Unlock()
	s.notify()
}

// Set replaces the current identity without a fresh decode, e.g. after a
// profile update whose re-login is still in flight. When loading is true
// the flag clears itself after a fixed duration.
func (s *Store) Set(id *Identity, loading bool) {
	s.mu.Lock()
	s.identity = id
	if id == nil {
		s.token = ""
	}
	if s.loadingTimer != nil {
		s.loadingTimer.Stop()
		s.loadingTimer = nil
	}
	s.loading = loading
	if loading {
		s.loadingTimer = time.AfterFunc(loadingTTL, func() {
			s.mu.Lock()
			s.loading = false
			s.loadingTimer = nil
			s.mu.Unlock()
		})
	}
	s.mu.Unlock()
	s.notify()
}

// Subscribe registers an observer channel. Deliveries are best-effort: a
// subscriber that is not draining misses events instead of blocking state
// transitions.
func (s *Store) Subscribe() chan Event {
	ch := make(chan Event, 8)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes an observer channel and closes it.
func (s *Store) Unsubscribe(ch chan Event) {
	s.mu.Lock()
	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	ev := Event{Authenticated: s.identity != nil, Identity: s.identity}
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.RUnlock()
}
