package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowTokenStore widens the bootstrap window so racing first requests are
// actually concurrent with it.
type slowTokenStore struct {
	TokenStore
}

func (s slowTokenStore) Get(ctx context.Context) (string, error) {
	time.Sleep(20 * time.Millisecond)
	return s.TokenStore.Get(ctx)
}

// Concurrent first requests for the same session must all get the same
// store, and none may see it before its persisted credential is loaded.
func TestManagerBootstrapBeforePublish(t *testing.T) {
	claims := validClaims()
	claims["exp"] = float64(time.Now().Add(time.Hour).Unix())
	tokens := NewMemoryTokenStore()
	require.NoError(t, tokens.Set(context.Background(), signToken(t, claims)))

	mgr := NewManager(nil, time.Hour)
	mgr.newTokens = func(string) TokenStore { return slowTokenStore{tokens} }

	stores := make([]*Store, 8)
	var wg sync.WaitGroup
	for i := range stores {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stores[i] = mgr.Store(context.Background(), "sid-1")
		}(i)
	}
	wg.Wait()

	for _, st := range stores {
		require.Same(t, stores[0], st)
		id, ok := st.Current()
		require.True(t, ok)
		assert.Equal(t, "aperez", id.Username)
	}
}

func TestManagerSeparateSessions(t *testing.T) {
	mgr := NewManager(nil, time.Hour)

	a := mgr.Store(context.Background(), "sid-a")
	b := mgr.Store(context.Background(), "sid-b")
	assert.NotSame(t, a, b)
	assert.Same(t, a, mgr.Store(context.Background(), "sid-a"))

	mgr.Drop("sid-a")
	assert.NotSame(t, a, mgr.Store(context.Background(), "sid-a"))
}
