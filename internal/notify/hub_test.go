package notify

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	e := echo.New()
	e.GET("/events", hub.HandleWS)
	srv := httptest.NewServer(e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The server registers the connection just after the handshake; keep
	// broadcasting until the message comes through.
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(10 * time.Millisecond):
				hub.Broadcast("record 5 updated by mgarcia")
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "record 5 updated by mgarcia", string(msg))
}

// A nil bridge is the degraded mode contract: every operation is a no-op.
func TestNilBridgeIsInert(t *testing.T) {
	var b *Bridge
	assert.NoError(t, b.Publish(context.Background(), "hello"))

	sub, err := b.Subscribe(func(string) {})
	assert.NoError(t, err)
	assert.Nil(t, sub)

	assert.NoError(t, b.Unsubscribe(sub))
	assert.NoError(t, b.Close())
}
