package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/api/schedules/:id/ws", hub.ServeWS)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_BroadcastReachesOnlyThatSchedule(t *testing.T) {
	hub, base := startHub(t)

	watching := dial(t, base+"/api/schedules/7/ws")
	other := dial(t, base+"/api/schedules/8/ws")
	require.Eventually(t, func() bool { return hub.Clients(7) == 1 && hub.Clients(8) == 1 },
		2*time.Second, 10*time.Millisecond)

	hub.Broadcast(7, "roster_changed", map[string]any{"reason": "join"})

	watching.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := watching.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(raw, &ev))
	assert.Equal(t, "roster_changed", ev.EventType)
	assert.Equal(t, uint(7), ev.ScheduleID)
	assert.Equal(t, map[string]any{"reason": "join"}, ev.Data)

	other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err, "schedule 8 must not receive schedule 7 events")
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	hub, base := startHub(t)

	conn := dial(t, base+"/api/schedules/3/ws")
	require.Eventually(t, func() bool { return hub.Clients(3) == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients(3) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServeWS_RejectsBadID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/schedules/:id/ws", NewHub(nil).ServeWS)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/schedules/abc/ws", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBroadcast_NeverBlocks(t *testing.T) {
	hub := NewHub(nil)
	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBuffer+10; i++ {
			hub.Broadcast(1, "roster_changed", nil)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked without a running hub")
	}
}
