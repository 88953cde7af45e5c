package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wireMessage struct {
	Type    string          `json:"type"`
	Payload models.Snapshot `json:"payload"`
}

func startHub(t *testing.T, latest *models.Snapshot) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = hub.Run(ctx) }()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, latest, w, r, logger.Discard())
	}))
	t.Cleanup(srv.Close)
	return hub, srv, cancel
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestPublishReachesClients(t *testing.T) {
	hub, srv, cancel := startHub(t, nil)
	defer cancel()

	a := dial(t, srv)
	b := dial(t, srv)
	waitForClients(t, hub, 2)

	hub.Publish(&models.Snapshot{CycleID: "c-1", Mode: "mock"})

	for _, conn := range []*websocket.Conn{a, b} {
		var msg wireMessage
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, MessageSnapshot, msg.Type)
		assert.Equal(t, "c-1", msg.Payload.CycleID)
	}
}

func TestNewClientGetsLatestSnapshot(t *testing.T) {
	_, srv, cancel := startHub(t, &models.Snapshot{CycleID: "existing"})
	defer cancel()

	conn := dial(t, srv)
	var msg wireMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "existing", msg.Payload.CycleID)
}

func TestClientDisconnectUnregisters(t *testing.T) {
	hub, srv, cancel := startHub(t, nil)
	defer cancel()

	conn := dial(t, srv)
	waitForClients(t, hub, 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, 0)
}

func TestBroadcastNeverBlocks(t *testing.T) {
	hub := NewHub(nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(&models.Snapshot{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked without a running hub")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	hub, srv, cancel := startHub(t, nil)
	dial(t, srv)
	waitForClients(t, hub, 1)

	cancel()
	waitForClients(t, hub, 0)
}

type countingRefresher struct{ n atomic.Int32 }

func (r *countingRefresher) Trigger() { r.n.Add(1) }

func TestClientRefreshRequest(t *testing.T) {
	refresher := &countingRefresher{}
	hub := NewHub(nil)
	hub.SetRefresher(refresher)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.Run(ctx) }()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, nil, w, r, logger.Discard())
	}))
	defer srv.Close()

	conn := dial(t, srv)
	waitForClients(t, hub, 1)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type": 7}`)))
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "HELLO"}))
	require.NoError(t, conn.WriteJSON(map[string]string{"type": MessageRefresh}))

	require.Eventually(t, func() bool { return refresher.n.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, hub.ClientCount(), "bad input does not drop the client")
}
