package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/events"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startHub(t *testing.T) (*ChannelHub, string) {
	t.Helper()
	hub := NewChannelHub(nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	e := echo.New()
	hub.RegisterRoutes(e.Group("/api/v1"))
	server := httptest.NewServer(e)
	t.Cleanup(func() {
		cancel()
		server.Close()
	})
	return hub, "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws/"
}

func dial(t *testing.T, hub *ChannelHub, url string, want int) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return hub.Clients() == want }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame map[string]any
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestChannelHub_ForwardsChannelEvents(t *testing.T) {
	hub, base := startHub(t)
	conn := dial(t, hub, base+"chan-a", 1)

	events.PublishToolCallEvent(entities.NewToolCallEvent("chan-b", "call_0", "sleep_data_tool", nil, "ignored", ""))
	events.PublishToolCallEvent(entities.NewToolCallEvent("chan-a", "call_1", "daily_steps_tool", map[string]any{"date": "2024-06-01"}, "10,234 steps", ""))

	frame := readFrame(t, conn)
	assert.Equal(t, "tool_call", frame["type"])
	assert.Equal(t, "chan-a", frame["channel_id"])
	data := frame["data"].(map[string]any)
	assert.Equal(t, "daily_steps_tool", data["tool_name"])
	assert.Equal(t, "finished", data["phase"])

	events.PublishClearedEvent("chan-a", true)
	frame = readFrame(t, conn)
	assert.Equal(t, "deleted", frame["type"])
}

func TestChannelHub_UnregistersOnDisconnect(t *testing.T) {
	hub, base := startHub(t)
	conn := dial(t, hub, base+"chan-c", 1)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestChannelHub_RejectsUnknownOrigin(t *testing.T) {
	hub := NewChannelHub([]string{"http://localhost:3000"}, zap.NewNop())
	req := httptest.NewRequest("GET", "/api/v1/ws/chan", nil)
	req.Header.Set("Origin", "http://evil.test")
	assert.False(t, hub.upgrader.CheckOrigin(req))

	req.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, hub.upgrader.CheckOrigin(req))
}
