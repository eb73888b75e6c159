package websocket

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/drujensen/wearables/internal/domain/events"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	sendBuffer   = 32
	writeTimeout = 10 * time.Second
)

// Frame is one event pushed to subscribers of a channel.
type Frame struct {
	Type      string `json:"type"`
	ChannelID string `json:"channel_id"`
	Data      any    `json:"data"`
}

type client struct {
	channelID string
	conn      *websocket.Conn
	send      chan Frame
}

// ChannelHub fans domain events out to the websocket clients watching
// each channel.
type ChannelHub struct {
	connections map[string][]*client
	register    chan *client
	unregister  chan *client
	broadcast   chan Frame
	stopped     chan struct{}
	clients     atomic.Int64
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

func NewChannelHub(allowedOrigins []string, logger *zap.Logger) *ChannelHub {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	return &ChannelHub{
		connections: make(map[string][]*client),
		register:    make(chan *client),
		unregister:  make(chan *client),
		broadcast:   make(chan Frame, sendBuffer),
		stopped:     make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(origins) == 0 {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
		logger: logger,
	}
}

// Run subscribes to domain events and serves the hub until ctx is done.
func (h *ChannelHub) Run(ctx context.Context) {
	unsubscribe := []func(){
		events.SubscribeToToolCallEvents(func(data events.ToolCallEventData) {
			h.publish(ctx, Frame{Type: "tool_call", ChannelID: data.Event.ChannelID, Data: data.Event})
		}),
		events.SubscribeToTranscriptEvents(func(data events.TranscriptEventData) {
			h.publish(ctx, Frame{Type: "messages", ChannelID: data.ChannelID, Data: data.Messages})
		}),
		events.SubscribeToClearedEvents(func(data events.ClearedEventData) {
			kind := "cleared"
			if data.Deleted {
				kind = "deleted"
			}
			h.publish(ctx, Frame{Type: kind, ChannelID: data.ChannelID})
		}),
	}
	defer func() {
		for _, fn := range unsubscribe {
			fn()
		}
		close(h.stopped)
	}()

	for {
		select {
		case <-ctx.Done():
			for channelID, conns := range h.connections {
				for _, c := range conns {
					close(c.send)
				}
				delete(h.connections, channelID)
			}
			h.clients.Store(0)
			return
		case c := <-h.register:
			h.connections[c.channelID] = append(h.connections[c.channelID], c)
			h.clients.Add(1)
		case c := <-h.unregister:
			h.remove(c)
		case frame := <-h.broadcast:
			// remove may reslice the entry, so walk a copy.
			for _, c := range append([]*client(nil), h.connections[frame.ChannelID]...) {
				select {
				case c.send <- frame:
				default:
					h.logger.Warn("Dropping slow websocket client", zap.String("channel_id", c.channelID))
					h.remove(c)
				}
			}
		}
	}
}

func (h *ChannelHub) remove(c *client) {
	conns := h.connections[c.channelID]
	for i, conn := range conns {
		if conn == c {
			h.connections[c.channelID] = append(conns[:i], conns[i+1:]...)
			close(c.send)
			h.clients.Add(-1)
			break
		}
	}
	if len(h.connections[c.channelID]) == 0 {
		delete(h.connections, c.channelID)
	}
}

func (h *ChannelHub) publish(ctx context.Context, frame Frame) {
	select {
	case h.broadcast <- frame:
	case <-ctx.Done():
	}
}

// Clients reports the number of connected websocket clients.
func (h *ChannelHub) Clients() int {
	return int(h.clients.Load())
}

func (h *ChannelHub) RegisterRoutes(e *echo.Group) {
	e.GET("/ws/:channel_id", h.Handle)
}

// Handle upgrades the request and streams the channel's events until the
// client disconnects.
func (h *ChannelHub) Handle(ctx echo.Context) error {
	channelID := ctx.Param("channel_id")
	conn, err := h.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return nil
	}
	defer conn.Close()

	c := &client{channelID: channelID, conn: conn, send: make(chan Frame, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.stopped:
		return nil
	case <-ctx.Request().Context().Done():
		return nil
	}
	h.logger.Debug("Websocket client connected", zap.String("channel_id", channelID))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for frame := range c.send {
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(frame); err != nil {
				h.logger.Debug("Websocket write failed", zap.Error(err))
				return
			}
		}
		// The hub let go of this client; unblock the reader below.
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	select {
	case h.unregister <- c:
	case <-h.stopped:
	}
	<-done
	h.logger.Debug("Websocket client disconnected", zap.String("channel_id", channelID))
	return nil
}
