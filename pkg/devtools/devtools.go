// Package devtools streams event-hub traffic to WebSocket clients.
//
// A Bridge attached to an events.Hub forwards every element-created and
// render notification as a JSON Message, so a browser panel or a CLI can
// watch an app build its page:
//
//	bridge := devtools.New()
//	bridge.Attach(app.Hub())
//	mux.HandleFunc("/_xwui/events", bridge.HandleWebSocket)
package devtools

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/xwui-dev/xwui/pkg/events"
	"github.com/xwui-dev/xwui/pkg/metrics"
)

// MessageType identifies a Message.
type MessageType string

const (
	TypeCreated MessageType = "created"
	TypeRender  MessageType = "render"
)

// Message is sent to clients via WebSocket.
type Message struct {
	Type      MessageType `json:"type"`
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`

	// Set for created messages.
	Tag        string            `json:"tag,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	ChildCount int               `json:"childCount,omitempty"`

	// Set for render messages.
	Summary *events.RenderSummary `json:"summary,omitempty"`
}

// Bridge manages WebSocket clients and broadcasts hub events to them.
// It is safe for concurrent use.
type Bridge struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	writeMu  sync.Mutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the bridge logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMetrics tracks connected clients.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bridge) { b.metrics = m }
}

// WithCheckOrigin restricts which origins may connect. The default
// accepts all origins.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(b *Bridge) { b.upgrader.CheckOrigin = fn }
}

// New creates a bridge with no clients.
func New(opts ...Option) *Bridge {
	b := &Bridge{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach subscribes the bridge to hub. The returned function detaches it.
func (b *Bridge) Attach(hub *events.Hub) (detach func()) {
	createdID := hub.OnCreated(func(d *events.Detail, p events.CreatedPayload) {
		b.Broadcast(Message{
			Type:       TypeCreated,
			Event:      d.Name,
			Timestamp:  d.Timestamp,
			Tag:        p.Tag,
			Attributes: p.Attributes,
			ChildCount: p.ChildCount,
		})
	})
	renderID := hub.OnRender(func(d *events.Detail, _ events.RenderPayload) {
		b.Broadcast(Message{
			Type:      TypeRender,
			Event:     d.Name,
			Timestamp: d.Timestamp,
			Summary:   d.Summary,
		})
	})
	return func() {
		hub.Unsubscribe(events.ElementCreated, createdID)
		hub.Unsubscribe(events.Render, renderID)
	}
}

// HandleWebSocket upgrades the request and keeps the client registered
// until it disconnects.
func (b *Bridge) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := b.upgrader.Upgrade(w, req, nil)
	if err != nil {
		b.logger.Debug("devtools upgrade failed", "error", err)
		return
	}

	b.mu.Lock()
	b.clients[conn] = true
	b.mu.Unlock()
	b.metrics.DevtoolsConnected(1)

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	b.remove(conn)
}

// Broadcast sends msg to all connected clients. Clients that fail a write
// are dropped.
func (b *Bridge) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		b.logger.Warn("devtools message not encodable", "type", msg.Type, "error", err)
		return
	}

	b.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(b.clients))
	for client := range b.clients {
		clients = append(clients, client)
	}
	b.mu.RUnlock()

	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			b.remove(client)
		}
	}
}

func (b *Bridge) remove(conn *websocket.Conn) {
	b.mu.Lock()
	_, ok := b.clients[conn]
	delete(b.clients, conn)
	b.mu.Unlock()
	if ok {
		b.metrics.DevtoolsConnected(-1)
		conn.Close()
	}
}

// ClientCount returns the number of connected clients.
func (b *Bridge) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Close closes all client connections.
func (b *Bridge) Close() {
	b.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(b.clients))
	for client := range b.clients {
		clients = append(clients, client)
	}
	b.mu.RUnlock()

	for _, client := range clients {
		b.remove(client)
	}
}
