package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/api"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/events"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/order"
	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/shelf"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating the
	// connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often the server sends WebSocket ping frames.
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-client outgoing message buffer depth.
	sendBufSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins — callers should apply CORS at the reverse-proxy level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is the JSON envelope sent to clients on every shelf change.
type Message struct {
	Event   string            `json:"event"`
	EventID string            `json:"event_id,omitempty"`
	Data    api.ShelfResponse `json:"data"`
}

// Hub manages WebSocket client connections and forwards shelf-change
// snapshots to all connected clients as the kitchen publishes them.
type Hub struct {
	store *shelf.Store
	bus   *events.Bus

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// client represents one connected WebSocket client. A non-empty kind narrows
// the stream to a single shelf.
type client struct {
	conn *websocket.Conn
	send chan []byte
	kind shelf.Kind
}

// New creates a Hub that reads current state from st and live changes from
// bus.
func New(st *shelf.Store, bus *events.Bus) *Hub {
	return &Hub{
		store:   st,
		bus:     bus,
		clients: make(map[*client]struct{}),
	}
}

// Run subscribes to the shelf-change bus and forwards every event to the
// connected clients. Run blocks until ctx is cancelled, then closes all
// active connections.
func (h *Hub) Run(ctx context.Context) {
	snaps, cancel := h.bus.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case snap := <-snaps:
			h.broadcast(snap)
		}
	}
}

// ServeHTTP upgrades the HTTP connection to WebSocket and serves the client.
// It sends the current snapshot of each subscribed shelf immediately on
// connect, then forwards live changes. Blocks until the connection closes.
// An optional ?shelf={kind} query narrows the stream to one shelf.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var kind shelf.Kind
	if q := r.URL.Query().Get("shelf"); q != "" {
		k, err := shelf.ParseKind(q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		kind = k
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufSize),
		kind: kind,
	}
	// Queue current state before registering so observers have data ahead of
	// the first change event, and so these sends cannot race a disconnect.
	now := time.Now()
	for _, k := range shelf.Kinds() {
		if c.kind != "" && c.kind != k {
			continue
		}
		data, err := h.encode("snapshot", "", k, h.store.Snapshot(k), now)
		if err != nil {
			continue
		}
		select {
		case c.send <- data:
		default:
		}
	}

	h.register(c)
	defer h.unregister(c)

	go c.writePump()
	c.readPump() // blocks until connection closes
}

// Count returns the number of currently connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// --- internal ---------------------------------------------------------------

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) broadcast(snap events.Snapshot) {
	data, err := h.encode("shelf_change", snap.EventID, snap.Kind, snap.Orders, snap.At)
	if err != nil {
		return
	}

	// Sending under the read lock is safe: send channels are only closed
	// under the write lock, so no send can race a close.
	h.mu.RLock()
	var slow []*client
	for c := range h.clients {
		if c.kind != "" && c.kind != snap.Kind {
			continue
		}
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	// Disconnect clients whose outgoing buffer is full.
	for _, c := range slow {
		h.unregister(c)
	}
}

func (h *Hub) encode(event, eventID string, k shelf.Kind, orders []*order.Order, now time.Time) ([]byte, error) {
	msg := Message{
		Event:   event,
		EventID: eventID,
		Data:    api.ToShelfResponse(k, h.store.Capacity(k), orders, now),
	}
	return json.Marshal(msg)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// --- client pumps -------------------------------------------------------------

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) readPump() {
	defer c.conn.Close()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
