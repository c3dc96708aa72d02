package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/obsidianstack/launchdash/server/internal/api"
	"github.com/obsidianstack/launchdash/server/internal/metrics"
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

	// maxRequestSize caps one incoming selector request.
	maxRequestSize = 1024
)

// Event names.
const (
	EventLayout = "layout"
	EventView   = "view"
	EventError  = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins; restrict at the reverse proxy if needed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Request is one selector change sent by a client.
type Request struct {
	Seq        uint64   `json:"seq"`
	Site       string   `json:"site"`
	PayloadMin *float64 `json:"payload_min"`
	PayloadMax *float64 `json:"payload_max"`
}

// Message is the JSON envelope sent to clients.
type Message struct {
	Event string      `json:"event"`
	Seq   uint64      `json:"seq,omitempty"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Hub manages WebSocket clients. Each client sends selector requests and
// gets back computed views; layout changes are broadcast to everyone.
type Hub struct {
	viewer  *api.Viewer
	metrics *metrics.Metrics

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// client represents one connected WebSocket client.
type client struct {
	conn *websocket.Conn
	send chan []byte

	// mailbox holds at most one pending request. A newer request replaces
	// an older one that has not been picked up yet.
	mailbox chan Request
}

// New creates a Hub that answers requests from v. m may be nil.
func New(v *api.Viewer, m *metrics.Metrics) *Hub {
	return &Hub{
		viewer:  v,
		metrics: m,
		clients: make(map[*client]struct{}),
	}
}

// Run blocks until ctx is cancelled, then closes all active connections.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// ServeHTTP upgrades the HTTP connection to WebSocket and serves the client.
// It sends the current layout immediately on connect, then answers each
// request with a view or an error. Blocks until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	c := &client{
		conn:    conn,
		send:    make(chan []byte, sendBufSize),
		mailbox: make(chan Request, 1),
	}
	h.register(c)
	defer h.unregister(c)

	if data, err := h.layoutMessage(); err == nil {
		h.deliver(c, data)
	}

	done := make(chan struct{})
	defer close(done)

	go c.writePump()
	go h.computeLoop(c, done)
	h.readPump(c) // blocks until connection closes
}

// BroadcastLayout sends the viewer's current layout to every client.
func (h *Hub) BroadcastLayout() {
	data, err := h.layoutMessage()
	if err != nil {
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if !h.deliver(c, data) {
			// Client's outgoing buffer is full; disconnect it.
			h.unregister(c)
		}
	}
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

// deliver queues data for c. It reports false when c is gone or its buffer
// is full. Holding the read lock keeps unregister from closing c.send
// underneath the send.
func (h *Hub) deliver(c *client, data []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) layoutMessage() ([]byte, error) {
	return json.Marshal(Message{Event: EventLayout, Data: h.viewer.Layout()})
}

// post puts req in the client's mailbox, replacing a pending request.
// It reports whether a pending request was replaced. Only readPump posts,
// so after draining the slot the next send cannot block.
func (c *client) post(req Request) (superseded bool) {
	for {
		select {
		case c.mailbox <- req:
			return superseded
		default:
		}
		select {
		case <-c.mailbox:
			superseded = true
		default:
		}
	}
}

// computeLoop answers mailbox requests one at a time until done is closed.
func (h *Hub) computeLoop(c *client, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case req := <-c.mailbox:
			data, err := json.Marshal(h.answer(req))
			if err != nil {
				slog.Error("ws: marshal reply", "seq", req.Seq, "err", err)
				continue
			}
			if !h.deliver(c, data) {
				h.unregister(c)
				return
			}
		}
	}
}

func (h *Hub) answer(req Request) Message {
	crit, err := api.ResolveCriteria(h.viewer.Dataset(), req.Site, req.PayloadMin, req.PayloadMax)
	if err != nil {
		return Message{Event: EventError, Seq: req.Seq, Error: err.Error()}
	}
	return Message{Event: EventView, Seq: req.Seq, Data: h.viewer.Respond(crit)}
}

// writePump drains the client's send channel and forwards messages to the
// WebSocket connection. It also sends periodic ping frames. Runs in its own
// goroutine per client.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// Channel was closed (hub is shutting down or client removed).
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump decodes selector requests into the client's mailbox and handles
// pong and close frames. Malformed requests get an error reply directly.
// Blocks until the connection closes.
func (h *Hub) readPump(c *client) {
	defer c.conn.Close()
	c.conn.SetReadLimit(maxRequestSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var req Request
		if err := json.Unmarshal(raw, &req); err != nil {
			if data, mErr := json.Marshal(Message{Event: EventError, Error: "invalid request: " + err.Error()}); mErr == nil {
				h.deliver(c, data)
			}
			continue
		}
		if h.metrics != nil {
			h.metrics.WSRequest()
		}
		if c.post(req) && h.metrics != nil {
			h.metrics.WSSuperseded()
		}
	}
}
