package notification

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

// WSEvent is pushed to connected clients.
type WSEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

const (
	EventNotification = "notification"
	EventReadAll      = "read_all"
)

func recipientKey(role string, userID int64) string {
	return fmt.Sprintf("%s:%d", role, userID)
}

// connection is a single websocket client. A user may hold several.
type connection struct {
	key  string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans notifications out to the recipient's open websockets.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]map[*connection]struct{}
	upgrader    websocket.Upgrader
	log         *zap.Logger
}

// NewHub accepts websocket upgrades from allowedOrigins, or from any origin when empty.
func NewHub(allowedOrigins []string, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Hub{
		connections: make(map[string]map[*connection]struct{}),
		log:         log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.connections[c.key]
	if !ok {
		set = make(map[*connection]struct{})
		h.connections[c.key] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.connections[c.key]
	if !ok {
		return
	}
	if _, ok := set[c]; ok {
		delete(set, c)
		close(c.send)
	}
	if len(set) == 0 {
		delete(h.connections, c.key)
	}
}

// Connected reports how many sockets the recipient has open.
func (h *Hub) Connected(role string, userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[recipientKey(role, userID)])
}

// Push sends event to every socket of the recipient. Slow clients are skipped.
func (h *Hub) Push(role string, userID int64, event *WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("marshal ws event", zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections[recipientKey(role, userID)] {
		select {
		case c.send <- data:
		default:
			h.log.Warn("ws client too slow, event dropped", zap.String("recipient", c.key))
		}
	}
}

// ServeHTTP upgrades the request and blocks until the client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request, role string, userID int64) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &connection{
		key:  recipientKey(role, userID),
		conn: conn,
		send: make(chan []byte, 64),
	}
	h.register(c)
	h.log.Debug("ws connected", zap.String("recipient", c.key))

	go h.writePump(c)
	h.readPump(c)
}

// readPump only keeps the connection alive. Clients do not send commands.
func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
		h.log.Debug("ws disconnected", zap.String("recipient", c.key))
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("ws read error", zap.String("recipient", c.key), zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
