package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"lms-engagement-client/internal/logger"
	"lms-engagement-client/internal/middleware"
	"lms-engagement-client/internal/models"
	"lms-engagement-client/internal/status"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// client owns one browser connection. Only writePump writes to conn.
type client struct {
	userID models.ID
	conn   *websocket.Conn
	send   chan []byte
}

// Hub streams status lines to connected browsers. Lines arrive either from
// Redis pub/sub (one subscription per connected user) or directly through
// Deliver when Redis is not configured. Delivery never waits on a socket:
// a connection whose queue is full is dropped.
type Hub struct {
	mu          sync.RWMutex
	connections map[models.ID][]*client
	redisClient *redis.Client
	auth        *middleware.JWTAuth
	log         *logger.Logger
	cancelFuncs map[models.ID]context.CancelFunc
}

func NewHub(redisClient *redis.Client, auth *middleware.JWTAuth, log *logger.Logger) *Hub {
	return &Hub{
		connections: make(map[models.ID][]*client),
		redisClient: redisClient,
		auth:        auth,
		log:         log,
		cancelFuncs: make(map[models.ID]context.CancelFunc),
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Authenticate via token query param
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, err := h.auth.ParseUserID(tokenStr)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{userID: userID, conn: conn, send: make(chan []byte, sendBuffer)}
	h.registerConnection(c)
	go h.writePump(c)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// ConnectionCount reports the open connections for userID.
func (h *Hub) ConnectionCount(userID models.ID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[userID])
}

func (h *Hub) registerConnection(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[c.userID] = append(h.connections[c.userID], c)

	if h.redisClient != nil && len(h.connections[c.userID]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[c.userID] = cancel
		go h.subscribeToPubSub(ctx, c.userID)
	}

	h.log.Info("websocket connected", "user_id", c.userID, "total", len(h.connections[c.userID]))
}

// unregisterConnection is safe to call more than once for the same client.
func (h *Hub) unregisterConnection(c *client) {
	h.mu.Lock()
	found := false
	conns := h.connections[c.userID]
	for i, existing := range conns {
		if existing == c {
			h.connections[c.userID] = append(conns[:i], conns[i+1:]...)
			found = true
			break
		}
	}
	if found {
		close(c.send)
		if len(h.connections[c.userID]) == 0 {
			delete(h.connections, c.userID)
			if cancel, ok := h.cancelFuncs[c.userID]; ok {
				cancel()
				delete(h.cancelFuncs, c.userID)
			}
		}
	}
	h.mu.Unlock()

	c.conn.Close()
	if found {
		h.log.Info("websocket disconnected", "user_id", c.userID)
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("websocket write failed", "user_id", c.userID, "error", err)
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (h *Hub) subscribeToPubSub(ctx context.Context, userID models.ID) {
	pubsub := h.redisClient.Subscribe(ctx, status.Channel(userID), status.Channel(""))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(userID, []byte(msg.Payload))
		}
	}
}

// Deliver queues a line for its user's connections, or for everyone when the
// line has no user. Wire it as a status.Board listener; it never blocks on I/O.
func (h *Hub) Deliver(line status.Line) {
	data, err := json.Marshal(line)
	if err != nil {
		return
	}
	if !line.UserID.IsZero() {
		h.broadcast(line.UserID, data)
		return
	}

	h.mu.RLock()
	users := make([]models.ID, 0, len(h.connections))
	for id := range h.connections {
		users = append(users, id)
	}
	h.mu.RUnlock()
	for _, id := range users {
		h.broadcast(id, data)
	}
}

func (h *Hub) broadcast(userID models.ID, data []byte) {
	var slow []*client

	h.mu.RLock()
	for _, c := range h.connections[userID] {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn("websocket client too slow, dropping", "user_id", userID)
		h.unregisterConnection(c)
	}
}
