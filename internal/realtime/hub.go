package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"planivo-backend/internal/models"
)

// client wraps a websocket connection with a write mutex; gorilla/websocket
// allows only one concurrent writer per connection.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub tracks one websocket connection per signed-in user for pushing
// message notifications. A second connection for the same user replaces
// the first.
type Hub struct {
	clients map[string]*client
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
	}
}

func (h *Hub) Add(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[userID]; ok {
		old.conn.Close()
	}
	h.clients[userID] = &client{conn: conn}
	log.Printf("INFO user %s connected. Total clients: %d", userID, len(h.clients))
}

// Remove unregisters conn for userID. When the user has already
// reconnected, the map holds the replacement connection and the stale
// handler's removal must not touch it.
func (h *Hub) Remove(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[userID]; ok && c.conn == conn {
		delete(h.clients, userID)
		log.Printf("INFO user %s disconnected. Total clients: %d", userID, len(h.clients))
	}
}

func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// Notify pushes a message notification to the recipient if they hold an
// open websocket. A missing connection is not an error; the recipient
// will pick the message up from the unread counts instead.
func (h *Hub) Notify(userID string, n models.MessageNotification) error {
	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return nil
	}

	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	return c.write(data)
}
