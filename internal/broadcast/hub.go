// Package broadcast pushes JSON messages to the websocket clients of the embedding page.
package broadcast

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub keeps websocket clients per product.
type Hub struct {
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]map[*websocket.Conn]bool
	latest  map[string][]byte
}

// NewHub returns an empty hub.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // embedded in third-party store pages
			},
		},
		clients: map[string]map[*websocket.Conn]bool{},
		latest:  map[string][]byte{},
	}
}

// Broadcast encodes v once and writes it to every client of a product.
// Clients that fail are dropped.
func (h *Hub) Broadcast(product string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.send(product, data)

	return nil
}

// Retain broadcasts v and keeps it as the message new clients receive on connect.
func (h *Hub) Retain(product string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest[product] = data
	h.send(product, data)

	return nil
}

// send writes data to the clients of a product. Caller holds the lock.
func (h *Hub) send(product string, data []byte) {
	for conn := range h.clients[product] {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("websocket write failed", "product", product, "err", err)
			conn.Close()
			delete(h.clients[product], conn)
		}
	}
}

// Clients returns the number of connected clients of a product.
func (h *Hub) Clients(product string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients[product])
}

// ServeWS upgrades the request and keeps the client registered until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, product string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "product", product, "err", err)
		return
	}

	h.mu.Lock()
	if h.clients[product] == nil {
		h.clients[product] = map[*websocket.Conn]bool{}
	}
	h.clients[product][conn] = true
	if data, ok := h.latest[product]; ok {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			delete(h.clients[product], conn)
			h.mu.Unlock()
			conn.Close()
			return
		}
	}
	h.mu.Unlock()

	h.log.Debug("websocket client connected", "product", product)

	defer func() {
		h.mu.Lock()
		delete(h.clients[product], conn)
		h.mu.Unlock()
		conn.Close()
		h.log.Debug("websocket client disconnected", "product", product)
	}()

	// Inbound messages are ignored; reading detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
