package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/chainvault-network/custodian/engine"
)

// Hub fans submission events out to connected WebSocket clients
type Hub struct {
	clients    map[*wsClient]bool
	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan []byte
	log        *logrus.Logger
}

// wsClient represents one connected WebSocket consumer
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a Hub; call Run in its own goroutine
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[*wsClient]bool),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan []byte, 100),
		log:        log,
	}
}

// Run owns the client set and dispatches broadcasts
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.log.Infof("WebSocket client connected. Total clients: %d", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.log.Infof("WebSocket client disconnected. Total clients: %d", len(h.clients))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Publish queues a submission event for broadcast. Never blocks the
// engine; if the hub is saturated the event is dropped.
func (h *Hub) Publish(ev engine.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Warnf("Failed to encode event: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// serve upgrades an HTTP request and attaches the connection to the hub
func (h *Hub) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &wsClient{conn: conn, send: make(chan []byte, 64)}
	h.register <- client

	go client.writePump()
	go client.readPump(h)
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// readPump drains inbound frames so ping/pong and close handling work;
// the feed is one-way.
func (c *wsClient) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
