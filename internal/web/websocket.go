package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// WebSocket upgrader with reasonable settings
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The board is served to local browsers on any port
		return true
	},
}

// Update is the message pushed to every connected board.
type Update struct {
	Type string      `json:"type"` // "state", "move", "undo", "reset"
	Data interface{} `json:"data"`
}

// Hub fans board updates out to every connected client. All clients watch
// the same board.
type Hub struct {
	clients map[*Client]bool

	// Broadcast channel for encoded updates
	broadcast chan []byte

	register   chan *Client
	unregister chan *Client

	// stopped is closed when Run returns
	stopped chan struct{}

	mu sync.RWMutex
}

// Client represents a WebSocket connection
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// done is closed by the hub when it drops the client; send is never
	// closed so pumps can't panic on it.
	done     chan struct{}
	doneOnce sync.Once
}

func (c *Client) close() {
	c.doneOnce.Do(func() { close(c.done) })
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stopped:    make(chan struct{}),
	}
}

// Run is the hub's event loop. It returns when ctx is cancelled, after
// dropping every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		h.mu.Lock()
		for client := range h.clients {
			client.close()
			delete(h.clients, client)
		}
		h.mu.Unlock()
		close(h.stopped)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

			log.Info().Str("client", client.id).Msg("Client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
			h.mu.Unlock()

			log.Info().Str("client", client.id).Msg("Client disconnected")

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, drop it
					log.Warn().Str("client", client.id).Msg("Dropping slow client")
					delete(h.clients, client)
					client.close()
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues an update for every client. It never blocks; the update
// is dropped if the hub is backed up.
func (h *Hub) Broadcast(kind string, data interface{}) {
	message, err := json.Marshal(Update{Type: kind, Data: data})
	if err != nil {
		log.Error().Err(err).Str("type", kind).Msg("Failed to marshal update")
		return
	}

	select {
	case h.broadcast <- message:
	default:
		log.Warn().Str("type", kind).Msg("Broadcast channel full, dropping update")
	}
}

// WebSocketHandler upgrades the request and sends the current board before
// streaming updates.
func (s *Service) WebSocketHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
			return
		}

		client := &Client{
			id:   uuid.New().String(),
			hub:  hub,
			conn: conn,
			send: make(chan []byte, 256),
			done: make(chan struct{}),
		}

		select {
		case hub.register <- client:
		case <-hub.stopped:
			conn.Close()
			return
		}

		// Registered first so no update after this snapshot is missed
		if state, err := json.Marshal(Update{Type: "state", Data: s.session.View()}); err == nil {
			select {
			case client.send <- state:
			case <-client.done:
			}
		}

		go client.writePump()
		go client.readPump()
	}
}

// readPump handles incoming messages from the WebSocket
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.stopped:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("client", c.id).Msg("WebSocket error")
			}
			return
		}

		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(message, &msg); err != nil || msg.Type != "ping" {
			continue
		}
		if data, err := json.Marshal(Update{Type: "pong"}); err == nil {
			select {
			case c.send <- data:
			case <-c.done:
			default:
			}
		}
	}
}

// writePump sends queued messages and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
