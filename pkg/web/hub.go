package web

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	// writeWait is how long to wait for a write to complete
	writeWait = 10 * time.Second

	// pongWait is how long to wait for a pong response
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait
	pingPeriod = (pongWait * 9) / 10
)

// hub maintains the set of active websocket clients and broadcasts status
// updates to them.
type hub struct {
	name       string
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	log        *slog.Logger
}

func newHub(name string, logger *slog.Logger) *hub {
	return &hub{
		name:       name,
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		log:        logger,
	}
}

// run is the hub's main loop; call in a goroutine.
func (h *hub) run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.log.Debug("ws client connected", "hub", h.name, "total", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Client too slow; drop it.
					close(c.send)
					delete(h.clients, c)
					h.log.Warn("dropped slow ws client", "hub", h.name)
				}
			}
		}
	}
}

// broadcastJSON encodes v and queues it for all clients. Messages are
// dropped when the broadcast queue is full.
func (h *hub) broadcastJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		h.log.Error("ws broadcast encode failed", "hub", h.name, "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

// client is a single websocket connection. Only writePump writes to the
// connection.
type client struct {
	hub  *hub
	conn *websocket.Conn
	send chan []byte
}

// serveClient registers the connection and blocks until it closes.
func (h *hub) serveClient(conn *websocket.Conn) {
	c := &client{hub: h, conn: conn, send: make(chan []byte, 64)}
	h.register <- c
	go c.writePump()
	c.readPump()
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Clients send nothing; reading detects disconnects and pongs.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
