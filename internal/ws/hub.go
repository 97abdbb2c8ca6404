package ws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

// Event is pushed to admin clients so their local copy of the content can
// refetch whatever the tags cover.
type Event struct {
	Type string    `json:"type"`
	Tags []string  `json:"tags"`
	At   time.Time `json:"at"`
}

type eventMessage struct {
	tags    []string
	payload []byte
}

// Hub fans revalidation events out to websocket subscribers.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan eventMessage
	clients    map[*client]struct{}
	done       chan struct{}
	count      atomic.Int64
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan eventMessage, 256),
		clients:    make(map[*client]struct{}),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run owns the client set until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Store(int64(len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				if !c.wants(msg.tags) {
					continue
				}
				select {
				case c.send <- msg.payload:
				default:
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	c.conn.Close()
	h.count.Store(int64(len(h.clients)))
}

// Clients reports the number of registered subscribers.
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// Publish queues a revalidation event. It never blocks; events are dropped
// when the queue is full.
func (h *Hub) Publish(tags []string) {
	if h == nil || len(tags) == 0 {
		return
	}
	payload, err := json.Marshal(Event{Type: "revalidate", Tags: tags, At: time.Now().UTC()})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- eventMessage{tags: tags, payload: payload}:
	default:
		h.log.Warn("revalidation event dropped", zap.Strings("tags", tags))
	}
}

type client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	filter map[string]struct{} // empty means every tag
}

func newClient(hub *Hub, conn *websocket.Conn, tags []string) *client {
	filter := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		filter[t] = struct{}{}
	}
	return &client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		filter: filter,
	}
}

func (c *client) wants(tags []string) bool {
	if len(c.filter) == 0 {
		return true
	}
	for _, t := range tags {
		if _, ok := c.filter[t]; ok {
			return true
		}
	}
	return false
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
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
