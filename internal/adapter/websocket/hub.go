package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/observability/telemetry"
	"github.com/seu-repo/dronevox/internal/ports"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 64
)

// Conn is the subset of *websocket.Conn the hub drives.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Envelope is the frame pushed to dashboards.
type Envelope struct {
	Event     string      `json:"event"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub fans broadcast events out to every connected dashboard. Slow clients
// whose buffer is full are dropped rather than blocking the others.
type Hub struct {
	clients map[*client]struct{}

	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	stop       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once

	log *zap.Logger
}

type client struct {
	conn Conn
	send chan []byte
}

var _ ports.Broadcaster = (*Hub)(nil)

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]struct{}),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run owns the client set until Stop is called.
func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			telemetry.ConnectedClients.Inc()
		case c := <-h.unregister:
			h.remove(c)
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					h.log.Warn("Dropping slow websocket client")
					h.remove(c)
				}
			}
		case <-h.stop:
			for c := range h.clients {
				h.remove(c)
			}
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	telemetry.ConnectedClients.Dec()
}

// Stop closes every client and waits for Run to return.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

// Broadcast never blocks the caller; events are dropped when the hub is
// saturated or stopped.
func (h *Hub) Broadcast(event string, payload interface{}) {
	data, err := json.Marshal(Envelope{Event: event, Payload: payload, Timestamp: time.Now().UTC()})
	if err != nil {
		h.log.Error("Failed to encode broadcast", zap.String("event", event), zap.Error(err))
		return
	}
	select {
	case <-h.stop:
	case h.broadcast <- data:
	default:
		h.log.Warn("Broadcast buffer full, dropping event", zap.String("event", event))
	}
}

// Serve registers conn and blocks until the peer disconnects or the hub stops.
// Incoming frames are read and discarded so control frames are handled.
func (h *Hub) Serve(conn Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}
	select {
	case h.register <- c:
	case <-h.stop:
		conn.Close()
		return
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		h.writePump(c)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	select {
	case h.unregister <- c:
	case <-h.stop:
	}
	conn.Close()
	<-writerDone
}

func (h *Hub) writePump(c *client) {
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
	c.conn.Close()
}
