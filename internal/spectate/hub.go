// Package spectate publishes a running session to read-only HTTP and
// websocket clients.
package spectate

import (
	"encoding/json"
	"sync/atomic"
)

// Hub fans status updates out to websocket clients. The client set is owned
// by the Run goroutine; everything else talks to it through channels.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	stopped    chan struct{}
	count      atomic.Int32
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 32),
		stopped:    make(chan struct{}),
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	clients := make(map[*Client]struct{})
	defer func() {
		h.count.Store(0)
		for c := range clients {
			c.close()
		}
		close(h.stopped)
	}()
	for {
		select {
		case <-done:
			return
		case c := <-h.register:
			clients[c] = struct{}{}
			h.count.Store(int32(len(clients)))
		case c := <-h.unregister:
			if _, ok := clients[c]; ok {
				delete(clients, c)
				c.close()
				h.count.Store(int32(len(clients)))
			}
		case data := <-h.broadcast:
			for c := range clients {
				c.enqueue(data)
			}
		}
	}
}

// Publish queues status for every client without blocking; a full queue
// drops the update.
func (h *Hub) Publish(status StatusResponse) {
	data, err := encodeMessage("status", status)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

// Register adds c to the broadcast set. After the hub has stopped it closes
// c instead.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.stopped:
		c.close()
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stopped:
	}
}

func (h *Hub) HasClients() bool {
	return h.count.Load() > 0
}

func encodeMessage(kind string, payload any) ([]byte, error) {
	msg := wsMessage{Type: kind}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Payload = raw
	}
	return json.Marshal(msg)
}
