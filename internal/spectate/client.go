package spectate

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 5 * time.Second
	pingPeriod = 25 * time.Second
	pongWait   = 60 * time.Second
	sendBuffer = 16
)

// Client is one websocket spectator. The hub closes quit when it drops the
// client; send is never closed.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	quit     chan struct{}
	quitOnce sync.Once
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		quit: make(chan struct{}),
	}
}

// enqueue drops data when the client is slow or already gone.
func (c *Client) enqueue(data []byte) {
	select {
	case <-c.quit:
	case c.send <- data:
	default:
	}
}

func (c *Client) close() {
	c.quitOnce.Do(func() { close(c.quit) })
}

func (c *Client) sendStatus(status StatusResponse) {
	data, err := encodeMessage("status", status)
	if err != nil {
		return
	}
	c.enqueue(data)
}

// writePump owns every write on the connection and pings idle peers.
func (c *Client) writePump(log logrus.FieldLogger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case <-c.quit:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeWait))
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.WithError(err).Debug("websocket write failed")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.WithError(err).Debug("websocket ping failed")
				return
			}
		}
	}
}

// readPump handles inbound requests until the peer goes away. The only
// request understood is "request_status".
func (c *Client) readPump(status func() StatusResponse) {
	defer c.hub.Unregister(c)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		if msg.Type == "request_status" {
			c.sendStatus(status())
		}
	}
}
