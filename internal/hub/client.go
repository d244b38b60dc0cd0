package hub

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"auction-live/utils"
)

const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second
	// time allowed to read the next pong from the peer
	pongWait = 60 * time.Second
	// ping period, must be less than pongWait
	pingPeriod = 54 * time.Second
)

// Client wraps a websocket connection with a buffered outbound queue. It
// satisfies room.Conn: Send never blocks, and a full buffer is reported to
// the caller instead of stalling the sender.
type Client struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewClient wraps an upgraded websocket connection and starts its write pump
func NewClient(conn *websocket.Conn, id string, sendBuffer int) *Client {
	c := &Client{
		id:   id,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	go c.writePump()
	return c
}

// ID returns the connection identifier
func (c *Client) ID() string {
	return c.id
}

// Send queues a payload for delivery. Returns false when the client is closed
// or its buffer is full; the payload is dropped rather than blocking.
func (c *Client) Send(payload []byte) bool {
	if c.closed.Load() {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Close tears the connection down. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		if err := c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait)); err != nil {
			utils.Debug("client: close frame not delivered", map[string]any{
				"conn_id": c.id,
				"error":   err.Error(),
			})
		}
		c.conn.Close()
	})
}

// ReadLoop consumes inbound frames, invoking handle for each payload. It
// returns when the connection errors or closes, after tearing the client down.
func (c *Client) ReadLoop(handle func(payload []byte)) {
	defer c.Close()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				utils.Warn("client: read error", map[string]any{
					"conn_id": c.id,
					"error":   err.Error(),
				})
			}
			return
		}
		handle(payload)
	}
}

// writePump drains the send queue onto the wire and keeps the connection
// alive with periodic pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
