package chat

import (
	"time"

	"pairlink/logger"

	"github.com/gorilla/websocket"
)

// Client represents one authenticated connection on this gateway. The read
// loop is the only reader; the write pump is the only writer, draining Send.
type Client struct {
	ConnID string          // unique connection id (local to this gateway)
	UserID string          // fixed at handshake
	WS     *websocket.Conn // WebSocket connection object
	Send   chan []byte     // outbound queue, consumed by a single writer goroutine
}

func NewClient(connID, userID string, ws *websocket.Conn, sendQueueSize int) *Client {
	return &Client{
		ConnID: connID,
		UserID: userID,
		WS:     ws,
		Send:   make(chan []byte, sendQueueSize),
	}
}

// writePump drains Send until the channel closes, then writes a close frame.
func (c *Client) writePump(writeTimeout time.Duration) {
	for b := range c.Send {
		_ = c.WS.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WS.WriteMessage(websocket.TextMessage, b); err != nil {
			logger.Warnf("[ws] write conn=%s user=%s: %v", c.ConnID, c.UserID, err)
			// keep draining so producers never block on a dead connection
		}
	}
	_ = c.WS.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = c.WS.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
