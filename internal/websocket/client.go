package websocket

import (
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 12 * 1024 * 1024 // base64 images

	// frames waiting behind the one being handled
	maxPendingFrames = 4
)

// MessageHandler processes one inbound frame from a client
type MessageHandler func(c *Client, data []byte)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	Conn *websocket.Conn

	// SessionID this connection follows
	SessionID string

	// Buffered channel of outbound messages.
	Send chan []byte

	// inbound frames handled one at a time by workPump
	inbox     chan []byte
	onMessage MessageHandler
}

func newClient(hub *Hub, conn *websocket.Conn, sessionID string, onMessage MessageHandler) *Client {
	return &Client{
		Hub:       hub,
		Conn:      conn,
		SessionID: sessionID,
		Send:      make(chan []byte, 256),
		inbox:     make(chan []byte, maxPendingFrames),
		onMessage: onMessage,
	}
}

// enqueue queues a frame for workPump, reporting false when the client is
// already at maxPendingFrames.
func (c *Client) enqueue(data []byte) bool {
	select {
	case c.inbox <- data:
		return true
	default:
		return false
	}
}

// workPump handles queued frames in arrival order until the inbox is closed
func (c *Client) workPump() {
	for data := range c.inbox {
		c.onMessage(c, data)
	}
}

func (c *Client) reject(detail string) {
	payload, err := json.Marshal(Event{Type: "error", Detail: detail})
	if err != nil {
		return
	}
	select {
	case c.Send <- payload:
	default:
	}
}

// readPump hands inbound frames to the message handler until the peer goes away.
func (c *Client) readPump() {
	defer func() {
		if c.inbox != nil {
			close(c.inbox)
		}
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	if c.onMessage != nil && c.inbox != nil {
		// Turns can take tens of seconds; keep reading pongs meanwhile
		go c.workPump()
	}

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{
					"session_id": c.SessionID,
					"error":      err.Error(),
				})
			}
			break
		}
		if c.onMessage == nil || c.inbox == nil {
			continue
		}
		if !c.enqueue(data) {
			c.Hub.logger.Warn("Client", "Inbound frame dropped, too many pending", map[string]interface{}{
				"session_id": c.SessionID,
			})
			c.reject("too many pending messages, wait for the current reply")
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
