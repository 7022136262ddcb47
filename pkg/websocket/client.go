package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

type ClientConfig struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxMessageSize int64
}

func (c ClientConfig) withDefaults() ClientConfig {
	if c.WriteWait == 0 {
		c.WriteWait = 10 * time.Second
	}
	if c.PongWait == 0 {
		c.PongWait = 60 * time.Second
	}
	if c.PingPeriod == 0 || c.PingPeriod >= c.PongWait {
		c.PingPeriod = (c.PongWait * 9) / 10
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = 4096
	}
	return c
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	rooms  map[string]struct{}
	config ClientConfig

	UserID string
	Role   string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, role string, config ClientConfig) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 64),
		rooms:  make(map[string]struct{}),
		config: config.withDefaults(),
		UserID: userID,
		Role:   role,
	}
}

type clientMessage struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.WithError(err).Warn("Websocket closed unexpectedly")
			}
			return
		}
		c.handleMessage(ctx, raw)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes room subscriptions sent by the client. Anything
// else is ignored: clients only listen.
func (c *Client) handleMessage(ctx context.Context, raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	switch msg.Type {
	case "join":
		ok := c.hub.JoinRoom(ctx, c, msg.Room)
		reply, _ := json.Marshal(Message{
			Type:      "join_result",
			Room:      msg.Room,
			Timestamp: time.Now().Unix(),
			Data:      map[string]bool{"ok": ok},
		})
		c.hub.trySend(c, reply)

	case "leave":
		c.hub.LeaveRoom(c, msg.Room)
	}
}
