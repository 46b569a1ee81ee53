package chat

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
)

// Submission is a client-submitted frame. The server fills in the rest of the
// message before relaying it.
type Submission struct {
	Content string `json:"content"`
	Sender  string `json:"sender"`
}

// SubmitFunc receives every well-formed frame a client sends.
type SubmitFunc func(s Submission)

type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	submit SubmitFunc
	log    *logrus.Entry
}

func NewClient(hub *Hub, conn *websocket.Conn, submit SubmitFunc, log *logrus.Logger) *Client {
	id := uuid.NewString()
	return &Client{
		id:     id,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		submit: submit,
		log:    log.WithField("module", "client").WithField("client", id),
	}
}

// Serve registers the client with the hub and pumps the connection until it
// closes. It blocks until the reader exits.
func (c *Client) Serve() {
	c.hub.register <- c
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debugf("err reading from client: %v", err)
			}
			return
		}
		var s Submission
		if err = json.Unmarshal(data, &s); err != nil || s.Content == "" || s.Sender == "" {
			c.log.Debugf("dropping malformed client frame: %v", err)
			continue
		}
		c.submit(s)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
