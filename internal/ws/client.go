package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// MessageSender is the slice of the message pipeline the socket boundary
// needs: persist an inbound plaintext and notify the receiver.
type MessageSender interface {
	Send(senderID, receiverID, plaintext string) (string, error)
}

// inboundFrame is one message attempt from a connected client.
type inboundFrame struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Message  string `json:"message"`
}

type Client struct {
	hub      *Hub
	pipeline MessageSender
	userID   string
	conn     *websocket.Conn
	send     chan []byte
}

// ServeWs upgrades the request and runs the session for the authenticated
// user. userID must come from the verified token, not the client's frames.
func ServeWs(hub *Hub, pipeline MessageSender, w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade: %v", err)
		return
	}
	client := &Client{
		hub:      hub,
		pipeline: pipeline,
		userID:   userID,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
	}
	hub.Register(client)

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws: read from %s: %v", c.userID, err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.hub.reply(c, "Invalid message format.")
			continue
		}
		if frame.Sender != c.userID {
			c.hub.reply(c, "Sender ID mismatch. You are not authorized.")
			continue
		}

		if _, err := c.pipeline.Send(frame.Sender, frame.Receiver, frame.Message); err != nil {
			c.hub.reply(c, err.Error())
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub dropped or replaced this session.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
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
