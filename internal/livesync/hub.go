package livesync

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Envelope is the wire frame sent to websocket viewers: the topic the
// snapshot belongs to and the snapshot itself as raw JSON.
type Envelope struct {
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

type Client struct {
	conn *websocket.Conn
	send chan []byte
	sub  *Subscription
}

// Hub tracks connected viewers. Each client holds its own broker
// subscription; the hub only owns lifecycle so a dropped connection
// always releases its subscription.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				// Closing the subscription ends the client's forward
				// goroutine, which in turn closes the send channel.
				client.sub.Close()
			}
		}
	}
}

// Serve attaches an upgraded connection to the given subscription and
// pumps snapshots until either side goes away.
func (h *Hub) Serve(conn *websocket.Conn, sub *Subscription) {
	client := &Client{
		conn: conn,
		send: make(chan []byte, 256),
		sub:  sub,
	}
	h.register <- client

	go client.forward()
	go client.writePump()
	go client.readPump(h)
}

// forward re-frames broker messages for the websocket. When the
// subscription closes it shuts down the write side too.
func (c *Client) forward() {
	defer close(c.send)
	for msg := range c.sub.C {
		frame, err := json.Marshal(Envelope{
			Topic: msg.Topic,
			Data:  json.RawMessage(msg.Payload),
		})
		if err != nil {
			zap.L().Warn("failed to frame live update", zap.String("topic", msg.Topic), zap.Error(err))
			continue
		}

		select {
		case c.send <- frame:
		default:
			// Viewer is not keeping up; drop the frame. The next
			// snapshot carries the full state again.
		}
	}
}

func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for {
		message, ok := <-c.send
		if !ok {
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// readPump discards inbound frames; the live feed is one-way. Its real
// job is noticing the peer went away.
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("websocket closed unexpectedly", zap.Error(err))
			}
			break
		}
	}
}
