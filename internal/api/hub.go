/*
Package api
File: hub.go
Description:
    The WebSocket Hub is the real-time link to the presentation layer.

    It maintains a registry of all connected renderers and manages the
    broadcast channel. When the tick loop produces something worth announcing
    (an event result, a new achievement, a new character) it is written to
    the sockets of every connected client. Clients may also send intents
    (click, purchase, switch, ack) back over the same socket.

    Architecture:
    - Hub: owns the client set; Run() is its event loop.
    - Client: one socket, identified by a random UUID.
    - ServeWs: upgrades a standard GET request to a WebSocket.
*/

package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Message defines the standard JSON envelope for all real-time communication.
type Message struct {
	Type    string          `json:"type"`            // e.g. "tick", "state", "click"
	Payload json.RawMessage `json:"payload,omitempty"` // Type-specific body
	Sender  string          `json:"sender,omitempty"`  // "system" or the client id
}

// NewMessage wraps a payload into an envelope.
func NewMessage(kind, sender string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: kind, Payload: body, Sender: sender})
}

// Client represents a single connected renderer.
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte // Buffered channel for outbound messages
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients map[*Client]bool

	// Broadcast fans a message out to every client.
	Broadcast chan []byte

	register   chan *Client
	unregister chan *Client

	// OnMessage handles inbound envelopes; it runs on the client's read goroutine.
	OnMessage func(c *Client, msg Message)
}

// NewHub creates a new Hub instance. Start it with `go hub.Run()`.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run is the main event loop for the Hub. It blocks.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("WS: client %s connected (%d online)", client.ID, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("WS: client %s left", client.ID)
			}

		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Send buffer full: the client hung or disconnected.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Publish queues a message for every client without blocking the caller.
// Messages are dropped when the broadcast queue is full.
func (h *Hub) Publish(message []byte) {
	select {
	case h.Broadcast <- message:
	default:
		log.Println("WS: broadcast queue full, message dropped")
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades the HTTP connection and starts the client's pumps.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WS Upgrade Error:", err)
		return
	}

	client := &Client{ID: uuid.NewString(), hub: hub, conn: conn, send: make(chan []byte, 256)}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// Send queues a message for this client only.
func (c *Client) Send(message []byte) {
	defer func() {
		// The hub may have closed the channel concurrently.
		_ = recover()
	}()
	select {
	case c.send <- message:
	default:
	}
}

// readPump decodes inbound envelopes and hands them to the hub's handler.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WS Error: %v", err)
			}
			break
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("WS: client %s sent malformed message: %v", c.ID, err)
			continue
		}
		msg.Sender = c.ID
		if c.hub.OnMessage != nil {
			c.hub.OnMessage(c, msg)
		}
	}
}

// writePump writes queued messages to the socket until the channel closes.
func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()

	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}
}
