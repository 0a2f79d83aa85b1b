package api

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// AssessmentEvent describes websocket payloads emitted as assessments
// complete.
type AssessmentEvent struct {
	Type       string         `json:"type"`
	Assessment *AssessmentDTO `json:"assessment,omitempty"`
	Message    string         `json:"message,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// wsClient wraps a websocket connection with write locking.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// AssessmentNotifier tracks active websocket clients and broadcasts
// completed assessments to them.
type AssessmentNotifier struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

// NewAssessmentNotifier constructs a notifier instance.
func NewAssessmentNotifier() *AssessmentNotifier {
	return &AssessmentNotifier{clients: make(map[*wsClient]struct{})}
}

// Register attaches a websocket connection and returns a client handle.
func (n *AssessmentNotifier) Register(conn *websocket.Conn) *wsClient {
	client := &wsClient{conn: conn}
	n.mu.Lock()
	n.clients[client] = struct{}{}
	n.mu.Unlock()
	return client
}

// Unregister removes the client from the notifier and closes the socket.
func (n *AssessmentNotifier) Unregister(client *wsClient) {
	if client == nil {
		return
	}
	n.mu.Lock()
	delete(n.clients, client)
	n.mu.Unlock()
	_ = client.conn.Close()
}

// Broadcast sends the supplied event to all registered clients, dropping
// clients whose writes fail.
func (n *AssessmentNotifier) Broadcast(event AssessmentEvent) {
	event.Timestamp = time.Now().UTC()

	n.mu.Lock()
	for client := range n.clients {
		if err := client.writeJSON(event); err != nil {
			delete(n.clients, client)
			_ = client.conn.Close()
		}
	}
	n.mu.Unlock()
}

func (c *wsClient) writeJSON(payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(payload)
}
