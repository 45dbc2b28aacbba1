package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is a lifecycle notification pushed to connected UI clients
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Event types published by the duplicate pipeline
const (
	EventScanCompleted  = "scan.completed"
	EventReportMerged   = "report.merged"
	EventReportArchived = "report.archived"
)

// EventBroker fans pipeline events out to WebSocket subscribers so table and
// kanban views refresh without polling.
type EventBroker struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*websocket.Conn]bool
}

// NewEventBroker creates a new event broker
func NewEventBroker() *EventBroker {
	return &EventBroker{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Browser clients connect from the UI origin
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

// SetupRoutes configures the event feed route
func (b *EventBroker) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/events", b.HandleWebSocket)
}

// HandleWebSocket upgrades the connection and keeps it registered until the
// client goes away. Clients only receive; inbound messages are drained.
func (b *EventBroker) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("EventBroker: upgrade failed: %v", err)
		return
	}

	b.mu.Lock()
	b.clients[conn] = true
	clientCount := len(b.clients)
	b.mu.Unlock()
	log.Printf("EventBroker: client connected (%d total)", clientCount)

	go func() {
		defer b.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Publish sends an event to every connected client. Dead connections are
// dropped on write failure.
func (b *EventBroker) Publish(eventType string, payload interface{}) {
	event := Event{Type: eventType, Payload: payload, Timestamp: time.Now()}

	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("EventBroker: dropping client after write error: %v", err)
			conn.Close()
			delete(b.clients, conn)
		}
	}
}

// ClientCount returns the number of connected subscribers
func (b *EventBroker) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

func (b *EventBroker) drop(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.clients[conn] {
		conn.Close()
		delete(b.clients, conn)
		log.Printf("EventBroker: client disconnected (%d total)", len(b.clients))
	}
}
