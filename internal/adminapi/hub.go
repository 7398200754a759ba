package adminapi

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local operator dashboard, not public-facing
	},
}

// Hub maintains the set of connected dashboard clients and broadcasts a
// JSON event each time the served catalog is swapped. It is purely
// observational — the DNS protocol itself stays the source of truth.
type Hub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	mutex     sync.Mutex
}

// NewHub returns an idle Hub; call Run in a goroutine to start broadcasting.
func NewHub() *Hub {
	return &Hub{
		broadcast: make(chan []byte, 256),
		clients:   make(map[*websocket.Conn]bool),
	}
}

// Run drains the broadcast channel and fans each message out to every
// connected client, dropping any client whose write fails.
func (h *Hub) Run() {
	for message := range h.broadcast {
		h.mutex.Lock()
		for client := range h.clients {
			_ = client.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[adminapi] websocket write error: %v", err)
				client.Close()
				delete(h.clients, client)
			}
		}
		h.mutex.Unlock()
	}
}

// Subscribe upgrades an HTTP request to a websocket and registers it as a
// broadcast recipient.
func (h *Hub) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[adminapi] websocket upgrade failed: %v", err)
		return
	}

	h.mutex.Lock()
	h.clients[conn] = true
	h.mutex.Unlock()

	go func() {
		defer func() {
			h.mutex.Lock()
			delete(h.clients, conn)
			h.mutex.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// Broadcast sends a pre-encoded JSON payload to every connected client.
func (h *Hub) Broadcast(data []byte) {
	h.broadcast <- data
}

// ReloadEvent is the payload broadcast each time the catalog reloads.
type ReloadEvent struct {
	Serial      uint32         `json:"serial"`
	EntryCount  int            `json:"entryCount"`
	ZoneRecords map[string]int `json:"zoneRecords"`
	ReloadedAt  time.Time      `json:"reloadedAt"`
}
