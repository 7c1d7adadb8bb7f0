package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// ChatEvent is the wire format delivered to room subscribers.
type ChatEvent struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Hub maintains the set of active clients grouped by chat room
type Hub struct {
	// Rooms mapping (roomID -> clients)
	rooms map[uint]map[*Client]bool

	// Mutex for rooms map
	roomsMux sync.RWMutex

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client
}

// NewHub creates a new hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[uint]map[*Client]bool),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.roomsMux.Lock()
			if _, ok := h.rooms[client.roomID]; !ok {
				h.rooms[client.roomID] = make(map[*Client]bool)
			}
			h.rooms[client.roomID][client] = true
			h.roomsMux.Unlock()
		case client := <-h.unregister:
			h.roomsMux.Lock()
			if clients, ok := h.rooms[client.roomID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					// Clean up empty rooms
					if len(clients) == 0 {
						delete(h.rooms, client.roomID)
					}
				}
			}
			h.roomsMux.Unlock()
		}
	}
}

// broadcastToRoom sends a message to all clients in a room. It takes the
// write lock because the slow-client branch mutates the room map, and
// broadcasts run concurrently from the REST handlers and every readPump.
func (h *Hub) broadcastToRoom(roomID uint, message []byte) {
	h.roomsMux.Lock()
	defer h.roomsMux.Unlock()

	if clients, ok := h.rooms[roomID]; ok {
		for client := range clients {
			select {
			case client.send <- message:
			default:
				close(client.send)
				delete(clients, client)
			}
		}
	}
}

// roomClientCount reports how many clients are subscribed to a room.
func (h *Hub) roomClientCount(roomID uint) int {
	h.roomsMux.RLock()
	defer h.roomsMux.RUnlock()
	return len(h.rooms[roomID])
}

// BroadcastToRoom delivers a chat event to everyone connected to a room.
// Callers that persist through REST use this so socket subscribers see
// poll-path messages too.
func BroadcastToRoom(roomID uint, username, message string) {
	event := ChatEvent{Username: username, Message: message}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("error marshaling chat event: %v", err)
		return
	}

	hub.broadcastToRoom(roomID, eventBytes)
}

// Global hub instance
var hub *Hub

// InitHub initializes the global hub
func InitHub() {
	hub = NewHub()
	go hub.Run()
}
