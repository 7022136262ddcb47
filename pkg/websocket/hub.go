package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"fletes/pkg/logger"
)

const (
	RoomMonitoreo = "monitoreo"

	roleAdmin    = "admin"
	roleOperador = "operador"
)

func RoomViaje(id string) string { return "viaje_" + id }
func RoomUser(id string) string  { return "user_" + id }

// RoomAuthorizer decides whether a client may join a room it asked for.
type RoomAuthorizer func(ctx context.Context, client *Client, room string) bool

type Message struct {
	Type      string      `json:"type"`
	Room      string      `json:"room,omitempty"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

type envelope struct {
	room string
	data []byte
}

type Hub struct {
	clients    map[*Client]struct{}
	rooms      map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
	mutex      sync.RWMutex

	authorize RoomAuthorizer
	log       *logger.Logger
}

func NewHub(log *logger.Logger, authorize RoomAuthorizer) *Hub {
	if authorize == nil {
		authorize = func(context.Context, *Client, string) bool { return false }
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope, 256),
		authorize:  authorize,
		log:        log,
	}
}

// Run serves the hub until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case env := <-h.broadcast:
			h.deliver(env)
		}
	}
}

// Broadcast queues a message for every client in room. It never blocks; when
// the queue is full the message is dropped.
func (h *Hub) Broadcast(room, msgType string, data interface{}) {
	payload, err := json.Marshal(Message{
		Type:      msgType,
		Room:      room,
		Timestamp: time.Now().Unix(),
		Data:      data,
	})
	if err != nil {
		h.log.WithError(err).Error("Failed to marshal websocket message")
		return
	}

	select {
	case h.broadcast <- envelope{room: room, data: payload}:
	default:
		h.log.WithField("room", room).Warn("Websocket broadcast queue full, dropping message")
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	h.clients[client] = struct{}{}
	h.joinRoom(client, RoomUser(client.UserID))
	if client.Role == roleAdmin || client.Role == roleOperador {
		h.joinRoom(client, RoomMonitoreo)
	}
	h.mutex.Unlock()

	h.log.WithFields(map[string]interface{}{
		"user_id": client.UserID,
		"role":    client.Role,
	}).Debug("Websocket client registered")

	welcome, _ := json.Marshal(Message{
		Type:      "bienvenida",
		Timestamp: time.Now().Unix(),
		Data:      map[string]string{"mensaje": "Conectado"},
	})
	h.trySend(client, welcome)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)

	for roomID := range client.rooms {
		if room, ok := h.rooms[roomID]; ok {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
}

func (h *Hub) deliver(env envelope) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.rooms[env.room] {
		select {
		case client.send <- env.data:
		default:
			// slow consumer
			h.removeLocked(client)
		}
	}
}

func (h *Hub) trySend(client *Client, data []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	select {
	case client.send <- data:
	default:
		h.removeLocked(client)
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for client := range h.clients {
		h.removeLocked(client)
	}
}

// joinRoom requires h.mutex to be held.
func (h *Hub) joinRoom(client *Client, roomID string) {
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]struct{})
	}
	h.rooms[roomID][client] = struct{}{}
	client.rooms[roomID] = struct{}{}
}

func (h *Hub) JoinRoom(ctx context.Context, client *Client, roomID string) bool {
	if !h.authorize(ctx, client, roomID) {
		return false
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[client]; !ok {
		return false
	}
	h.joinRoom(client, roomID)
	return true
}

func (h *Hub) LeaveRoom(client *Client, roomID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if room, exists := h.rooms[roomID]; exists {
		delete(room, client)
		delete(client.rooms, roomID)
		if len(room) == 0 {
			delete(h.rooms, roomID)
		}
	}
}
