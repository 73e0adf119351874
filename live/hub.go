package live

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Event is the wire format pushed to leaderboard subscribers.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	Room    string      `json:"room,omitempty"`
}

// Hub fans events out to websocket clients grouped into per-sprint rooms.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	rooms  map[string]map[*Client]bool
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func sprintRoom(sprintID int) string {
	return fmt.Sprintf("sprint:%d", sprintID)
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Debug("client joined room",
				slog.String("room", client.room),
				slog.Int("room_size", len(h.rooms[client.room])))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if roomClients, ok := h.rooms[client.room]; ok {
				if _, okClient := roomClients[client]; okClient {
					client.closeSend()
					delete(roomClients, client)
					if len(roomClients) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToSprint pushes an event to every client watching the sprint.
// Implements the broadcaster the ranking service expects.
func (h *Hub) BroadcastToSprint(sprintID int, eventType string, payload interface{}) {
	room := sprintRoom(sprintID)

	data, err := json.Marshal(Event{Type: eventType, Payload: payload, Room: room})
	if err != nil {
		h.logger.Error("failed to marshal event",
			slog.String("room", room), slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[room] {
		client.trySend(data)
	}
}
