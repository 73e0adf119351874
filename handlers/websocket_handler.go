package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/amuzant/Crewmates/live"
	"github.com/amuzant/Crewmates/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the frontend origin once it is deployed.
		return true
	},
}

type WebSocketHandler struct {
	hub           *live.Hub
	sprintService services.SprintService
	logger        *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, sprintService services.SprintService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, sprintService: sprintService, logger: logger}
}

// ServeSprint subscribes the connection to live ranking events for one
// sprint.
func (h *WebSocketHandler) ServeSprint(w http.ResponseWriter, r *http.Request) {
	sprintID, err := idParam(r, "sprintID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.sprintService.GetByID(r.Context(), sprintID); err != nil {
		if errors.Is(err, services.ErrSprintNotFound) {
			notFoundResponse(w, r, err)
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, sprintID)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
