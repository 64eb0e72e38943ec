package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/mikesz88/ghostMammothsPB-sub000/rotation"
	"github.com/mikesz88/ghostMammothsPB-sub000/services"
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
	hub          *rotation.Hub
	eventService services.EventService
}

func NewWebSocketHandler(hub *rotation.Hub, eventService services.EventService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:          hub,
		eventService: eventService,
	}
}

// ServeWs subscribes the caller to live updates for one event. Clients
// connect to /ws/events/{eventID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlParamInt(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.eventService.GetByID(r.Context(), eventID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		slog.Warn("websocket upgrade failed",
			slog.Int("event_id", eventID), slog.Any("error", err))
		return
	}

	client := &rotation.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: services.EventRoom(eventID),
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
