package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/scoreboard-system/live"
	"github.com/Dosada05/scoreboard-system/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Public read-only channel, viewers come from arbitrary origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveHandler upgrades public viewers onto a scoreboard's live
// channel. The slug must belong to an active scoreboard.
type LiveHandler struct {
	hub              *live.Hub
	standingsService *services.StandingsService
}

func NewLiveHandler(hub *live.Hub, standingsService *services.StandingsService) *LiveHandler {
	return &LiveHandler{hub: hub, standingsService: standingsService}
}

func (h *LiveHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	scoreboard, err := h.standingsService.ResolveScoreboard(r.Context(), slug)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "slug", slug, "error", err)
		return
	}

	client := live.NewClient(h.hub, conn, scoreboard.PublicSlug)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
