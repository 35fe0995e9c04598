package handlers

import (
	"net/http"

	"github.com/Dosada05/scoreboard-system/services"
	"github.com/go-chi/chi/v5"
)

// PublicHandler serves the unauthenticated scoreboard views. Every
// route resolves an active scoreboard by its public slug first.
type PublicHandler struct {
	standingsService *services.StandingsService
}

func NewPublicHandler(standingsService *services.StandingsService) *PublicHandler {
	return &PublicHandler{standingsService: standingsService}
}

func (h *PublicHandler) GetScoreboard(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	scoreboard, err := h.standingsService.ResolveScoreboard(r.Context(), slug)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"scoreboard": scoreboard}, nil)
}

func (h *PublicHandler) PlayerStandings(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	standings, err := h.standingsService.PlayerStandings(r.Context(), slug)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil)
}

func (h *PublicHandler) TeamStandings(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	standings, err := h.standingsService.TeamStandings(r.Context(), slug)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"team_standings": standings}, nil)
}

func (h *PublicHandler) Matches(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	matches, err := h.standingsService.MatchLog(r.Context(), slug)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil)
}

func (h *PublicHandler) PlayerStats(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	playerID, err := getIDFromURL(r, "playerId")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.standingsService.PlayerStats(r.Context(), slug, playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats, nil)
}

func (h *PublicHandler) Summary(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	summary, err := h.standingsService.Summary(r.Context(), slug)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary, nil)
}
