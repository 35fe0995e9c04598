package handlers

import (
	"net/http"

	"github.com/Dosada05/scoreboard-system/services"
)

type ScoreboardHandler struct {
	scoreboardService *services.ScoreboardService
}

func NewScoreboardHandler(scoreboardService *services.ScoreboardService) *ScoreboardHandler {
	return &ScoreboardHandler{scoreboardService: scoreboardService}
}

// List returns every scoreboard for admins and only the assigned ones
// for scorers.
func (h *ScoreboardHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	scoreboards, err := h.scoreboardService.List(r.Context(), actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"scoreboards": scoreboards}, nil)
}

func (h *ScoreboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	scoreboard, err := h.scoreboardService.Get(r.Context(), actor, id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"scoreboard": scoreboard}, nil)
}

func (h *ScoreboardHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.CreateScoreboardInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	scoreboard, err := h.scoreboardService.Create(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"scoreboard": scoreboard}, nil)
}

func (h *ScoreboardHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateScoreboardInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	scoreboard, err := h.scoreboardService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"scoreboard": scoreboard}, nil)
}

func (h *ScoreboardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.scoreboardService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"message": "scoreboard deleted"}, nil)
}

func (h *ScoreboardHandler) AssignTeam(w http.ResponseWriter, r *http.Request) {
	scoreboardID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		TeamID int `json:"team_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	scoreboard, err := h.scoreboardService.AssignTeam(r.Context(), scoreboardID, input.TeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"scoreboard": scoreboard}, nil)
}

func (h *ScoreboardHandler) UnassignTeam(w http.ResponseWriter, r *http.Request) {
	scoreboardID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := getIDFromURL(r, "teamId")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.scoreboardService.UnassignTeam(r.Context(), scoreboardID, teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"message": "team unassigned"}, nil)
}

func (h *ScoreboardHandler) AssignScorer(w http.ResponseWriter, r *http.Request) {
	scoreboardID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		UserID int `json:"user_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	scoreboard, err := h.scoreboardService.AssignScorer(r.Context(), scoreboardID, input.UserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"scoreboard": scoreboard}, nil)
}

func (h *ScoreboardHandler) UnassignScorer(w http.ResponseWriter, r *http.Request) {
	scoreboardID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := getIDFromURL(r, "userId")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.scoreboardService.UnassignScorer(r.Context(), scoreboardID, userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"message": "scorer unassigned"}, nil)
}
