package handlers

import (
	"net/http"

	"github.com/Dosada05/scoreboard-system/middleware"
	"github.com/Dosada05/scoreboard-system/services"
)

// actorFromContext builds the service-layer caller identity from the
// claims the auth middleware stored on the request.
func actorFromContext(r *http.Request) (services.Actor, bool) {
	userID, okID := middleware.GetUserIDFromContext(r.Context())
	role, okRole := middleware.GetUserRoleFromContext(r.Context())
	if !okID || !okRole {
		return services.Actor{}, false
	}
	return services.Actor{ID: userID, Role: role}, true
}

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, token, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, jsonResponse{"user": user, "token": token}, nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, token, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"user": user, "token": token}, nil)
}

// ListScorers returns the scorer accounts an admin can assign to
// scoreboards.
func (h *AuthHandler) ListScorers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListScorers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"users": users}, nil)
}

func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateUserInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.authService.UpdateUser(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil)
}
