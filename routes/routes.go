package routes

import (
	"net/http"

	"github.com/Dosada05/scoreboard-system/handlers"
	custommw "github.com/Dosada05/scoreboard-system/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Player     *handlers.PlayerHandler
	Team       *handlers.TeamHandler
	Scoreboard *handlers.ScoreboardHandler
	Match      *handlers.MatchHandler
	Public     *handlers.PublicHandler
	Live       *handlers.LiveHandler
}

// NewRouter wires the full HTTP surface: public slug-based reads, the
// live websocket channel, and the authenticated management API with an
// admin-only subset.
func NewRouter(h Handlers, jwtSecret string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Post("/auth/register", h.Auth.Register)
	r.Post("/auth/login", h.Auth.Login)

	r.Route("/public/scoreboard/{slug}", func(r chi.Router) {
		r.Get("/", h.Public.GetScoreboard)
		r.Get("/standings", h.Public.PlayerStandings)
		r.Get("/team-standings", h.Public.TeamStandings)
		r.Get("/matches", h.Public.Matches)
		r.Get("/player/{playerId}", h.Public.PlayerStats)
		r.Get("/summary", h.Public.Summary)
	})

	r.Get("/live/scoreboard/{slug}", h.Live.Subscribe)

	r.Group(func(r chi.Router) {
		r.Use(custommw.Authenticator(jwtSecret))

		r.Get("/scoreboards", h.Scoreboard.List)
		r.Get("/scoreboards/{id}", h.Scoreboard.Get)

		r.Post("/matches", h.Match.Create)
		r.Get("/matches/my-matches", h.Match.ListMine)
		r.Get("/matches/scoreboard/{scoreboardId}", h.Match.ListByScoreboard)
		r.Get("/matches/{id}", h.Match.Get)
		r.Put("/matches/{id}", h.Match.Update)
		r.Delete("/matches/{id}", h.Match.Delete)

		r.Get("/players", h.Player.List)
		r.Get("/players/{id}", h.Player.Get)
		r.Get("/teams", h.Team.List)
		r.Get("/teams/{id}", h.Team.Get)

		// Scorers may request a roster removal, the final say is
		// the admin's.
		r.Delete("/teams/{id}/players/{playerId}", h.Team.RemovePlayer)

		r.Group(func(r chi.Router) {
			r.Use(custommw.RequireAdmin)

			r.Get("/auth/users", h.Auth.ListScorers)
			r.Put("/auth/users/{id}", h.Auth.UpdateUser)

			r.Post("/players", h.Player.Create)
			r.Put("/players/{id}", h.Player.Update)
			r.Delete("/players/{id}", h.Player.Delete)
			r.Post("/players/{id}/photo", h.Player.UploadPhoto)

			r.Post("/teams", h.Team.Create)
			r.Put("/teams/{id}", h.Team.Update)
			r.Delete("/teams/{id}", h.Team.Delete)
			r.Post("/teams/{id}/logo", h.Team.UploadLogo)
			r.Post("/teams/{id}/players", h.Team.AddPlayer)
			r.Post("/teams/{id}/players/{playerId}/approval", h.Team.ResolveRemoval)

			r.Post("/scoreboards", h.Scoreboard.Create)
			r.Put("/scoreboards/{id}", h.Scoreboard.Update)
			r.Delete("/scoreboards/{id}", h.Scoreboard.Delete)
			r.Post("/scoreboards/{id}/teams", h.Scoreboard.AssignTeam)
			r.Delete("/scoreboards/{id}/teams/{teamId}", h.Scoreboard.UnassignTeam)
			r.Post("/scoreboards/{id}/scorers", h.Scoreboard.AssignScorer)
			r.Delete("/scoreboards/{id}/scorers/{userId}", h.Scoreboard.UnassignScorer)
		})
	})

	return r
}
