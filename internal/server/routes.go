package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/moonhowl/werewolves/internal/game"
)

func addRoutes(r chi.Router, logger *slog.Logger, store *game.Store) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Werewolves API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth())

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", handleLogin(store))
		r.Get("/status", handleStatus(store))

		// Everything below requires Basic credentials (player id + secret).
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(store))

			r.Get("/games", handleListGames(store))
			r.Post("/games", handleCreateGame(store))
			r.Route("/games/{gameID}", func(r chi.Router) {
				r.Get("/", handleGameStatus(store))
				r.Post("/join", handleJoinGame(store))
				r.Post("/leave", handleLeaveGame(store))
				r.Post("/start", handleStartGame(store))
				r.Post("/select", handleSelectPlayers(store))
				r.Post("/sorceress", handleSorceressSelect(store))
			})
			r.Get("/players/{playerID}", handlePlayerStatus(store))
		})
	})
}
