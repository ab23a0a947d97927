package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, sessions *SessionRegistry, broker *Broker, db *sql.DB, spaDir string) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Birthday Card API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))
	r.Get("/ws/countdown", handleWSCountdown(logger, store))

	// Public card content.
	r.Route("/api/events/{slug}", func(r chi.Router) {
		r.Get("/", handleEventLookup(store))
		r.Get("/photos", handleListPhotos(store))
		r.Get("/wishes", handleListWishes(store))
		r.Post("/wishes", handleAddWish(store))
		r.Get("/capsules", handleListCapsules(store))
	})

	// Recipient access sequence. Authenticated with the Bearer access token
	// handed out at session start.
	r.Post("/api/card/{slug}/session", handleAccessStart(store, sessions))
	r.Route("/api/card/session", func(r chi.Router) {
		r.Get("/state", handleAccessState(sessions))
		r.Get("/events", handleAccessEvents(sessions, broker))
		r.Post("/age", handleVerifyAge(store, sessions))
		r.Post("/maze/open", handleMazeOpen(sessions))
		r.Post("/maze/close", handleMazeClose(sessions))
		r.Post("/maze/submit", handleMazeSubmit(sessions))
		r.Post("/maze/skip", handleMazeSkip(sessions))
		r.Post("/phrase", handlePhrase(sessions))
		r.Post("/envelope", handleEnvelope(sessions))
	})

	// Organizer surface, cookie sessions.
	r.Post("/api/organizer/login", handleOrganizerLogin(store))
	r.Post("/api/organizer/logout", handleOrganizerLogout(store))
	r.Get("/api/organizer/me", handleOrganizerMe(store))
	r.Route("/api/organizer/events", func(r chi.Router) {
		r.Use(organizerAuthMiddleware(store))
		r.Post("/", handleCreateEvent(store))
		r.Post("/{id}/photos", handleAddPhoto(store))
		r.Post("/{id}/capsules", handleAddCapsule(store))
		r.Get("/{id}/config/{key}", handleConfigGet(store))
		r.Put("/{id}/config/{key}", handleConfigSet(store))
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
