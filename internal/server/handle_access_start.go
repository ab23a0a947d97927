package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iAMv1/PhotoPileMemory-sub000/internal/card"
)

// AccessStartRequest optionally carries the token of an earlier visit so a
// reload can resume a finished card at the celebration view.
type AccessStartRequest struct {
	Resume string `json:"resume,omitempty"`
}

type AccessStartResponse struct {
	Token      string          `json:"token"`
	Stage      string          `json:"stage"`
	Countdown  *card.Breakdown `json:"countdown,omitempty"`
	EventSlug  string          `json:"eventSlug"`
	ThemeColor string          `json:"themeColor"`
}

func handleAccessStart(store Store, sessions *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		var req AccessStartRequest
		if r.ContentLength > 0 {
			if err := readJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}

		ev, err := store.EventBySlug(r.Context(), slug)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		if err != nil {
			writeStoreError(w, err)
			return
		}

		photos, err := store.ListMazePhotos(r.Context(), ev.ID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		token, s, err := sessions.Create(r.Context(), ev, photos)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		// A resume token that already reached celebration skips the whole
		// sequence; anything less starts over from the top.
		if req.Resume != "" {
			marker, err := store.SessionMarker(r.Context(), req.Resume)
			if err == nil && marker.CelebrationReached && marker.EventID == ev.ID {
				s.RestoreCelebration()
			}
		}

		resp := AccessStartResponse{
			Token:      token,
			Stage:      s.Stage().String(),
			EventSlug:  ev.Slug,
			ThemeColor: ev.ThemeColor,
		}
		if b, ok := s.Countdown(); ok {
			resp.Countdown = &b
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
