package server

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iAMv1/PhotoPileMemory-sub000/internal/card"
)

// EventResponse is the public shape of an event. The age never leaves the
// server; it is the verification secret.
type EventResponse struct {
	ID                 string `json:"id"`
	Slug               string `json:"slug"`
	BirthdayPersonName string `json:"birthdayPersonName"`
	BirthdayDate       string `json:"birthdayDate,omitempty"`
	ThemeColor         string `json:"themeColor"`
}

type CreateEventRequest struct {
	Slug               string `json:"slug"`
	BirthdayPersonName string `json:"birthdayPersonName"`
	BirthdayPersonAge  int    `json:"birthdayPersonAge"`
	BirthdayDate       string `json:"birthdayDate,omitempty"`
	ThemeColor         string `json:"themeColor,omitempty"`
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func eventResponse(ev card.Event) EventResponse {
	return EventResponse{
		ID:                 ev.ID,
		Slug:               ev.Slug,
		BirthdayPersonName: ev.BirthdayPersonName,
		BirthdayDate:       ev.BirthdayDate,
		ThemeColor:         ev.ThemeColor,
	}
}

func handleEventLookup(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		ev, err := store.EventBySlug(r.Context(), slug)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, eventResponse(ev))
	}
}

func handleCreateEvent(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateEventRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Slug = strings.TrimSpace(req.Slug)
		req.BirthdayPersonName = strings.TrimSpace(req.BirthdayPersonName)
		switch {
		case !slugPattern.MatchString(req.Slug):
			writeError(w, http.StatusBadRequest, "slug must be lowercase words separated by dashes")
			return
		case req.BirthdayPersonName == "":
			writeError(w, http.StatusBadRequest, "birthdayPersonName is required")
			return
		case req.BirthdayPersonAge <= 0:
			writeError(w, http.StatusBadRequest, "birthdayPersonAge must be positive")
			return
		}
		if req.BirthdayDate != "" {
			if _, ok := card.UnlockTime(req.BirthdayDate, time.Local); !ok {
				writeError(w, http.StatusBadRequest, "birthdayDate must be YYYY-MM-DD")
				return
			}
		}
		if req.ThemeColor == "" {
			req.ThemeColor = "#ff69b4"
		}

		ev, err := store.CreateEvent(r.Context(), card.Event{
			Slug:               req.Slug,
			OrganizerID:        organizerFrom(r.Context()).OrganizerID,
			BirthdayPersonName: req.BirthdayPersonName,
			BirthdayPersonAge:  req.BirthdayPersonAge,
			BirthdayDate:       req.BirthdayDate,
			ThemeColor:         req.ThemeColor,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, eventResponse(ev))
	}
}
