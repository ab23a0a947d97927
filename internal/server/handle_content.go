package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iAMv1/PhotoPileMemory-sub000/internal/card"
)

// The public content surface: wishes, photos, and time capsule messages for
// the celebration view. Writes to photos and capsules go through the
// organizer surface; wishes may be left by any contributor.

type AddPhotoRequest struct {
	Src             string   `json:"src"`
	ContributorName string   `json:"contributorName"`
	MemoryClue      string   `json:"memoryClue"`
	VoiceNote       string   `json:"voiceNote,omitempty"`
	Glitched        bool     `json:"glitched"`
	RiddleType      string   `json:"riddleType,omitempty"`
	RiddleQuestion  string   `json:"riddleQuestion,omitempty"`
	RiddleAnswer    string   `json:"riddleAnswer,omitempty"`
	RiddleOptions   []string `json:"riddleOptions,omitempty"`
}

type WishRequest struct {
	AuthorName string `json:"authorName"`
	Message    string `json:"message"`
}

type WishResponse struct {
	ID         string `json:"id"`
	AuthorName string `json:"authorName"`
	Message    string `json:"message"`
}

type CapsuleRequest struct {
	Hour       int    `json:"hour"`
	AuthorName string `json:"authorName"`
	Message    string `json:"message"`
}

// CapsuleResponse hides the message text until its hour arrives.
type CapsuleResponse struct {
	ID         string `json:"id"`
	Hour       int    `json:"hour"`
	AuthorName string `json:"authorName"`
	Unlocked   bool   `json:"unlocked"`
	Message    string `json:"message,omitempty"`
}

func eventFromSlug(w http.ResponseWriter, r *http.Request, store Store) (card.Event, bool) {
	ev, err := store.EventBySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "event not found")
		return card.Event{}, false
	}
	if err != nil {
		writeStoreError(w, err)
		return card.Event{}, false
	}
	return ev, true
}

func handleAddPhoto(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddPhotoRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Src == "" {
			writeError(w, http.StatusBadRequest, "src is required")
			return
		}
		rt := card.RiddleType(req.RiddleType)
		if req.RiddleQuestion != "" {
			switch rt {
			case card.RiddleText, card.RiddleMCQ:
			default:
				writeError(w, http.StatusBadRequest, "riddleType must be text or mcq")
				return
			}
			if req.RiddleAnswer == "" {
				writeError(w, http.StatusBadRequest, "riddleAnswer is required with a riddle")
				return
			}
			if rt == card.RiddleMCQ {
				found := false
				for _, opt := range req.RiddleOptions {
					if opt == req.RiddleAnswer {
						found = true
						break
					}
				}
				if !found {
					writeError(w, http.StatusBadRequest, "riddleAnswer must be one of riddleOptions")
					return
				}
			}
		}

		p, err := store.AddMazePhoto(r.Context(), card.MazePhoto{
			EventID:         chi.URLParam(r, "id"),
			Src:             req.Src,
			ContributorName: strings.TrimSpace(req.ContributorName),
			MemoryClue:      req.MemoryClue,
			VoiceNote:       req.VoiceNote,
			Glitched:        req.Glitched,
			RiddleType:      rt,
			RiddleQuestion:  req.RiddleQuestion,
			RiddleAnswer:    req.RiddleAnswer,
			RiddleOptions:   req.RiddleOptions,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": p.ID})
	}
}

// handleListPhotos lists the maze photos in their locked public shape:
// clue and riddle, never the answer or the photo content. Revealed content
// only flows through an access session.
func handleListPhotos(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ev, ok := eventFromSlug(w, r, store)
		if !ok {
			return
		}

		photos, err := store.ListMazePhotos(r.Context(), ev.ID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		resp := []MazePhotoView{}
		for _, p := range photos {
			resp = append(resp, photoView(p, false))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleAddWish(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ev, ok := eventFromSlug(w, r, store)
		if !ok {
			return
		}

		var req WishRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.AuthorName = strings.TrimSpace(req.AuthorName)
		req.Message = strings.TrimSpace(req.Message)
		if req.AuthorName == "" || req.Message == "" {
			writeError(w, http.StatusBadRequest, "authorName and message are required")
			return
		}

		wish, err := store.AddWish(r.Context(), card.Wish{
			EventID:    ev.ID,
			AuthorName: req.AuthorName,
			Message:    req.Message,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, WishResponse{
			ID: wish.ID, AuthorName: wish.AuthorName, Message: wish.Message,
		})
	}
}

func handleListWishes(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ev, ok := eventFromSlug(w, r, store)
		if !ok {
			return
		}

		wishes, err := store.ListWishes(r.Context(), ev.ID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		resp := []WishResponse{}
		for _, wish := range wishes {
			resp = append(resp, WishResponse{
				ID: wish.ID, AuthorName: wish.AuthorName, Message: wish.Message,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleAddCapsule(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CapsuleRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Hour < 0 || req.Hour > 23 {
			writeError(w, http.StatusBadRequest, "hour must be between 0 and 23")
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			writeError(w, http.StatusBadRequest, "message is required")
			return
		}

		m, err := store.AddCapsuleMessage(r.Context(), card.TimeCapsuleMessage{
			EventID:    chi.URLParam(r, "id"),
			Hour:       req.Hour,
			AuthorName: strings.TrimSpace(req.AuthorName),
			Message:    req.Message,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": m.ID})
	}
}

func handleListCapsules(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ev, ok := eventFromSlug(w, r, store)
		if !ok {
			return
		}

		msgs, err := store.ListCapsuleMessages(r.Context(), ev.ID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		now := time.Now()
		resp := []CapsuleResponse{}
		for _, m := range msgs {
			c := CapsuleResponse{
				ID:         m.ID,
				Hour:       m.Hour,
				AuthorName: m.AuthorName,
				Unlocked:   m.Unlocked(now),
			}
			if c.Unlocked {
				c.Message = m.Message
			}
			resp = append(resp, c)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
