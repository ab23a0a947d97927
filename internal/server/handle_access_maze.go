package server

import (
	"errors"
	"net/http"

	"github.com/iAMv1/PhotoPileMemory-sub000/internal/card"
)

type MazeOpenRequest struct {
	PhotoID string `json:"photoId"`
}

type MazeSubmitRequest struct {
	Response string `json:"response"`
}

type MazeSubmitResponse struct {
	PhotoID      string         `json:"photoId"`
	Unlocked     bool           `json:"unlocked"`
	MazeComplete bool           `json:"mazeComplete"`
	Photo        *MazePhotoView `json:"photo,omitempty"`
}

func mazeErrorStatus(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, card.ErrWrongStage):
		writeError(w, http.StatusConflict, "the maze is not open")
	case errors.Is(err, card.ErrPhotoNotFound):
		writeError(w, http.StatusNotFound, "photo not found")
	case errors.Is(err, card.ErrNoSelection):
		writeError(w, http.StatusConflict, "no photo is open")
	case errors.Is(err, card.ErrSkipUnavailable):
		writeError(w, http.StatusConflict, "skip is not available yet")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func handleMazeOpen(sessions *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing access token")
			return
		}

		var req MazeOpenRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.PhotoID == "" {
			writeError(w, http.StatusBadRequest, "photoId is required")
			return
		}

		photo, err := s.OpenPhoto(req.PhotoID)
		if err != nil {
			mazeErrorStatus(w, err)
			return
		}

		// Re-opening an unlocked photo shows it revealed, not the riddle.
		writeJSON(w, http.StatusOK, photoView(photo, s.IsUnlocked(photo.ID)))
	}
}

func handleMazeClose(sessions *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing access token")
			return
		}

		if err := s.ClosePhoto(); err != nil {
			mazeErrorStatus(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleMazeSubmit(sessions *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing access token")
			return
		}

		// An empty response is legitimate: it unlocks a riddle-less photo
		// and simply fails a protected one.
		var req MazeSubmitRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		res, err := s.SubmitRiddle(req.Response)
		if err != nil {
			mazeErrorStatus(w, err)
			return
		}

		resp := MazeSubmitResponse{
			PhotoID:      res.PhotoID,
			Unlocked:     res.Unlocked,
			MazeComplete: res.MazeComplete,
		}
		if res.Unlocked {
			v := photoView(res.Photo, true)
			resp.Photo = &v
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// handleMazeSkip is the anti-frustration escape valve: offered by the UI
// after enough failed riddles, it forces the maze-complete path.
func handleMazeSkip(sessions *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing access token")
			return
		}

		if err := s.SkipToReveal(); err != nil {
			mazeErrorStatus(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"stage": s.Stage().String()})
	}
}
