package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/iAMv1/PhotoPileMemory-sub000/internal/card"
)

type PhraseRequest struct {
	Phrase string `json:"phrase"`
}

type PhraseResponse struct {
	Accepted bool   `json:"accepted"`
	Stage    string `json:"stage"`
}

// handlePhrase is the ransomware gate: the recipient must type the release
// phrase. Wrong input shakes and stays; the correct phrase starts the
// decrypting animation and the envelope stage follows on its own.
func handlePhrase(sessions *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing access token")
			return
		}

		var req PhraseRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Phrase) == "" {
			writeError(w, http.StatusBadRequest, "phrase is required")
			return
		}

		accepted, err := s.SubmitPhrase(req.Phrase)
		if errors.Is(err, card.ErrWrongStage) {
			writeError(w, http.StatusConflict, "the ransomware gate is not open")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, PhraseResponse{Accepted: accepted, Stage: s.Stage().String()})
	}
}

// handleEnvelope confirms the envelope gesture. Once triggered it cannot be
// undone; celebration follows after the opening animation.
func handleEnvelope(sessions *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing access token")
			return
		}

		if err := s.OpenEnvelope(); err != nil {
			if errors.Is(err, card.ErrWrongStage) {
				writeError(w, http.StatusConflict, "the envelope is not open yet")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"stage": s.Stage().String()})
	}
}
