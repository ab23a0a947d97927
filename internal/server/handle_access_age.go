package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/iAMv1/PhotoPileMemory-sub000/internal/card"
)

type VerifyAgeRequest struct {
	Age string `json:"age"`
}

type VerifyAgeResponse struct {
	Verified bool   `json:"verified"`
	Stage    string `json:"stage"`
	// BirthdayPersonName is cached client-side on success so the
	// celebration view can render without another fetch.
	BirthdayPersonName string `json:"birthdayPersonName,omitempty"`
}

// handleVerifyAge runs the age gate. A wrong guess is not an error: the
// response carries verified=false and the gate stays open. No lockout, no
// attempt limit, the escalation is purely cosmetic on the client.
func handleVerifyAge(store Store, sessions *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing access token")
			return
		}

		var req VerifyAgeRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Age) == "" {
			writeError(w, http.StatusBadRequest, "age is required")
			return
		}

		s.Tick()
		verified, err := s.VerifyAge(req.Age)
		if errors.Is(err, card.ErrWrongStage) {
			writeError(w, http.StatusConflict, "age verification is not open")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := VerifyAgeResponse{Verified: verified, Stage: s.Stage().String()}
		if verified {
			ev := s.Event()
			resp.BirthdayPersonName = ev.BirthdayPersonName

			// Best-effort idempotent cache write for the celebration view;
			// the sequence moves on even if it fails.
			token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			store.SaveVerification(r.Context(), token, strings.TrimSpace(req.Age), ev.BirthdayPersonName)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
