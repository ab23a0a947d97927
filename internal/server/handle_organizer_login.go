package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// OrganizerLoginRequest is the request body for POST /api/organizer/login.
type OrganizerLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OrganizerMeResponse is the response for GET /api/organizer/me.
type OrganizerMeResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func handleOrganizerLogin(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OrganizerLoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		organizerID, passwordHash, err := store.OrganizerByEmail(r.Context(), req.Email)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err != nil {
			writeStoreError(w, err)
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)) != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		sessionID, err := store.CreateOrganizerSession(r.Context(), organizerID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     organizerCookieName,
			Value:    sessionID,
			Path:     "/",
			Expires:  time.Now().Add(30 * 24 * time.Hour),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		writeJSON(w, http.StatusOK, OrganizerMeResponse{ID: organizerID, Email: req.Email})
	}
}

func handleOrganizerLogout(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(organizerCookieName)
		if err == nil && cookie.Value != "" {
			store.DeleteOrganizerSession(r.Context(), cookie.Value)
		}

		http.SetCookie(w, &http.Cookie{
			Name:     organizerCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleOrganizerMe(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := organizerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		writeJSON(w, http.StatusOK, OrganizerMeResponse{ID: sess.OrganizerID, Email: sess.Email})
	}
}
