package server

import (
	"errors"
	"net/http"
)

type organizerSession struct {
	OrganizerID string
	Email       string
}

var errNoOrganizerSession = errors.New("no valid organizer session")

const organizerCookieName = "organizer_session"

// organizerFromRequest reads the session cookie and looks it up in the store.
func organizerFromRequest(r *http.Request, store Store) (organizerSession, error) {
	cookie, err := r.Cookie(organizerCookieName)
	if err != nil || cookie.Value == "" {
		return organizerSession{}, errNoOrganizerSession
	}
	return store.OrganizerFromSession(r.Context(), cookie.Value)
}

func organizerAuthMiddleware(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := organizerFromRequest(r, store)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			next.ServeHTTP(w, r.WithContext(withOrganizer(r.Context(), sess)))
		})
	}
}
