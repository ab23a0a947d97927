package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/iAMv1/PhotoPileMemory-sub000/internal/card"
)

var errNoSession = errors.New("no valid session")

// sessionFromRequest resolves the Bearer access token to a live session.
func sessionFromRequest(r *http.Request, sessions *SessionRegistry) (*card.Session, error) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return nil, errNoSession
	}
	s, ok := sessions.Get(token)
	if !ok {
		return nil, errNoSession
	}
	return s, nil
}
