package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/iAMv1/PhotoPileMemory-sub000/internal/card"
)

// countdownFrame is one per-second websocket frame while an event is locked.
type countdownFrame struct {
	Locked    bool           `json:"locked"`
	Countdown card.Breakdown `json:"countdown"`
}

// handleWSCountdown streams the lock countdown for an event, one frame per
// second, closing once the countdown reaches zero. Events with no birthday
// date report unlocked immediately.
func handleWSCountdown(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := r.URL.Query().Get("slug")
		if slug == "" {
			writeError(w, http.StatusBadRequest, "slug query parameter required")
			return
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

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
		defer cancel()

		target, hasTarget := card.UnlockTime(ev.BirthdayDate, time.Local)

		write := func(f countdownFrame) error {
			data, _ := json.Marshal(f)
			return conn.Write(ctx, websocket.MessageText, data)
		}

		if !hasTarget {
			write(countdownFrame{Locked: false})
			conn.Close(websocket.StatusNormalClosure, "unlocked")
			return
		}

		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			b := card.Countdown(target, time.Now())
			if b.Zero() {
				write(countdownFrame{Locked: false})
				conn.Close(websocket.StatusNormalClosure, "unlocked")
				return
			}
			if err := write(countdownFrame{Locked: true, Countdown: b}); err != nil {
				logger.Debug("websocket write failed", "error", err)
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}
}
