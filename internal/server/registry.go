package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/iAMv1/PhotoPileMemory-sub000/internal/card"
)

// SessionRegistry holds the live recipient sessions, keyed by access token.
// Unlock state lives only here for the duration of a visit; the store keeps
// just the verification cache and the celebration marker.
type SessionRegistry struct {
	store  Store
	broker *Broker
	logger *slog.Logger
	cfg    card.SessionConfig

	mu       sync.RWMutex
	sessions map[string]*card.Session
}

func NewSessionRegistry(store Store, broker *Broker, logger *slog.Logger, cfg card.SessionConfig) *SessionRegistry {
	return &SessionRegistry{
		store:    store,
		broker:   broker,
		logger:   logger,
		cfg:      cfg,
		sessions: make(map[string]*card.Session),
	}
}

// Create starts a session for the event and persists its marker row. The
// session publishes its progress to the broker under the new token, and the
// celebration marker is written the moment that stage is reached, also
// when a delayed transition gets it there with no request in flight.
func (r *SessionRegistry) Create(ctx context.Context, ev card.Event, photos []card.MazePhoto) (string, *card.Session, error) {
	token := newID()

	if err := r.store.CreateRecipientSession(ctx, token, ev.ID); err != nil {
		return "", nil, err
	}

	cfg := r.cfg
	cfg.Notify = func(e card.SessionEvent) {
		r.broker.Publish(token, e)
		if e.Type == card.EventStageChanged && e.Stage == card.StageCelebration {
			go r.markCelebration(token)
		}
	}

	s := card.NewSession(ev, photos, cfg)

	r.mu.Lock()
	r.sessions[token] = s
	r.mu.Unlock()

	return token, s, nil
}

func (r *SessionRegistry) Get(token string) (*card.Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[token]
	r.mu.RUnlock()
	return s, ok
}

func (r *SessionRegistry) markCelebration(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.store.MarkCelebration(ctx, token); err != nil {
		r.logger.Error("persisting celebration marker", "error", err)
	}
}

// Run ticks every locked session once per second so the locked → intro
// transition happens the instant the countdown expires, with no recipient
// request needed. Blocks until ctx is done.
func (r *SessionRegistry) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return nil
		case <-ticker.C:
			r.mu.RLock()
			for _, s := range r.sessions {
				s.Tick()
			}
			r.mu.RUnlock()
		}
	}
}

func (r *SessionRegistry) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, s := range r.sessions {
		s.Close()
		delete(r.sessions, token)
	}
}
