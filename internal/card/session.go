package card

import (
	"errors"
	"math/rand"
	"strconv"
	"sync"
	"time"
)

var (
	// ErrWrongStage means the requested action does not belong to the
	// session's current stage.
	ErrWrongStage = errors.New("action not available in current stage")
	// ErrSkipUnavailable means the skip-to-reveal escape valve has not been
	// earned yet.
	ErrSkipUnavailable = errors.New("skip not available")
)

type EventType string

const (
	EventStageChanged  EventType = "stage_changed"
	EventPhotoUnlocked EventType = "photo_unlocked"
	EventWrongAnswer   EventType = "wrong_answer"
	EventMazeComplete  EventType = "maze_complete"
	EventSystemNotice  EventType = "system_notice"
)

// SessionEvent is published to observers as the session progresses.
type SessionEvent struct {
	Type    EventType `json:"type"`
	Stage   Stage     `json:"stage,omitempty"`
	PhotoID string    `json:"photoId,omitempty"`
	Notice  string    `json:"notice,omitempty"`
}

// SessionConfig tunes the session's timing and wiring. Zero values pick the
// production defaults; tests inject a fake clock and scheduler.
type SessionConfig struct {
	// CompletionGrace is the pause between the maze completing and the
	// ransomware stage, long enough for the final unlock animation.
	CompletionGrace time.Duration
	// DecryptDelay is the fake "decrypting" animation after the correct
	// ransom phrase.
	DecryptDelay time.Duration
	// EnvelopeDelay is the envelope opening animation before celebration.
	EnvelopeDelay time.Duration
	// NoticeInterval is the base interval for decorative system notices
	// while in the maze. Zero disables them.
	NoticeInterval time.Duration

	Now      func() time.Time
	Schedule func(d time.Duration, fn func()) (cancel func())
	// Notify observes session events. It is called with the session lock
	// held and must not call back into the session.
	Notify func(SessionEvent)
}

var systemNotices = []string{
	"SYSTEM: memory integrity check in progress...",
	"WARNING: nostalgia levels critical",
	"SYSTEM: 3 unread memories detected",
	"NOTICE: cake.exe is waiting in the background",
}

// UnlockResult is the outcome of one riddle submission.
type UnlockResult struct {
	PhotoID      string    `json:"photoId"`
	Unlocked     bool      `json:"unlocked"`
	MazeComplete bool      `json:"mazeComplete"`
	Photo        MazePhoto `json:"-"`
}

// MazeView is a read-only snapshot of the maze for rendering.
type MazeView struct {
	Empty          bool
	Total          int
	Unlocked       []string
	FailedAttempts int
	SkipAvailable  bool
	SelectedID     string
	Complete       bool
}

// Session is the recipient access state machine for one visit to a card.
// Stages only move forward; every delayed transition carries the epoch it
// was scheduled in and no-ops if the machine has since moved on, so a maze
// completion timer can never fire into a stage the manual skip already left.
type Session struct {
	mu  sync.Mutex
	cfg SessionConfig

	event Event
	maze  *Maze

	stage       Stage
	epoch       int
	unlockAt    time.Time
	hasUnlockAt bool

	verified       bool
	decrypting     bool
	envelopeOpened bool

	cancelPending func()
}

// NewSession builds a session for the event. The session starts locked only
// when the birthday date is set and still in the future; otherwise it starts
// at the age gate.
func NewSession(ev Event, photos []MazePhoto, cfg SessionConfig) *Session {
	if cfg.CompletionGrace == 0 {
		cfg.CompletionGrace = 500 * time.Millisecond
	}
	if cfg.DecryptDelay == 0 {
		cfg.DecryptDelay = 2 * time.Second
	}
	if cfg.EnvelopeDelay == 0 {
		cfg.EnvelopeDelay = 1200 * time.Millisecond
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Schedule == nil {
		cfg.Schedule = func(d time.Duration, fn func()) func() {
			t := time.AfterFunc(d, fn)
			return func() { t.Stop() }
		}
	}
	if cfg.Notify == nil {
		cfg.Notify = func(SessionEvent) {}
	}

	s := &Session{
		cfg:   cfg,
		event: ev,
		maze:  NewMaze(photos),
		stage: StageIntro,
	}

	if at, ok := UnlockTime(ev.BirthdayDate, time.Local); ok {
		s.unlockAt = at
		s.hasUnlockAt = true
		if cfg.Now().Before(at) {
			s.stage = StageLocked
		}
	}
	return s
}

func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

func (s *Session) Event() Event { return s.event }

// Verified reports whether the age gate has been passed this session.
func (s *Session) Verified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verified
}

// Countdown returns the remaining lock time. ok is false once the session
// is past the locked stage or the event has no birthday date.
func (s *Session) Countdown() (Breakdown, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != StageLocked || !s.hasUnlockAt {
		return Breakdown{}, false
	}
	return Countdown(s.unlockAt, s.cfg.Now()), true
}

// Tick advances locked → intro the moment the countdown reaches zero. It is
// called by the owning registry's ticker and lazily on state reads, and
// reports whether the stage advanced.
func (s *Session) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != StageLocked {
		return false
	}
	if s.hasUnlockAt && s.cfg.Now().Before(s.unlockAt) {
		return false
	}
	s.advanceLocked(StageIntro)
	return true
}

// VerifyAge checks the guess against the stored age (stringwise, trimmed).
// A wrong guess is a soft failure: verified=false, no error, re-prompt.
// Success moves the session into the maze.
func (s *Session) VerifyAge(guess string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != StageIntro {
		return false, ErrWrongStage
	}
	if !VerifyAge(guess, strconv.Itoa(s.event.BirthdayPersonAge)) {
		s.cfg.Notify(SessionEvent{Type: EventWrongAnswer, Stage: s.stage})
		return false, nil
	}
	s.verified = true
	s.advanceLocked(StageMaze)
	return true, nil
}

// MazeView snapshots the maze for rendering. Valid at any stage; before the
// maze stage it simply shows everything locked.
func (s *Session) MazeView() MazeView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MazeView{
		Empty:          s.maze.Empty(),
		Total:          len(s.maze.Photos()),
		Unlocked:       s.maze.UnlockedIDs(),
		FailedAttempts: s.maze.FailedAttempts(),
		SkipAvailable:  s.maze.SkipAvailable(),
		SelectedID:     s.maze.SelectedID(),
		Complete:       s.maze.Complete(),
	}
}

// Photos returns the maze photos in order. The slice is fixed at session
// creation.
func (s *Session) Photos() []MazePhoto {
	return s.maze.Photos()
}

// IsUnlocked reports whether a maze photo has been revealed this session.
func (s *Session) IsUnlocked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maze.IsUnlocked(id)
}

// OpenPhoto selects a maze photo, revealed or not.
func (s *Session) OpenPhoto(id string) (MazePhoto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != StageMaze {
		return MazePhoto{}, ErrWrongStage
	}
	return s.maze.Open(id)
}

// ClosePhoto clears the selection. Closing is an explicit skip of the
// challenge, never an unlock.
func (s *Session) ClosePhoto() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != StageMaze {
		return ErrWrongStage
	}
	s.maze.Close()
	return nil
}

// SubmitRiddle runs the unlock protocol against the selected photo. When the
// final photo unlocks, the ransomware stage follows after the completion
// grace delay.
func (s *Session) SubmitRiddle(response string) (UnlockResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != StageMaze {
		return UnlockResult{}, ErrWrongStage
	}

	photo, unlocked, completed, err := s.maze.Submit(response)
	if err != nil {
		return UnlockResult{}, err
	}

	if !unlocked {
		s.cfg.Notify(SessionEvent{Type: EventWrongAnswer, Stage: s.stage, PhotoID: photo.ID})
		return UnlockResult{PhotoID: photo.ID}, nil
	}

	s.cfg.Notify(SessionEvent{Type: EventPhotoUnlocked, Stage: s.stage, PhotoID: photo.ID})
	if completed {
		s.cfg.Notify(SessionEvent{Type: EventMazeComplete, Stage: s.stage})
		s.scheduleAdvanceLocked(s.cfg.CompletionGrace, StageRansomware)
	}
	return UnlockResult{PhotoID: photo.ID, Unlocked: true, MazeComplete: completed, Photo: photo}, nil
}

// SkipToReveal is the anti-frustration escape valve: once enough riddles
// have failed (or the maze is empty) the recipient may jump straight to the
// final reveal. The immediate advance bumps the epoch, so a completion
// timer already in flight dies quietly.
func (s *Session) SkipToReveal() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != StageMaze {
		return ErrWrongStage
	}
	if !s.maze.SkipAvailable() {
		return ErrSkipUnavailable
	}
	if s.maze.ForceComplete() {
		s.cfg.Notify(SessionEvent{Type: EventMazeComplete, Stage: s.stage})
	}
	s.advanceLocked(StageRansomware)
	return nil
}

// SubmitPhrase checks the ransom phrase. The correct phrase starts the
// decrypting animation and lands on the envelope stage after it; submitting
// again while decrypting is already accepted.
func (s *Session) SubmitPhrase(input string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != StageRansomware {
		return false, ErrWrongStage
	}
	if s.decrypting {
		return true, nil
	}
	if !CheckRansomPhrase(input) {
		s.cfg.Notify(SessionEvent{Type: EventWrongAnswer, Stage: s.stage})
		return false, nil
	}
	s.decrypting = true
	s.scheduleAdvanceLocked(s.cfg.DecryptDelay, StageEnvelope)
	return true, nil
}

// OpenEnvelope confirms the envelope gesture. Once triggered it cannot be
// undone; celebration follows after the animation delay.
func (s *Session) OpenEnvelope() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != StageEnvelope {
		return ErrWrongStage
	}
	if s.envelopeOpened {
		return nil
	}
	s.envelopeOpened = true
	s.scheduleAdvanceLocked(s.cfg.EnvelopeDelay, StageCelebration)
	return nil
}

// RestoreCelebration jumps straight to the terminal stage. Used when a
// returning session carries the persisted celebration marker.
func (s *Session) RestoreCelebration() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verified = true
	s.advanceLocked(StageCelebration)
}

// Close cancels pending timers and fences off any still in flight.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	if s.cancelPending != nil {
		s.cancelPending()
		s.cancelPending = nil
	}
}

// advanceLocked moves the machine forward. Backward or same-stage requests
// are ignored, pending timers from the old stage are cancelled, and the
// epoch bump invalidates any callback already scheduled.
func (s *Session) advanceLocked(to Stage) {
	if !s.stage.Before(to) {
		return
	}
	s.epoch++
	if s.cancelPending != nil {
		s.cancelPending()
		s.cancelPending = nil
	}
	s.stage = to
	s.cfg.Notify(SessionEvent{Type: EventStageChanged, Stage: to})
	if to == StageMaze {
		s.scheduleNoticeLocked()
	}
}

func (s *Session) scheduleAdvanceLocked(d time.Duration, to Stage) {
	epoch := s.epoch
	s.cancelPending = s.cfg.Schedule(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.epoch != epoch {
			return
		}
		s.advanceLocked(to)
	})
}

// scheduleNoticeLocked arms the decorative system-notice loop for the maze
// stage. The notices never block or alter transitions; the epoch guard stops
// the loop as soon as the maze is left.
func (s *Session) scheduleNoticeLocked() {
	if s.cfg.NoticeInterval <= 0 {
		return
	}
	epoch := s.epoch
	jitter := s.cfg.NoticeInterval/2 + time.Duration(rand.Int63n(int64(s.cfg.NoticeInterval)))
	s.cfg.Schedule(jitter, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.epoch != epoch || s.stage != StageMaze {
			return
		}
		s.cfg.Notify(SessionEvent{
			Type:   EventSystemNotice,
			Stage:  s.stage,
			Notice: systemNotices[rand.Intn(len(systemNotices))],
		})
		s.scheduleNoticeLocked()
	})
}
