package card

import (
	"testing"
	"time"
)

// fakeScheduler records scheduled callbacks so tests fire them by hand,
// including after the machine has moved on.
type fakeScheduler struct {
	jobs []*fakeJob
}

type fakeJob struct {
	d         time.Duration
	fn        func()
	cancelled bool
}

func (f *fakeScheduler) Schedule(d time.Duration, fn func()) func() {
	j := &fakeJob{d: d, fn: fn}
	f.jobs = append(f.jobs, j)
	return func() { j.cancelled = true }
}

// fire runs every pending job that has not been cancelled.
func (f *fakeScheduler) fire() {
	jobs := f.jobs
	f.jobs = nil
	for _, j := range jobs {
		if !j.cancelled {
			j.fn()
		}
	}
}

type sessionHarness struct {
	sched  *fakeScheduler
	now    time.Time
	events []SessionEvent
}

func (h *sessionHarness) config() SessionConfig {
	return SessionConfig{
		Now:      func() time.Time { return h.now },
		Schedule: h.sched.Schedule,
		Notify:   func(e SessionEvent) { h.events = append(h.events, e) },
	}
}

func (h *sessionHarness) stageChanges(to Stage) int {
	n := 0
	for _, e := range h.events {
		if e.Type == EventStageChanged && e.Stage == to {
			n++
		}
	}
	return n
}

func newHarness() *sessionHarness {
	return &sessionHarness{
		sched: &fakeScheduler{},
		now:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local),
	}
}

func testEvent() Event {
	return Event{
		ID:                 "ev1",
		Slug:               "maria-30",
		BirthdayPersonName: "Maria",
		BirthdayPersonAge:  30,
		ThemeColor:         "#ff69b4",
	}
}

func TestSessionStartsAtIntroWithoutDate(t *testing.T) {
	h := newHarness()
	s := NewSession(testEvent(), mazePhotos(), h.config())

	if s.Stage() != StageIntro {
		t.Fatalf("expected intro, got %s", s.Stage())
	}
	if _, ok := s.Countdown(); ok {
		t.Error("countdown should never be computed without a birthday date")
	}
}

func TestSessionLockedUntilBirthday(t *testing.T) {
	h := newHarness()
	ev := testEvent()
	ev.BirthdayDate = h.now.AddDate(0, 0, 1).Format("2006-01-02")
	s := NewSession(ev, mazePhotos(), h.config())

	if s.Stage() != StageLocked {
		t.Fatalf("expected locked, got %s", s.Stage())
	}
	b, ok := s.Countdown()
	if !ok || b.Zero() {
		t.Fatalf("expected a nonzero countdown, got %+v ok=%v", b, ok)
	}

	// Still locked one second before midnight.
	target, _ := UnlockTime(ev.BirthdayDate, time.Local)
	h.now = target.Add(-time.Second)
	if s.Tick() {
		t.Fatal("ticked open before the target")
	}

	// The tick that crosses the boundary unlocks.
	h.now = target
	if !s.Tick() {
		t.Fatal("expected the boundary tick to advance")
	}
	if s.Stage() != StageIntro {
		t.Fatalf("expected intro after unlock, got %s", s.Stage())
	}
	if _, ok := s.Countdown(); ok {
		t.Error("countdown should stop once unlocked")
	}
}

func TestSessionPastBirthdayStartsAtIntro(t *testing.T) {
	h := newHarness()
	ev := testEvent()
	ev.BirthdayDate = h.now.AddDate(0, 0, -1).Format("2006-01-02")

	if s := NewSession(ev, nil, h.config()); s.Stage() != StageIntro {
		t.Errorf("expected intro for a past date, got %s", s.Stage())
	}
}

func TestSessionVerifyAge(t *testing.T) {
	h := newHarness()
	s := NewSession(testEvent(), mazePhotos(), h.config())

	ok, err := s.VerifyAge("29")
	if err != nil || ok {
		t.Fatalf("wrong guess: got ok=%v err=%v, want soft failure", ok, err)
	}
	if s.Stage() != StageIntro {
		t.Fatal("wrong guess must not advance the stage")
	}

	// Stringwise semantics: leading zeros are not forgiven, whitespace is.
	if ok, _ := s.VerifyAge("030"); ok {
		t.Error("\"030\" must not verify against 30")
	}
	ok, err = s.VerifyAge(" 30 ")
	if err != nil || !ok {
		t.Fatalf("trimmed correct guess: got ok=%v err=%v", ok, err)
	}
	if s.Stage() != StageMaze {
		t.Fatalf("expected maze after verification, got %s", s.Stage())
	}
	if !s.Verified() {
		t.Error("session should remember verification")
	}
}

func TestSessionFullSequence(t *testing.T) {
	h := newHarness()
	s := NewSession(testEvent(), mazePhotos(), h.config())

	if _, err := s.VerifyAge("30"); err != nil {
		t.Fatal(err)
	}

	for _, step := range []struct{ id, answer string }{
		{"p1", "paris"}, {"p2", "Rome"}, {"p3", "skip"},
	} {
		if _, err := s.OpenPhoto(step.id); err != nil {
			t.Fatalf("open %s: %v", step.id, err)
		}
		res, err := s.SubmitRiddle(step.answer)
		if err != nil || !res.Unlocked {
			t.Fatalf("submit %s: res=%+v err=%v", step.id, res, err)
		}
	}

	// Completion holds the maze stage until the grace delay elapses.
	if s.Stage() != StageMaze {
		t.Fatalf("expected maze during grace delay, got %s", s.Stage())
	}
	h.sched.fire()
	if s.Stage() != StageRansomware {
		t.Fatalf("expected ransomware, got %s", s.Stage())
	}

	if ok, _ := s.SubmitPhrase("im old"); ok {
		t.Fatal("wrong phrase accepted")
	}
	ok, err := s.SubmitPhrase("I Am Old")
	if err != nil || !ok {
		t.Fatalf("phrase: ok=%v err=%v", ok, err)
	}
	h.sched.fire()
	if s.Stage() != StageEnvelope {
		t.Fatalf("expected envelope, got %s", s.Stage())
	}

	if err := s.OpenEnvelope(); err != nil {
		t.Fatal(err)
	}
	// The gesture cannot be undone or doubled.
	if err := s.OpenEnvelope(); err != nil {
		t.Fatal(err)
	}
	h.sched.fire()
	if s.Stage() != StageCelebration {
		t.Fatalf("expected celebration, got %s", s.Stage())
	}
	if got := h.stageChanges(StageCelebration); got != 1 {
		t.Errorf("celebration announced %d times, want 1", got)
	}
}

func TestSessionStageMonotonicity(t *testing.T) {
	h := newHarness()
	s := NewSession(testEvent(), mazePhotos(), h.config())
	s.VerifyAge("30")

	// From maze, no input can return to intro or locked.
	if _, err := s.VerifyAge("30"); err != ErrWrongStage {
		t.Errorf("re-verifying from maze: got %v, want ErrWrongStage", err)
	}
	if _, err := s.SubmitPhrase("i am old"); err != ErrWrongStage {
		t.Errorf("phrase from maze: got %v, want ErrWrongStage", err)
	}
	if err := s.OpenEnvelope(); err != ErrWrongStage {
		t.Errorf("envelope from maze: got %v, want ErrWrongStage", err)
	}
	if s.Stage() != StageMaze {
		t.Fatalf("stage drifted to %s", s.Stage())
	}
}

func TestSessionSkipSuppressesCompletionTimer(t *testing.T) {
	h := newHarness()
	s := NewSession(testEvent(), mazePhotos(), h.config())
	s.VerifyAge("30")

	// Earn the escape valve.
	s.OpenPhoto("p1")
	for i := 0; i < 3; i++ {
		s.SubmitRiddle("wrong")
	}

	// Complete the maze properly so the grace timer is pending...
	s.SubmitRiddle("paris")
	s.OpenPhoto("p2")
	s.SubmitRiddle("Rome")
	s.OpenPhoto("p3")
	res, _ := s.SubmitRiddle("")
	if !res.MazeComplete {
		t.Fatal("expected maze completion")
	}

	// ...then skip before it fires. The stale timer must no-op.
	if err := s.SkipToReveal(); err != nil {
		t.Fatalf("skip: %v", err)
	}
	if s.Stage() != StageRansomware {
		t.Fatalf("expected ransomware after skip, got %s", s.Stage())
	}
	h.sched.fire()
	if s.Stage() != StageRansomware {
		t.Fatalf("stale completion timer moved the stage to %s", s.Stage())
	}
	if got := h.stageChanges(StageRansomware); got != 1 {
		t.Errorf("ransomware announced %d times, want 1", got)
	}
}

func TestSessionSkipRequiresFailures(t *testing.T) {
	h := newHarness()
	s := NewSession(testEvent(), mazePhotos(), h.config())
	s.VerifyAge("30")

	if err := s.SkipToReveal(); err != ErrSkipUnavailable {
		t.Errorf("expected ErrSkipUnavailable, got %v", err)
	}
}

func TestSessionEmptyMazeNeedsExplicitSkip(t *testing.T) {
	h := newHarness()
	s := NewSession(testEvent(), nil, h.config())
	s.VerifyAge("30")

	// Zero photos: no auto-advance, but the skip is available at once.
	if s.Stage() != StageMaze {
		t.Fatalf("expected maze, got %s", s.Stage())
	}
	view := s.MazeView()
	if !view.Empty || !view.SkipAvailable {
		t.Fatalf("expected empty maze with skip available, got %+v", view)
	}
	if err := s.SkipToReveal(); err != nil {
		t.Fatal(err)
	}
	if s.Stage() != StageRansomware {
		t.Fatalf("expected ransomware, got %s", s.Stage())
	}
}

func TestSessionPhraseIdempotentWhileDecrypting(t *testing.T) {
	h := newHarness()
	s := NewSession(testEvent(), nil, h.config())
	s.VerifyAge("30")
	s.SkipToReveal()

	if ok, _ := s.SubmitPhrase("i am old"); !ok {
		t.Fatal("phrase rejected")
	}
	// Second submit during the decrypt animation is already accepted and
	// must not schedule a second transition.
	if ok, _ := s.SubmitPhrase("i am old"); !ok {
		t.Fatal("repeat phrase should stay accepted")
	}
	h.sched.fire()
	if s.Stage() != StageEnvelope {
		t.Fatalf("expected envelope, got %s", s.Stage())
	}
	if got := h.stageChanges(StageEnvelope); got != 1 {
		t.Errorf("envelope announced %d times, want 1", got)
	}
}

func TestSessionRestoreCelebration(t *testing.T) {
	h := newHarness()
	s := NewSession(testEvent(), mazePhotos(), h.config())

	s.RestoreCelebration()
	if s.Stage() != StageCelebration {
		t.Fatalf("expected celebration, got %s", s.Stage())
	}
	if !s.Verified() {
		t.Error("restored session counts as verified")
	}
}

func TestSessionCloseFencesTimers(t *testing.T) {
	h := newHarness()
	s := NewSession(testEvent(), nil, h.config())
	s.VerifyAge("30")
	s.SkipToReveal()
	s.SubmitPhrase("i am old")

	s.Close()
	h.sched.fire()
	if s.Stage() != StageRansomware {
		t.Fatalf("timer fired after Close, stage %s", s.Stage())
	}
}
