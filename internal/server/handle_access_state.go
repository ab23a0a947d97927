package server

import (
	"net/http"

	"github.com/iAMv1/PhotoPileMemory-sub000/internal/card"
)

// MazePhotoView is a maze photo as the recipient may see it: the riddle but
// never its answer, and the photo content only once unlocked.
type MazePhotoView struct {
	ID              string   `json:"id"`
	ContributorName string   `json:"contributorName"`
	MemoryClue      string   `json:"memoryClue"`
	HasRiddle       bool     `json:"hasRiddle"`
	RiddleType      string   `json:"riddleType,omitempty"`
	RiddleQuestion  string   `json:"riddleQuestion,omitempty"`
	RiddleOptions   []string `json:"riddleOptions,omitempty"`
	Unlocked        bool     `json:"unlocked"`
	Src             string   `json:"src,omitempty"`
	VoiceNote       string   `json:"voiceNote,omitempty"`
}

type MazeStateView struct {
	Empty          bool            `json:"empty"`
	Total          int             `json:"total"`
	UnlockedCount  int             `json:"unlockedCount"`
	FailedAttempts int             `json:"failedAttempts"`
	SkipAvailable  bool            `json:"skipAvailable"`
	Complete       bool            `json:"complete"`
	SelectedID     string          `json:"selectedId,omitempty"`
	Photos         []MazePhotoView `json:"photos"`
}

type AccessStateResponse struct {
	Stage        string          `json:"stage"`
	Countdown    *card.Breakdown `json:"countdown,omitempty"`
	Maze         *MazeStateView  `json:"maze,omitempty"`
	EventSlug    string          `json:"eventSlug"`
	ThemeColor   string          `json:"themeColor"`
	VerifiedName string          `json:"verifiedName,omitempty"`
}

func photoView(p card.MazePhoto, unlocked bool) MazePhotoView {
	v := MazePhotoView{
		ID:              p.ID,
		ContributorName: p.ContributorName,
		MemoryClue:      p.MemoryClue,
		HasRiddle:       p.HasRiddle(),
		Unlocked:        unlocked,
	}
	if p.HasRiddle() {
		v.RiddleType = string(p.RiddleType)
		v.RiddleQuestion = p.RiddleQuestion
		v.RiddleOptions = p.RiddleOptions
	}
	if unlocked {
		v.Src = p.Src
		v.VoiceNote = p.VoiceNote
	}
	return v
}

func mazeStateView(s *card.Session) *MazeStateView {
	mv := s.MazeView()
	view := &MazeStateView{
		Empty:          mv.Empty,
		Total:          mv.Total,
		UnlockedCount:  len(mv.Unlocked),
		FailedAttempts: mv.FailedAttempts,
		SkipAvailable:  mv.SkipAvailable,
		Complete:       mv.Complete,
		SelectedID:     mv.SelectedID,
		Photos:         []MazePhotoView{},
	}
	for _, p := range s.Photos() {
		view.Photos = append(view.Photos, photoView(p, s.IsUnlocked(p.ID)))
	}
	return view
}

func handleAccessState(sessions *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing access token")
			return
		}

		// Lazy tick so the locked → intro boundary is honored on the read
		// itself, not just on the registry's next second.
		s.Tick()

		ev := s.Event()
		resp := AccessStateResponse{
			Stage:      s.Stage().String(),
			EventSlug:  ev.Slug,
			ThemeColor: ev.ThemeColor,
		}
		if b, ok := s.Countdown(); ok {
			resp.Countdown = &b
		}
		if s.Verified() {
			resp.VerifiedName = ev.BirthdayPersonName
		}
		if !s.Stage().Before(card.StageMaze) {
			resp.Maze = mazeStateView(s)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
