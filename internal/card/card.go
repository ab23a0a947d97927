// Package card defines the core domain types and the recipient unlock
// sequence for a birthday card event. It has zero external dependencies;
// everything here is pure Go.
package card

import "time"

// Event is one birthday celebration instance, identified by its slug.
type Event struct {
	ID                 string
	Slug               string
	OrganizerID        string
	BirthdayPersonName string
	BirthdayPersonAge  int
	BirthdayDate       string // "2006-01-02" local date; empty means always unlocked
	ThemeColor         string
	CreatedAt          time.Time
}

type RiddleType string

const (
	RiddleText RiddleType = "text"
	RiddleMCQ  RiddleType = "mcq"
)

// MazePhoto is a photo flagged for the riddle-gated unlock sequence.
// Src and VoiceNote are opaque references owned by the asset layer.
type MazePhoto struct {
	ID              string
	EventID         string
	Src             string
	ContributorName string
	MemoryClue      string
	VoiceNote       string
	Glitched        bool
	RiddleType      RiddleType
	RiddleQuestion  string
	RiddleAnswer    string
	RiddleOptions   []string // only for mcq
}

// HasRiddle reports whether the photo is protected by a challenge.
// A photo without a riddle is trivially unlockable.
func (p MazePhoto) HasRiddle() bool {
	return p.RiddleQuestion != "" && p.RiddleAnswer != ""
}

type Wish struct {
	ID         string
	EventID    string
	AuthorName string
	Message    string
	CreatedAt  time.Time
}

// TimeCapsuleMessage unlocks when the wall clock reaches Hour (0-23).
type TimeCapsuleMessage struct {
	ID         string
	EventID    string
	Hour       int
	AuthorName string
	Message    string
	CreatedAt  time.Time
}

// Unlocked reports whether the message is visible at the given time.
func (m TimeCapsuleMessage) Unlocked(now time.Time) bool {
	return now.Hour() >= m.Hour
}
