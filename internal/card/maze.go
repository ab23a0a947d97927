package card

import "errors"

var (
	// ErrPhotoNotFound means the photo id is not part of this maze.
	ErrPhotoNotFound = errors.New("photo not found in maze")
	// ErrNoSelection means submit was called with no photo open.
	ErrNoSelection = errors.New("no photo selected")
)

// skipThreshold is how many failed attempts, accumulated across the whole
// maze, unlock the manual skip-to-reveal escape valve.
const skipThreshold = 3

// Maze tracks which photos of the memory maze have been revealed within one
// recipient session. The unlocked set only ever grows; the completion signal
// fires exactly once. Not safe for concurrent use; the owning Session
// serializes access.
type Maze struct {
	photos   []MazePhoto
	byID     map[string]int
	unlocked map[string]bool
	selected string
	failed   int
	complete bool
}

func NewMaze(photos []MazePhoto) *Maze {
	m := &Maze{
		photos:   photos,
		byID:     make(map[string]int, len(photos)),
		unlocked: make(map[string]bool, len(photos)),
	}
	for i, p := range photos {
		m.byID[p.ID] = i
	}
	return m
}

// Open selects a photo regardless of lock state: re-opening an unlocked
// photo shows it revealed, not the challenge.
func (m *Maze) Open(id string) (MazePhoto, error) {
	i, ok := m.byID[id]
	if !ok {
		return MazePhoto{}, ErrPhotoNotFound
	}
	m.selected = id
	return m.photos[i], nil
}

// Close clears the selection without side effects. Closing a riddle is an
// explicit skip and never unlocks a riddle-protected photo.
func (m *Maze) Close() {
	m.selected = ""
}

// Submit checks the response against the selected photo's riddle. On success
// the photo joins the unlocked set and the selection clears; on failure the
// challenge stays open and the maze-wide failure counter grows. completed is
// true only the single time the last photo unlocks.
func (m *Maze) Submit(response string) (photo MazePhoto, unlocked, completed bool, err error) {
	if m.selected == "" {
		return MazePhoto{}, false, false, ErrNoSelection
	}
	photo = m.photos[m.byID[m.selected]]

	if !AttemptUnlock(photo, response) {
		m.failed++
		return photo, false, false, nil
	}

	m.unlocked[photo.ID] = true
	m.selected = ""
	return photo, true, m.checkComplete(), nil
}

// ForceComplete raises the completion signal without requiring a full
// unlock. It reports false if the maze has already completed, so the signal
// stays one-shot even across the manual skip path.
func (m *Maze) ForceComplete() bool {
	if m.complete {
		return false
	}
	m.complete = true
	return true
}

// checkComplete fires the one-shot completion when every photo is unlocked.
// An empty maze never completes on its own: the recipient gets an explicit
// empty state and the skip affordance instead of a vacuous auto-advance.
func (m *Maze) checkComplete() bool {
	if m.complete || len(m.photos) == 0 {
		return false
	}
	if len(m.unlocked) != len(m.photos) {
		return false
	}
	m.complete = true
	return true
}

func (m *Maze) IsUnlocked(id string) bool { return m.unlocked[id] }

// UnlockedIDs returns the unlocked photo ids in maze order.
func (m *Maze) UnlockedIDs() []string {
	ids := make([]string, 0, len(m.unlocked))
	for _, p := range m.photos {
		if m.unlocked[p.ID] {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (m *Maze) Photos() []MazePhoto  { return m.photos }
func (m *Maze) SelectedID() string   { return m.selected }
func (m *Maze) FailedAttempts() int  { return m.failed }
func (m *Maze) Empty() bool          { return len(m.photos) == 0 }
func (m *Maze) Complete() bool       { return m.complete }

// SkipAvailable reports whether the anti-frustration skip may be offered:
// after enough failures anywhere in the maze, or immediately when the maze
// has no photos at all.
func (m *Maze) SkipAvailable() bool {
	return m.failed >= skipThreshold || len(m.photos) == 0
}
