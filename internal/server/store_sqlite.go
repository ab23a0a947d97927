package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/iAMv1/PhotoPileMemory-sub000/internal/card"
)

// SQLiteStore implements Store on a migrated SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func newID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

const eventColumns = `id, slug, organizer_id, birthday_person_name, birthday_person_age,
	COALESCE(birthday_date, ''), theme_color`

func scanEvent(row *sql.Row) (card.Event, error) {
	var ev card.Event
	err := row.Scan(&ev.ID, &ev.Slug, &ev.OrganizerID, &ev.BirthdayPersonName,
		&ev.BirthdayPersonAge, &ev.BirthdayDate, &ev.ThemeColor)
	if errors.Is(err, sql.ErrNoRows) {
		return ev, ErrNotFound
	}
	return ev, err
}

func (s *SQLiteStore) CreateEvent(ctx context.Context, ev card.Event) (card.Event, error) {
	ev.ID = newID()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, slug, organizer_id, birthday_person_name,
			birthday_person_age, birthday_date, theme_color)
		VALUES (?, ?, ?, ?, ?, NULLIF(?, ''), ?)
	`, ev.ID, ev.Slug, ev.OrganizerID, ev.BirthdayPersonName,
		ev.BirthdayPersonAge, ev.BirthdayDate, ev.ThemeColor)
	return ev, err
}

func (s *SQLiteStore) EventBySlug(ctx context.Context, slug string) (card.Event, error) {
	return scanEvent(s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE slug = ?`, slug))
}

func (s *SQLiteStore) EventByID(ctx context.Context, id string) (card.Event, error) {
	return scanEvent(s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
}

func (s *SQLiteStore) UpdateEventPerson(ctx context.Context, id, name string, age int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE events SET birthday_person_name = ?, birthday_person_age = ?
		WHERE id = ?
	`, name, age, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) AddMazePhoto(ctx context.Context, p card.MazePhoto) (card.MazePhoto, error) {
	p.ID = newID()
	options, err := json.Marshal(p.RiddleOptions)
	if err != nil {
		return card.MazePhoto{}, err
	}
	glitched := 0
	if p.Glitched {
		glitched = 1
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO maze_photos (id, event_id, src, contributor_name, memory_clue,
			voice_note, is_glitched, riddle_type, riddle_question, riddle_answer, riddle_options)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.EventID, p.Src, p.ContributorName, p.MemoryClue,
		p.VoiceNote, glitched, string(p.RiddleType), p.RiddleQuestion, p.RiddleAnswer, string(options))
	return p, err
}

// ListMazePhotos returns only glitched photos. Those are the maze.
func (s *SQLiteStore) ListMazePhotos(ctx context.Context, eventID string) ([]card.MazePhoto, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, src, contributor_name, memory_clue, voice_note,
			riddle_type, riddle_question, riddle_answer, riddle_options
		FROM maze_photos
		WHERE event_id = ? AND is_glitched = 1
		ORDER BY created_at, id
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []card.MazePhoto
	for rows.Next() {
		var p card.MazePhoto
		var riddleType, options string
		if err := rows.Scan(&p.ID, &p.EventID, &p.Src, &p.ContributorName, &p.MemoryClue,
			&p.VoiceNote, &riddleType, &p.RiddleQuestion, &p.RiddleAnswer, &options); err != nil {
			return nil, err
		}
		p.Glitched = true
		p.RiddleType = card.RiddleType(riddleType)
		if err := json.Unmarshal([]byte(options), &p.RiddleOptions); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

func (s *SQLiteStore) AddWish(ctx context.Context, w card.Wish) (card.Wish, error) {
	w.ID = newID()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wishes (id, event_id, author_name, message)
		VALUES (?, ?, ?, ?)
	`, w.ID, w.EventID, w.AuthorName, w.Message)
	return w, err
}

func (s *SQLiteStore) ListWishes(ctx context.Context, eventID string) ([]card.Wish, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, author_name, message
		FROM wishes WHERE event_id = ? ORDER BY created_at, id
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wishes []card.Wish
	for rows.Next() {
		var w card.Wish
		if err := rows.Scan(&w.ID, &w.EventID, &w.AuthorName, &w.Message); err != nil {
			return nil, err
		}
		wishes = append(wishes, w)
	}
	return wishes, rows.Err()
}

func (s *SQLiteStore) AddCapsuleMessage(ctx context.Context, m card.TimeCapsuleMessage) (card.TimeCapsuleMessage, error) {
	m.ID = newID()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO time_capsule_messages (id, event_id, hour, author_name, message)
		VALUES (?, ?, ?, ?, ?)
	`, m.ID, m.EventID, m.Hour, m.AuthorName, m.Message)
	return m, err
}

func (s *SQLiteStore) ListCapsuleMessages(ctx context.Context, eventID string) ([]card.TimeCapsuleMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, hour, author_name, message
		FROM time_capsule_messages WHERE event_id = ? ORDER BY hour, id
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []card.TimeCapsuleMessage
	for rows.Next() {
		var m card.TimeCapsuleMessage
		if err := rows.Scan(&m.ID, &m.EventID, &m.Hour, &m.AuthorName, &m.Message); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *SQLiteStore) ConfigGet(ctx context.Context, eventID, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM event_config WHERE event_id = ? AND key = ?
	`, eventID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

func (s *SQLiteStore) ConfigSet(ctx context.Context, eventID, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event_config (event_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT(event_id, key) DO UPDATE SET value = excluded.value
	`, eventID, key, value)
	return err
}

func (s *SQLiteStore) CreateOrganizer(ctx context.Context, email, passwordHash string) (string, error) {
	id := newID()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO organizers (id, email, password_hash) VALUES (?, ?, ?)
	`, id, email, passwordHash)
	return id, err
}

func (s *SQLiteStore) OrganizerByEmail(ctx context.Context, email string) (string, string, error) {
	var organizerID, passwordHash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM organizers WHERE email = ?
	`, email).Scan(&organizerID, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return organizerID, passwordHash, err
}

func (s *SQLiteStore) CreateOrganizerSession(ctx context.Context, organizerID string) (string, error) {
	id := newID()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO organizer_sessions (id, organizer_id) VALUES (?, ?)
	`, id, organizerID)
	return id, err
}

func (s *SQLiteStore) DeleteOrganizerSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM organizer_sessions WHERE id = ?`, sessionID)
	return err
}

func (s *SQLiteStore) OrganizerFromSession(ctx context.Context, sessionID string) (organizerSession, error) {
	var sess organizerSession
	err := s.db.QueryRowContext(ctx, `
		SELECT o.id, o.email
		FROM organizer_sessions s
		JOIN organizers o ON o.id = s.organizer_id
		WHERE s.id = ?
	`, sessionID).Scan(&sess.OrganizerID, &sess.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return organizerSession{}, errNoOrganizerSession
	}
	return sess, err
}

func (s *SQLiteStore) CreateRecipientSession(ctx context.Context, token, eventID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recipient_sessions (token, event_id) VALUES (?, ?)
		ON CONFLICT(token) DO NOTHING
	`, token, eventID)
	return err
}

// SaveVerification caches the verified age and display name for the
// celebration view. Safe to repeat: the write is a plain upsert.
func (s *SQLiteStore) SaveVerification(ctx context.Context, token, age, name string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE recipient_sessions SET verified_age = ?, verified_name = ?
		WHERE token = ?
	`, age, name, token)
	return err
}

// MarkCelebration is set the instant the session reaches celebration and is
// never cleared, so a full-page reload can resume straight there.
func (s *SQLiteStore) MarkCelebration(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE recipient_sessions SET celebration_reached = 1 WHERE token = ?
	`, token)
	return err
}

func (s *SQLiteStore) SessionMarker(ctx context.Context, token string) (sessionMarker, error) {
	var m sessionMarker
	var reached int
	err := s.db.QueryRowContext(ctx, `
		SELECT token, event_id, verified_age, verified_name, celebration_reached
		FROM recipient_sessions WHERE token = ?
	`, token).Scan(&m.Token, &m.EventID, &m.VerifiedAge, &m.VerifiedName, &reached)
	if errors.Is(err, sql.ErrNoRows) {
		return sessionMarker{}, ErrNotFound
	}
	m.CelebrationReached = reached == 1
	return m, err
}
