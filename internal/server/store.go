package server

import (
	"context"
	"errors"

	"github.com/iAMv1/PhotoPileMemory-sub000/internal/card"
)

var ErrNotFound = errors.New("not found")

// sessionMarker is the persisted slice of a recipient session: the bits the
// celebration view needs after a reload. Everything else (unlocked set,
// failed attempts, selection) is deliberately session-local in memory.
type sessionMarker struct {
	Token              string
	EventID            string
	VerifiedAge        string
	VerifiedName       string
	CelebrationReached bool
}

// Well-known config keys served read-through from the events row. The event
// record is the single source of truth; the config surface is an alias view.
const (
	configKeyAge  = "birthday_person_age"
	configKeyName = "birthday_person_name"
)

type Store interface {
	CreateEvent(ctx context.Context, ev card.Event) (card.Event, error)
	EventBySlug(ctx context.Context, slug string) (card.Event, error)
	EventByID(ctx context.Context, id string) (card.Event, error)
	UpdateEventPerson(ctx context.Context, id, name string, age int) error

	AddMazePhoto(ctx context.Context, p card.MazePhoto) (card.MazePhoto, error)
	ListMazePhotos(ctx context.Context, eventID string) ([]card.MazePhoto, error)

	AddWish(ctx context.Context, w card.Wish) (card.Wish, error)
	ListWishes(ctx context.Context, eventID string) ([]card.Wish, error)

	AddCapsuleMessage(ctx context.Context, m card.TimeCapsuleMessage) (card.TimeCapsuleMessage, error)
	ListCapsuleMessages(ctx context.Context, eventID string) ([]card.TimeCapsuleMessage, error)

	ConfigGet(ctx context.Context, eventID, key string) (string, error)
	ConfigSet(ctx context.Context, eventID, key, value string) error

	CreateOrganizer(ctx context.Context, email, passwordHash string) (string, error)
	OrganizerByEmail(ctx context.Context, email string) (organizerID, passwordHash string, err error)
	CreateOrganizerSession(ctx context.Context, organizerID string) (sessionID string, err error)
	DeleteOrganizerSession(ctx context.Context, sessionID string) error
	OrganizerFromSession(ctx context.Context, sessionID string) (organizerSession, error)

	CreateRecipientSession(ctx context.Context, token, eventID string) error
	SaveVerification(ctx context.Context, token, age, name string) error
	MarkCelebration(ctx context.Context, token string) error
	SessionMarker(ctx context.Context, token string) (sessionMarker, error)
}
