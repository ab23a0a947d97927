package server

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/iAMv1/PhotoPileMemory-sub000/internal/card"
)

// SeedDemo creates the demo organizer and a fully furnished demo event if
// it does not exist yet. Idempotent: keyed on the demo slug.
func SeedDemo(ctx context.Context, logger *slog.Logger, store Store) error {
	if _, err := store.EventBySlug(ctx, "maria-30"); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	organizerID, err := store.CreateOrganizer(ctx, "demo@example.com", string(hash))
	if err != nil {
		return err
	}

	ev, err := store.CreateEvent(ctx, card.Event{
		Slug:               "maria-30",
		OrganizerID:        organizerID,
		BirthdayPersonName: "Maria",
		BirthdayPersonAge:  30,
		ThemeColor:         "#ff69b4",
	})
	if err != nil {
		return err
	}

	photos := []card.MazePhoto{
		{
			EventID:         ev.ID,
			Src:             "photos/beach.jpg",
			ContributorName: "Carlos",
			MemoryClue:      "That week the tide stole our sandals",
			Glitched:        true,
			RiddleType:      card.RiddleText,
			RiddleQuestion:  "Which city did we get lost in at 3am?",
			RiddleAnswer:    "Paris",
		},
		{
			EventID:         ev.ID,
			Src:             "photos/graduation.jpg",
			ContributorName: "Lucia",
			MemoryClue:      "The hat that never fit",
			VoiceNote:       "notes/lucia.ogg",
			Glitched:        true,
			RiddleType:      card.RiddleMCQ,
			RiddleQuestion:  "Where was the afterparty?",
			RiddleAnswer:    "Rooftop",
			RiddleOptions:   []string{"Basement", "Rooftop", "Garden"},
		},
		{
			EventID:         ev.ID,
			Src:             "photos/roadtrip.jpg",
			ContributorName: "Diego",
			MemoryClue:      "No riddle, just a good day",
			Glitched:        true,
		},
	}
	for _, p := range photos {
		if _, err := store.AddMazePhoto(ctx, p); err != nil {
			return err
		}
	}

	wishes := []card.Wish{
		{EventID: ev.ID, AuthorName: "Carlos", Message: "Feliz cumple! Thirty looks good on you."},
		{EventID: ev.ID, AuthorName: "Lucia", Message: "To many more 3am adventures."},
	}
	for _, w := range wishes {
		if _, err := store.AddWish(ctx, w); err != nil {
			return err
		}
	}

	capsules := []card.TimeCapsuleMessage{
		{EventID: ev.ID, Hour: 0, AuthorName: "Diego", Message: "Midnight: it's officially your day."},
		{EventID: ev.ID, Hour: 20, AuthorName: "Carlos", Message: "Evening toast, raise a glass!"},
	}
	for _, m := range capsules {
		if _, err := store.AddCapsuleMessage(ctx, m); err != nil {
			return err
		}
	}

	logger.Info("demo event seeded", "slug", ev.Slug)
	return nil
}
