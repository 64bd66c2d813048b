// Package noteservice coordinates the index store, lifecycle engine,
// activity tracker, and content store behind the command surface the
// UI layer invokes.
package noteservice

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/starford/dagaz/internal/activity"
	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/checksum"
	"github.com/starford/dagaz/internal/contentstore"
	"github.com/starford/dagaz/internal/indexstore"
	"github.com/starford/dagaz/internal/lifecycle"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/noteid"
	"github.com/starford/dagaz/internal/preview"
)

// Publisher broadcasts lifecycle events to connected windows.
// A nil Publisher is valid and drops all events.
type Publisher interface {
	PublishNoteEvent(kind, id string)
}

// Service is the command surface of the core.
type Service struct {
	store   *indexstore.Store
	engine  *lifecycle.Engine
	tracker *activity.Tracker
	content contentstore.Provider
	events  Publisher
}

// NewService creates a service over the given collaborators.
func NewService(store *indexstore.Store, engine *lifecycle.Engine, tracker *activity.Tracker, content contentstore.Provider, events Publisher) *Service {
	return &Service{store: store, engine: engine, tracker: tracker, content: content, events: events}
}

func (s *Service) publish(kind, id string) {
	if s.events != nil {
		s.events.PublishNoteEvent(kind, id)
	}
}

// CreateNote appends a fresh note with the given window geometry and
// returns it. The id is generated here and is immutable afterwards.
func (s *Service) CreateNote(_ context.Context, geom models.WindowGeometry) (models.Note, error) {
	id := noteid.New()
	err := s.store.Update(func(doc *models.Document) error {
		g := geom
		doc.Notes = append(doc.Notes, models.Note{
			ID:     id,
			Window: &g,
		})
		return nil
	})
	if err != nil {
		return models.Note{}, err
	}
	n, _ := s.store.Note(id)
	s.publish("note.created", id)
	return n, nil
}

// LoadNoteContent returns the note's body. Viewing an archived note
// does not reactivate it.
func (s *Service) LoadNoteContent(_ context.Context, id string) (string, error) {
	if _, ok := s.store.Note(id); !ok {
		return "", apperr.ErrNotFound
	}
	text, err := s.content.LoadContent(id)
	if err != nil {
		slog.Error("content load failed", slog.String("id", id), slog.String("error", err.Error()))
		return "", fmt.Errorf("load content: %w", err)
	}
	return text, nil
}

// SaveNoteContent stores the body and, when the write is substantive
// (the bytes actually changed), refreshes the cached preview from the
// submitted text and records activity. A substantive save on an
// archived note reactivates it; saving identical bytes changes
// nothing.
//
// Content store failures are soft: they are logged and returned to
// the caller but never touch the index document.
func (s *Service) SaveNoteContent(_ context.Context, id, text string) (models.Note, error) {
	n, ok := s.store.Note(id)
	if !ok {
		return models.Note{}, apperr.ErrNotFound
	}

	substantive := true
	if old, err := s.content.LoadContent(id); err == nil {
		substantive = checksum.Sum([]byte(text)) != checksum.Sum([]byte(old))
	} else {
		slog.Warn("content compare failed", slog.String("id", id), slog.String("error", err.Error()))
	}

	if err := s.content.SaveContent(id, text); err != nil {
		slog.Error("content save failed", slog.String("id", id), slog.String("error", err.Error()))
		return models.Note{}, fmt.Errorf("save content: %w", err)
	}

	if !substantive {
		return n, nil
	}

	snippet := preview.FromText(text)
	if err := s.store.Update(func(doc *models.Document) error {
		p := doc.FindNote(id)
		if p == nil {
			return apperr.ErrNotFound
		}
		p.CachedPreview = snippet
		return nil
	}); err != nil {
		return models.Note{}, err
	}

	if n.Archived {
		out, transitioned, err := s.engine.Reactivate(id, nil)
		if err != nil {
			return models.Note{}, err
		}
		if transitioned {
			s.publish("note.reactivated", id)
		}
		return out, nil
	}

	// The debounced idle timer turns this edit into one activity
	// update once the user stops typing.
	s.tracker.Touch(id)
	s.publish("note.updated", id)
	n, _ = s.store.Note(id)
	return n, nil
}

// UpdateNoteWindow records new geometry for an open note. A
// move/resize release is a qualifying activity trigger.
func (s *Service) UpdateNoteWindow(_ context.Context, id string, geom models.WindowGeometry) error {
	err := s.store.Update(func(doc *models.Document) error {
		n := doc.FindNote(id)
		if n == nil {
			return apperr.ErrNotFound
		}
		if n.Archived {
			return apperr.ErrArchived
		}
		g := geom
		n.Window = &g
		return nil
	})
	if err != nil {
		return err
	}
	s.tracker.Touch(id)
	return nil
}

// RecordActivity is the Activity Tracker entry point for triggers the
// UI observed (window focus gain, move release).
func (s *Service) RecordActivity(_ context.Context, id string) error {
	if _, ok := s.store.Note(id); !ok {
		return apperr.ErrNotFound
	}
	s.tracker.Touch(id)
	return nil
}

// SetPinned toggles the pin override and returns the persisted note
// so the caller can roll back optimistic state on failure.
func (s *Service) SetPinned(_ context.Context, id string, pinned bool) (models.Note, error) {
	n, err := s.engine.SetPinned(id, pinned)
	if err != nil {
		return models.Note{}, err
	}
	s.publish("note.updated", id)
	return n, nil
}

// ListActiveNotes returns non-archived notes in document order.
func (s *Service) ListActiveNotes(_ context.Context) []models.Note {
	out := []models.Note{}
	s.store.View(func(doc *models.Document) {
		for _, n := range doc.Notes {
			if !n.Archived {
				out = append(out, n)
			}
		}
	})
	return out
}

// ListArchivedNotes returns archived notes most-recently-active first.
func (s *Service) ListArchivedNotes(_ context.Context) []models.Note {
	out := []models.Note{}
	s.store.View(func(doc *models.Document) {
		for _, n := range doc.Notes {
			if n.Archived {
				out = append(out, n)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActiveAt.After(out[j].LastActiveAt)
	})
	return out
}

// Reactivate performs the archived-to-active transition for the
// archive view.
func (s *Service) Reactivate(_ context.Context, id string) (models.Note, error) {
	n, transitioned, err := s.engine.Reactivate(id, nil)
	if err != nil {
		return models.Note{}, err
	}
	if transitioned {
		s.publish("note.reactivated", id)
	}
	return n, nil
}

// DeleteNote removes the note record and its content. This is the
// explicit, deliberate operation distinct from fading; the lifecycle
// engine never calls it.
func (s *Service) DeleteNote(_ context.Context, id string) error {
	found := false
	err := s.store.Update(func(doc *models.Document) error {
		for i := range doc.Notes {
			if doc.Notes[i].ID == id {
				doc.Notes = append(doc.Notes[:i], doc.Notes[i+1:]...)
				found = true
				return nil
			}
		}
		return apperr.ErrNotFound
	})
	if err != nil {
		return err
	}
	if found {
		if err := s.content.DeleteContent(id); err != nil {
			slog.Warn("content delete failed", slog.String("id", id), slog.String("error", err.Error()))
		}
		s.publish("note.deleted", id)
	}
	return nil
}
