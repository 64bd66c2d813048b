// Package lifecycle implements the state machine that moves notes
// between active, pinned, and archived.
package lifecycle

import (
	"time"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/indexstore"
	"github.com/starford/dagaz/internal/models"
)

// DefaultWindow is the geometry assigned when a note reactivates
// without the caller supplying one.
var DefaultWindow = models.WindowGeometry{X: 120, Y: 120, Width: 340, Height: 300}

// Engine applies the expiration rule and the archive/reactivate
// transitions over the document owned by the index store.
type Engine struct {
	store  *indexstore.Store
	expiry time.Duration
	now    func() time.Time
}

// New creates an engine bound to the store. expiry is the inactivity
// window after which an unpinned note fades to the archive.
func New(store *indexstore.Store, expiry time.Duration) *Engine {
	return &Engine{store: store, expiry: expiry, now: time.Now}
}

// ExpireScan archives every unpinned note whose last activity is older
// than the expiry window, clearing its window geometry. It runs once
// per process start, before any note window is shown, and is
// idempotent: a second scan without new activity changes nothing.
func (e *Engine) ExpireScan() (int, error) {
	now := e.now()
	archived := 0
	err := e.store.Update(func(doc *models.Document) error {
		for i := range doc.Notes {
			n := &doc.Notes[i]
			if n.Archived || n.Pinned {
				continue
			}
			if now.Sub(n.LastActiveAt) > e.expiry {
				n.Archived = true
				n.Window = nil
				archived++
			}
		}
		return nil
	})
	return archived, err
}

// MarkActive records qualifying activity: lastActiveAt moves to now
// and expireAt follows for unpinned notes. Activity on an archived
// note is ignored; only a substantive edit brings it back.
func (e *Engine) MarkActive(id string) error {
	now := e.now()
	return e.store.Update(func(doc *models.Document) error {
		n := doc.FindNote(id)
		if n == nil {
			return apperr.ErrNotFound
		}
		if n.Archived {
			return nil
		}
		n.LastActiveAt = now
		return nil
	})
}

// SetPinned toggles the pin override. Pinning suspends expiration
// immediately; unpinning resumes the expiration clock against the
// stored lastActiveAt without refreshing it, so a long-pinned dormant
// note may archive on the next startup scan. The persisted note is
// returned so callers can roll back optimistic UI state on failure.
func (e *Engine) SetPinned(id string, pinned bool) (models.Note, error) {
	var out models.Note
	err := e.store.Update(func(doc *models.Document) error {
		n := doc.FindNote(id)
		if n == nil {
			return apperr.ErrNotFound
		}
		n.Pinned = pinned
		return nil
	})
	if err != nil {
		return models.Note{}, err
	}
	out, _ = e.store.Note(id)
	return out, nil
}

// Reactivate performs the archived-to-active transition as one atomic
// update: archived cleared, lastActiveAt set to now, expireAt pushed
// out, and a window assigned (geom, or DefaultWindow when nil).
//
// Idempotent: reactivating a note that is already active is a no-op
// and reports transitioned=false, so two rapid calls produce one
// transition and one window assignment.
func (e *Engine) Reactivate(id string, geom *models.WindowGeometry) (models.Note, bool, error) {
	now := e.now()
	transitioned := false
	err := e.store.Update(func(doc *models.Document) error {
		n := doc.FindNote(id)
		if n == nil {
			return apperr.ErrNotFound
		}
		if !n.Archived {
			return nil
		}
		n.Archived = false
		n.LastActiveAt = now
		if geom != nil {
			g := *geom
			n.Window = &g
		} else {
			g := DefaultWindow
			n.Window = &g
		}
		transitioned = true
		return nil
	})
	if err != nil {
		return models.Note{}, false, err
	}
	out, _ := e.store.Note(id)
	return out, transitioned, nil
}
