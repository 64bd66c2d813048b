// Package models defines the domain types for Dagaz.
package models

import "time"

// SchemaVersion is the current index document schema tag.
const SchemaVersion = 1

// AppName is the diagnostic application name stamped into new documents.
const AppName = "dagaz"

// WindowGeometry is the position and size of an open note window.
type WindowGeometry struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Note is one record in the index document. The document is the sole
// source of truth for a note's existence, timing, and visibility; the
// content body lives elsewhere and is opaque to this model.
//
// Window is non-nil only while the note is active and open. ExpireAt
// is derived (LastActiveAt plus the configured expiry) and is ignored
// entirely while Pinned is true.
type Note struct {
	ID            string          `json:"id"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastActiveAt  time.Time       `json:"lastActiveAt"`
	ExpireAt      time.Time       `json:"expireAt,omitzero"`
	Archived      bool            `json:"archived"`
	Pinned        bool            `json:"pinned"`
	Window        *WindowGeometry `json:"window"`
	CachedPreview string          `json:"cachedPreview,omitempty"`
}

// AppMeta is diagnostic-only document metadata. CreatedAt is set once
// at first creation and never modified; RebuildAt is set only when a
// rebuild occurs. No lifecycle decision may read this block.
type AppMeta struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	RebuildAt time.Time `json:"rebuildAt,omitzero"`
}

// Document is the whole truth, persisted as one unit.
type Document struct {
	Version int     `json:"version"`
	App     AppMeta `json:"app"`
	Notes   []Note  `json:"notes"`
}

// FindNote returns a pointer into Notes for the given id, or nil.
// The pointer is only valid while the caller holds the store lock.
func (d *Document) FindNote(id string) *Note {
	for i := range d.Notes {
		if d.Notes[i].ID == id {
			return &d.Notes[i]
		}
	}
	return nil
}
