package api

import (
	"github.com/starford/dagaz/internal/archive"
	"github.com/starford/dagaz/internal/models"
)

// CreateNoteRequest is the request body for creating a note. The
// fields are the initial window geometry.
type CreateNoteRequest struct {
	X      int `json:"x" example:"120"`
	Y      int `json:"y" example:"120"`
	Width  int `json:"width" example:"340" validate:"required"`
	Height int `json:"height" example:"300" validate:"required"`
}

// SaveContentRequest is the request body for saving a note's content.
type SaveContentRequest struct {
	Content string `json:"content" example:"# Groceries\nmilk, eggs"`
}

// WindowRequest is the request body for updating window geometry.
type WindowRequest struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PinRequest is the request body for toggling the pin override.
type PinRequest struct {
	Pinned bool `json:"pinned"`
}

// Note is the note response type (aliased from the domain layer).
type Note = models.Note

// ContentResponse wraps a note body.
type ContentResponse struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []Note `json:"notes" validate:"required"`
	Total int    `json:"total" example:"4"`
}

// ArchiveListResponse wraps the archive projection.
type ArchiveListResponse struct {
	Entries []archive.Entry `json:"entries" validate:"required"`
	Total   int             `json:"total" example:"2"`
}
