package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/archive"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc     *noteservice.Service
	adapter *archive.Adapter
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service, adapter *archive.Adapter) *Handler {
	return &Handler{svc: svc, adapter: adapter}
}

func noteID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a new note with initial window geometry
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Initial geometry"
//	@Success		201		{object}	Note
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("width and height must be positive"))
		return
	}
	note, err := h.svc.CreateNote(r.Context(), models.WindowGeometry{X: req.X, Y: req.Y, Width: req.Width, Height: req.Height})
	if err != nil {
		slog.Error("create note failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List active (non-archived) notes
//	@Tags			notes
//	@Produce		json
//	@Success		200	{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes := h.svc.ListActiveNotes(r.Context())
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// GetContent handles GET /api/notes/{id}/content.
//
//	@Summary		Load a note's content body
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	ContentResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/content [get]
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	id := noteID(r)
	text, err := h.svc.LoadNoteContent(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("load content failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, ContentResponse{ID: id, Content: text})
}

// SaveContent handles PUT /api/notes/{id}/content.
//
//	@Summary		Save a note's content body
//	@Description	A substantive change refreshes the cached preview and counts as activity; on an archived note it reactivates the note.
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Note id"
//	@Param			body	body		SaveContentRequest	true	"New content"
//	@Success		200		{object}	Note
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/content [put]
func (h *Handler) SaveContent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	id := noteID(r)
	var req SaveContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	note, err := h.svc.SaveNoteContent(r.Context(), id, req.Content)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("save content failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// UpdateWindow handles PUT /api/notes/{id}/window.
//
//	@Summary		Record new window geometry for an open note
//	@Tags			notes
//	@Accept			json
//	@Param			id		path	string			true	"Note id"
//	@Param			body	body	WindowRequest	true	"New geometry"
//	@Success		204		"Geometry recorded"
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/window [put]
func (h *Handler) UpdateWindow(w http.ResponseWriter, r *http.Request) {
	id := noteID(r)
	var req WindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	err := h.svc.UpdateNoteWindow(r.Context(), id, models.WindowGeometry{X: req.X, Y: req.Y, Width: req.Width, Height: req.Height})
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrArchived):
			writeJSON(w, http.StatusConflict, errorBody("note is archived"))
		default:
			slog.Error("update window failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordActivity handles POST /api/notes/{id}/activity.
//
//	@Summary		Record a qualifying activity trigger (focus gain, move release)
//	@Tags			notes
//	@Param			id	path	string	true	"Note id"
//	@Success		204	"Activity recorded"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/activity [post]
func (h *Handler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	id := noteID(r)
	if err := h.svc.RecordActivity(r.Context(), id); err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetPinned handles PUT /api/notes/{id}/pinned.
//
//	@Summary		Toggle the pin override
//	@Description	The persisted note is returned; on error the caller must roll back its optimistic local state.
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Note id"
//	@Param			body	body		PinRequest	true	"Pin state"
//	@Success		200		{object}	Note
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/pinned [put]
func (h *Handler) SetPinned(w http.ResponseWriter, r *http.Request) {
	id := noteID(r)
	var req PinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	note, err := h.svc.SetPinned(r.Context(), id, req.Pinned)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("set pinned failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}.
//
//	@Summary		Explicitly delete a note and its content
//	@Tags			notes
//	@Param			id	path	string	true	"Note id"
//	@Success		204	"Note deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := noteID(r)
	if err := h.svc.DeleteNote(r.Context(), id); err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListArchive handles GET /api/archive.
//
//	@Summary		List archived notes, most-recently-active first
//	@Tags			archive
//	@Produce		json
//	@Success		200	{object}	ArchiveListResponse
//	@Security		BearerAuth
//	@Router			/archive [get]
func (h *Handler) ListArchive(w http.ResponseWriter, r *http.Request) {
	entries := h.adapter.ListArchived()
	writeJSON(w, http.StatusOK, ArchiveListResponse{Entries: entries, Total: len(entries)})
}

// Reactivate handles POST /api/archive/{id}/reactivate.
//
//	@Summary		Bring an archived note back to the active set
//	@Tags			archive
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	Note
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/archive/{id}/reactivate [post]
func (h *Handler) Reactivate(w http.ResponseWriter, r *http.Request) {
	id := noteID(r)
	note, err := h.svc.Reactivate(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("reactivate failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, note)
}
