package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/archive"
	"github.com/starford/dagaz/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, adapter *archive.Adapter, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, adapter)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Note commands.
	r.Post("/notes", h.CreateNote)
	r.Get("/notes", h.ListNotes)
	r.Get("/notes/{id}/content", h.GetContent)
	r.Put("/notes/{id}/content", h.SaveContent)
	r.Put("/notes/{id}/window", h.UpdateWindow)
	r.Post("/notes/{id}/activity", h.RecordActivity)
	r.Put("/notes/{id}/pinned", h.SetPinned)
	r.Delete("/notes/{id}", h.DeleteNote)

	// Archive projection and its single mutation.
	r.Get("/archive", h.ListArchive)
	r.Post("/archive/{id}/reactivate", h.Reactivate)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
