// Package archive is the read-only projection of archived notes plus
// the single reactivation operation. No edit, delete, search, or
// batch operation is exposed here.
package archive

import (
	"sort"
	"time"

	"github.com/starford/dagaz/internal/indexstore"
	"github.com/starford/dagaz/internal/lifecycle"
	"github.com/starford/dagaz/internal/models"
)

// Placeholder is shown for archived notes with no cached preview.
const Placeholder = "(no preview)"

// Entry is one row in the archive view.
type Entry struct {
	ID           string    `json:"id"`
	Preview      string    `json:"preview"`
	LastActiveAt time.Time `json:"lastActiveAt"`
}

// Adapter projects archived notes and forwards reactivation to the
// lifecycle engine.
type Adapter struct {
	store  *indexstore.Store
	engine *lifecycle.Engine
}

// NewAdapter creates an archive adapter over the store and engine.
func NewAdapter(store *indexstore.Store, engine *lifecycle.Engine) *Adapter {
	return &Adapter{store: store, engine: engine}
}

// ListArchived returns archived notes most-recently-active first.
func (a *Adapter) ListArchived() []Entry {
	var out []Entry
	a.store.View(func(doc *models.Document) {
		for i := range doc.Notes {
			n := &doc.Notes[i]
			if !n.Archived {
				continue
			}
			preview := n.CachedPreview
			if preview == "" {
				preview = Placeholder
			}
			out = append(out, Entry{
				ID:           n.ID,
				Preview:      preview,
				LastActiveAt: n.LastActiveAt,
			})
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActiveAt.After(out[j].LastActiveAt)
	})
	if out == nil {
		out = []Entry{}
	}
	return out
}

// Reactivate performs the archived-to-active transition. Idempotent:
// a second call for an already-active note reports no transition and
// assigns no second window.
func (a *Adapter) Reactivate(id string) (models.Note, bool, error) {
	return a.engine.Reactivate(id, nil)
}
