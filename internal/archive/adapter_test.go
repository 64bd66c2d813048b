package archive

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/dagaz/internal/indexstore"
	"github.com/starford/dagaz/internal/lifecycle"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/noteid"
)

const week = 7 * 24 * time.Hour

func testAdapter(t *testing.T) (*Adapter, *indexstore.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.json")
	store, err := indexstore.Open(path, week)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	engine := lifecycle.New(store, week)
	return NewAdapter(store, engine), store
}

func seed(t *testing.T, store *indexstore.Store, notes ...models.Note) []string {
	t.Helper()
	ids := make([]string, len(notes))
	err := store.Update(func(doc *models.Document) error {
		for i, n := range notes {
			if n.ID == "" {
				n.ID = noteid.New()
			}
			ids[i] = n.ID
			doc.Notes = append(doc.Notes, n)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return ids
}

func TestListArchivedOrdersMostRecentFirst(t *testing.T) {
	a, store := testAdapter(t)
	now := time.Now()
	ids := seed(t, store,
		models.Note{Archived: true, LastActiveAt: now.Add(-20 * 24 * time.Hour), CachedPreview: "old"},
		models.Note{Archived: true, LastActiveAt: now.Add(-9 * 24 * time.Hour), CachedPreview: "new"},
		models.Note{LastActiveAt: now}, // active, excluded
	)

	entries := a.ListArchived()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].ID != ids[1] || entries[1].ID != ids[0] {
		t.Errorf("order = [%s %s], want most-recently-active first", entries[0].ID, entries[1].ID)
	}
}

func TestListArchivedPlaceholder(t *testing.T) {
	a, store := testAdapter(t)
	seed(t, store, models.Note{Archived: true, LastActiveAt: time.Now().Add(-9 * 24 * time.Hour)})

	entries := a.ListArchived()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Preview != Placeholder {
		t.Errorf("preview = %q, want placeholder", entries[0].Preview)
	}
}

func TestListArchivedEmpty(t *testing.T) {
	a, _ := testAdapter(t)
	entries := a.ListArchived()
	if entries == nil || len(entries) != 0 {
		t.Errorf("entries = %v, want empty non-nil slice", entries)
	}
}

func TestReactivateThroughAdapter(t *testing.T) {
	a, store := testAdapter(t)
	ids := seed(t, store, models.Note{Archived: true, LastActiveAt: time.Now().Add(-9 * 24 * time.Hour)})

	n, transitioned, err := a.Reactivate(ids[0])
	if err != nil {
		t.Fatalf("Reactivate: %v", err)
	}
	if !transitioned || n.Archived || n.Window == nil {
		t.Errorf("note = %+v, want active with a window", n)
	}

	// Second call is a no-op.
	_, transitioned, err = a.Reactivate(ids[0])
	if err != nil {
		t.Fatalf("second Reactivate: %v", err)
	}
	if transitioned {
		t.Error("second reactivate must not transition again")
	}
}
