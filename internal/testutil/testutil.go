// Package testutil provides shared test helpers for setting up index
// and content stores.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/dagaz/internal/contentstore"
	"github.com/starford/dagaz/internal/indexstore"
)

// Week is the default expiry used by tests.
const Week = 7 * 24 * time.Hour

// TestStore creates an index store over a temp file that is cleaned up
// automatically.
func TestStore(t *testing.T) *indexstore.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.json")
	store, err := indexstore.Open(path, Week)
	if err != nil {
		t.Fatalf("indexstore.Open: %v", err)
	}
	return store
}

// TestContent creates a temporary SQLite content store that is cleaned
// up automatically.
func TestContent(t *testing.T) contentstore.Provider {
	t.Helper()
	dbFile, err := os.CreateTemp("", "dagaz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	content, err := contentstore.OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { content.Close() })
	return content
}
