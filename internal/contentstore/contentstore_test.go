package contentstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/dagaz/internal/noteid"
)

func backends(t *testing.T) map[string]Provider {
	t.Helper()

	dbFile, err := os.CreateTemp("", "dagaz-content-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })
	sq, err := OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { sq.Close() })

	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	return map[string]Provider{"sqlite": sq, "fs": fs}
}

func TestSaveAndLoad(t *testing.T) {
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id := noteid.New()
			if err := p.SaveContent(id, "# Groceries\nmilk"); err != nil {
				t.Fatalf("SaveContent: %v", err)
			}
			got, err := p.LoadContent(id)
			if err != nil {
				t.Fatalf("LoadContent: %v", err)
			}
			if got != "# Groceries\nmilk" {
				t.Errorf("content = %q", got)
			}
		})
	}
}

func TestLoadMissingIsEmpty(t *testing.T) {
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := p.LoadContent(noteid.New())
			if err != nil {
				t.Fatalf("LoadContent: %v", err)
			}
			if got != "" {
				t.Errorf("content = %q, want empty for unsaved note", got)
			}
		})
	}
}

func TestOverwrite(t *testing.T) {
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id := noteid.New()
			_ = p.SaveContent(id, "v1")
			if err := p.SaveContent(id, "v2"); err != nil {
				t.Fatalf("SaveContent: %v", err)
			}
			got, _ := p.LoadContent(id)
			if got != "v2" {
				t.Errorf("content = %q, want v2", got)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id := noteid.New()
			_ = p.SaveContent(id, "bye")
			if err := p.DeleteContent(id); err != nil {
				t.Fatalf("DeleteContent: %v", err)
			}
			got, _ := p.LoadContent(id)
			if got != "" {
				t.Errorf("content = %q after delete", got)
			}
			// Deleting again is fine.
			if err := p.DeleteContent(id); err != nil {
				t.Errorf("second delete: %v", err)
			}
		})
	}
}

func TestInvalidIDRejected(t *testing.T) {
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := p.SaveContent("../escape", "x"); err == nil {
				t.Error("expected error for malformed id")
			}
		})
	}
}

func TestFSNoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	_ = fs.SaveContent(noteid.New(), "a")
	_ = fs.SaveContent(noteid.New(), "b")

	matches, _ := filepath.Glob(filepath.Join(dir, ".dagaz-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}
