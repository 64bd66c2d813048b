package indexstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/dagaz/internal/models"
)

func TestWatcherReloadsForeignWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.json")
	s, err := Open(path, week)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan struct{}, 1)
	go func() {
		_ = Watch(ctx, s, slog.Default(), func() {
			select {
			case reloaded <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher a moment to register.
	time.Sleep(100 * time.Millisecond)

	// Simulate another process replacing the index file.
	foreign := models.Document{
		Version: models.SchemaVersion,
		App:     models.AppMeta{Name: models.AppName, CreatedAt: time.Now()},
		Notes:   []models.Note{{ID: "feedfeedfeedfeedfeedfeedfeedfeed"}},
	}
	data, _ := json.Marshal(foreign)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not reload after foreign write")
	}

	if _, ok := s.Note("feedfeedfeedfeedfeedfeedfeedfeed"); !ok {
		t.Error("store should reflect the foreign document")
	}
}

func TestWatcherIgnoresOwnWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.json")
	s, err := Open(path, week)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan struct{}, 8)
	go func() {
		_ = Watch(ctx, s, slog.Default(), func() { reloads <- struct{}{} })
	}()
	time.Sleep(100 * time.Millisecond)

	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	select {
	case <-reloads:
		t.Error("watcher must not reload for this process's own snapshot")
	case <-time.After(600 * time.Millisecond):
	}
}
