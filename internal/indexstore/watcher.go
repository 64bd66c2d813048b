package indexstore

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/dagaz/internal/checksum"
)

// ReloadCallback is called after the watcher replaces the in-memory
// document with out-of-band on-disk state.
type ReloadCallback func()

// Watch starts an fsnotify watcher on the index document's directory
// and processes events until ctx is cancelled. When another process
// replaces the index file (a sync tool, a manual edit), the store
// reloads and re-normalizes it and cb (if non-nil) is invoked.
//
// Writes issued by this process are recognized by checksum and
// ignored, so the store never reloads its own snapshots. Only the
// index file is watched; content files are never observed.
func Watch(ctx context.Context, store *Store, logger *slog.Logger, cb ReloadCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(store.Path())
	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("path", store.Path()))

	// reloadTimer debounces bursts of events on the index file; sync
	// tools tend to emit create+write+rename in quick succession.
	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			reloadIfForeign(store, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name != store.Path() {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reloadIfForeign reloads the store when the on-disk bytes differ from
// the last snapshot this process persisted.
func reloadIfForeign(store *Store, logger *slog.Logger, cb ReloadCallback) {
	data, err := os.ReadFile(store.Path())
	if err != nil {
		// A missing file will be rebuilt by Reload.
		if !os.IsNotExist(err) {
			logger.Warn("watcher: read failed", slog.String("error", err.Error()))
			return
		}
	}
	if err == nil && checksum.Sum(data) == store.persistedSum() {
		return
	}
	store.Reload()
	logger.Info("watcher: index reloaded from disk")
	if cb != nil {
		cb()
	}
}
