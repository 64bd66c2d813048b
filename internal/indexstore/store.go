// Package indexstore owns the durable index document. It is the only
// component permitted to read or write the persisted file, and every
// document mutation in the process is serialized through one Store.
package indexstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/starford/dagaz/internal/checksum"
	"github.com/starford/dagaz/internal/models"
)

// Store holds the in-memory index document and persists it atomically.
//
// Concurrency model: mu guards the document; Update applies a mutation
// and normalization inside a short critical section and marshals a
// snapshot before releasing the lock. Disk I/O runs outside mu under
// saveMu, with a sequence check so a stale snapshot never overwrites a
// newer one.
type Store struct {
	path   string
	expiry time.Duration

	mu  sync.Mutex
	doc *models.Document
	seq uint64

	saveMu   sync.Mutex
	savedSeq uint64
	savedSum string

	now func() time.Time
}

// Open loads (or silently rebuilds) the index document at path. The
// expiry duration drives the derived ExpireAt field during
// normalization. The parent directory is created if missing.
func Open(path string, expiry time.Duration) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("indexstore: resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("indexstore: create dir: %w", err)
	}

	s := &Store{path: abs, expiry: expiry, now: time.Now}
	s.doc = s.load()
	Normalize(s.doc, expiry, s.now())
	return s, nil
}

// Path returns the absolute path of the durable document.
func (s *Store) Path() string { return s.path }

// Expiry returns the configured expiry duration.
func (s *Store) Expiry() time.Duration { return s.expiry }

// load parses the persisted document. A missing file or a decode
// failure never surfaces as an error: both paths silently rebuild.
func (s *Store) load() *models.Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("indexstore: read failed, rebuilding", slog.String("error", err.Error()))
		}
		return s.rebuild(nil)
	}
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Warn("indexstore: parse failed, rebuilding", slog.String("error", err.Error()))
		return s.rebuild(data)
	}
	return &doc
}

// rebuild produces an empty document with RebuildAt stamped. When any
// fragment of the prior bytes is recoverable, the original CreatedAt
// is preserved; otherwise it is initialized.
func (s *Store) rebuild(prior []byte) *models.Document {
	now := s.now()
	doc := &models.Document{
		Version: models.SchemaVersion,
		App: models.AppMeta{
			Name:      models.AppName,
			CreatedAt: now,
			RebuildAt: now,
		},
		Notes: []models.Note{},
	}
	if created, ok := recoverCreatedAt(prior); ok {
		doc.App.CreatedAt = created
	}
	return doc
}

// recoverCreatedAt attempts a lenient decode of corrupt document bytes
// to salvage app.createdAt.
func recoverCreatedAt(data []byte) (time.Time, bool) {
	if len(data) == 0 {
		return time.Time{}, false
	}
	var loose struct {
		App struct {
			CreatedAt time.Time `json:"createdAt"`
		} `json:"app"`
	}
	if err := json.Unmarshal(data, &loose); err != nil {
		return time.Time{}, false
	}
	if loose.App.CreatedAt.IsZero() {
		return time.Time{}, false
	}
	return loose.App.CreatedAt, true
}

// Update applies fn to the document, normalizes the result, and
// persists it atomically. The mutation runs against a copy under the
// store lock and is swapped in only on success, so an error from fn
// leaves both memory and disk untouched.
func (s *Store) Update(fn func(doc *models.Document) error) error {
	s.mu.Lock()
	next := cloneDocument(s.doc)
	if err := fn(next); err != nil {
		s.mu.Unlock()
		return err
	}
	Normalize(next, s.expiry, s.now())
	s.doc = next
	s.seq++
	seq := s.seq
	data, err := json.MarshalIndent(next, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("indexstore: marshal: %w", err)
	}
	return s.persist(data, seq)
}

// cloneDocument deep-copies doc so a failed mutation cannot leave the
// shared document half-changed.
func cloneDocument(doc *models.Document) *models.Document {
	out := *doc
	out.Notes = make([]models.Note, len(doc.Notes))
	copy(out.Notes, doc.Notes)
	for i := range out.Notes {
		if w := out.Notes[i].Window; w != nil {
			g := *w
			out.Notes[i].Window = &g
		}
	}
	return &out
}

// View runs fn with read access to the document under the store lock.
// fn must not retain pointers into the document.
func (s *Store) View(fn func(doc *models.Document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.doc)
}

// Note returns a copy of the note with the given id.
func (s *Store) Note(id string) (models.Note, bool) {
	var n models.Note
	var ok bool
	s.View(func(doc *models.Document) {
		if p := doc.FindNote(id); p != nil {
			n = *p
			ok = true
		}
	})
	return n, ok
}

// persist writes a marshaled snapshot to the durable path: temp file
// in the same directory, fsync, rename. Snapshots older than the last
// persisted one are skipped.
func (s *Store) persist(data []byte, seq uint64) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if seq <= s.savedSeq {
		// A later snapshot already contains this mutation.
		return nil
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".dagaz-index-*")
	if err != nil {
		return fmt.Errorf("indexstore: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("indexstore: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("indexstore: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("indexstore: close temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("indexstore: rename: %w", err)
	}
	success = true
	s.savedSeq = seq
	s.savedSum = checksum.Sum(data)
	return nil
}

// Flush persists the current in-memory document even when no mutation
// is pending.
func (s *Store) Flush() error {
	return s.Update(func(*models.Document) error { return nil })
}

// persistedSum returns the checksum of the last snapshot this process
// wrote, or empty when nothing has been persisted yet.
func (s *Store) persistedSum() string {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.savedSum
}

// Reload replaces the in-memory document with the current on-disk
// state. Used by the watcher after an out-of-band replacement of the
// index file; the reloaded document is normalized but not re-persisted.
func (s *Store) Reload() {
	doc := s.load()
	Normalize(doc, s.expiry, s.now())
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
}
