package contentstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/noteid"
)

// FS implements Provider with one Markdown file per note under a root
// directory. File names are the opaque note id, so no user-controlled
// path component ever reaches the file system.
type FS struct {
	root string
}

// NewFS creates an FS provider rooted at dir, creating it if missing.
func NewFS(dir string) (*FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("contentstore: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("contentstore: create root: %w", err)
	}
	return &FS{root: abs}, nil
}

func (f *FS) path(id string) (string, error) {
	if !noteid.Valid(id) {
		return "", apperr.ErrNotFound
	}
	return filepath.Join(f.root, id+".md"), nil
}

// LoadContent returns the file's bytes, or "" when no file exists.
func (f *FS) LoadContent(id string) (string, error) {
	p, err := f.path(id)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("contentstore: read %s: %w", id, err)
	}
	return string(data), nil
}

// SaveContent atomically writes the body: tmp file, fsync, rename.
func (f *FS) SaveContent(id, text string) error {
	p, err := f.path(id)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.root, ".dagaz-tmp-*")
	if err != nil {
		return fmt.Errorf("contentstore: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(text); err != nil {
		return fmt.Errorf("contentstore: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("contentstore: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("contentstore: close temp: %w", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("contentstore: rename: %w", err)
	}
	success = true
	return nil
}

// DeleteContent removes the file. Missing files are fine.
func (f *FS) DeleteContent(id string) error {
	p, err := f.path(id)
	if err != nil {
		return nil
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("contentstore: delete %s: %w", id, err)
	}
	return nil
}

// Close is a no-op for the file-system backend.
func (f *FS) Close() error { return nil }
