package contentstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/noteid"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS note_contents (
	id         TEXT PRIMARY KEY,
	body       TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLite implements Provider backed by a SQLite database. This is the
// default backend.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("contentstore: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("contentstore: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("contentstore: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// LoadContent returns the stored body, or "" for a note that has no
// saved content yet.
func (s *SQLite) LoadContent(id string) (string, error) {
	if !noteid.Valid(id) {
		return "", apperr.ErrNotFound
	}
	var body string
	err := s.conn.QueryRow(`SELECT body FROM note_contents WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("contentstore: load %s: %w", id, err)
	}
	return body, nil
}

// SaveContent upserts the body for the note.
func (s *SQLite) SaveContent(id, text string) error {
	if !noteid.Valid(id) {
		return apperr.ErrNotFound
	}
	_, err := s.conn.Exec(`
		INSERT INTO note_contents (id, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, id, text, time.Now())
	if err != nil {
		return fmt.Errorf("contentstore: save %s: %w", id, err)
	}
	return nil
}

// DeleteContent removes the stored body. Missing rows are fine.
func (s *SQLite) DeleteContent(id string) error {
	if !noteid.Valid(id) {
		return nil
	}
	if _, err := s.conn.Exec(`DELETE FROM note_contents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("contentstore: delete %s: %w", id, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}
