// Package contentstore persists note bodies as opaque blobs keyed by
// note identity. The lifecycle core never parses or inspects bodies;
// lifecycle state lives exclusively in the index document.
package contentstore

// Provider is the narrow interface the core consumes for note bodies.
type Provider interface {
	// LoadContent returns the stored body, or "" when the note has
	// never been saved.
	LoadContent(id string) (string, error)
	// SaveContent stores the body for the note.
	SaveContent(id, text string) error
	// DeleteContent removes the stored body; missing content is not
	// an error.
	DeleteContent(id string) error
	// Close releases backend resources.
	Close() error
}
