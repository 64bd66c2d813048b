package indexstore

import (
	"time"

	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/noteid"
)

// Normalize corrects illegal states in place without raising errors.
// No field is ever rejected, only coerced to a legal value:
//
//   - the version tag and app name are stamped
//   - a zero app.createdAt is initialized (never modified otherwise)
//   - notes with a duplicate id are dropped (first occurrence wins)
//   - a missing id is regenerated, zero timestamps are backfilled
//   - archived notes have their window cleared
//   - expireAt is recomputed from lastActiveAt for non-pinned notes
//
// Normalize never archives anything; expiration is the lifecycle
// engine's startup scan, not a normalization concern.
func Normalize(doc *models.Document, expiry time.Duration, now time.Time) {
	doc.Version = models.SchemaVersion
	if doc.App.Name == "" {
		doc.App.Name = models.AppName
	}
	if doc.App.CreatedAt.IsZero() {
		doc.App.CreatedAt = now
	}
	if doc.Notes == nil {
		doc.Notes = []models.Note{}
	}

	seen := make(map[string]struct{}, len(doc.Notes))
	kept := doc.Notes[:0]
	for _, n := range doc.Notes {
		if n.ID == "" {
			n.ID = noteid.New()
		}
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}

		if n.CreatedAt.IsZero() {
			if !n.LastActiveAt.IsZero() {
				n.CreatedAt = n.LastActiveAt
			} else {
				n.CreatedAt = now
			}
		}
		if n.LastActiveAt.IsZero() {
			n.LastActiveAt = n.CreatedAt
		}
		if n.Archived {
			n.Window = nil
		}
		if !n.Pinned {
			n.ExpireAt = n.LastActiveAt.Add(expiry)
		}
		kept = append(kept, n)
	}
	doc.Notes = kept
}
