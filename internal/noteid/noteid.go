// Package noteid generates opaque note identifiers.
package noteid

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

var valid = regexp.MustCompile(`^[0-9a-f]{32}$`)

// New returns a fresh opaque identifier. Identifiers are generated
// once at note creation and never derived from window handles or
// file paths.
func New() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("noteid: rand read: " + err.Error())
	}
	return hex.EncodeToString(b[:])
}

// Valid reports whether s has the shape of a generated identifier.
// Storage backends use this to keep ids safe as file names and keys.
func Valid(s string) bool {
	return valid.MatchString(s)
}
