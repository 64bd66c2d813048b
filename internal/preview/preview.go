// Package preview derives the short cached preview stored in the
// index document. It works only on in-flight edit text handed over by
// the editing layer and is never fed content read back from disk.
package preview

import "strings"

const maxRunes = 80

// FromText returns a single-line snippet of text for archive display:
// the first non-blank line, stripped of leading Markdown heading
// markers, truncated to 80 runes.
func FromText(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "#")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > maxRunes {
			return string(runes[:maxRunes])
		}
		return line
	}
	return ""
}
