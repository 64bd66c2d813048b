// Package activity decides which user behaviors extend a note's life
// and collapses them into debounced index updates.
package activity

import (
	"log/slog"
	"sync"
	"time"
)

// TouchFunc persists one activity update for a note.
type TouchFunc func(id string) error

// Tracker debounces qualifying activity triggers (window focus, a
// substantive edit followed by idle, a move/resize release) into a
// single persisted lastActiveAt update per note. Keystrokes alone
// never reach the tracker; the editing layer only reports qualifying
// triggers.
//
// The debounce is a cancel-and-restart timer per note: rapid
// successive triggers collapse into one write once the idle delay
// elapses, bounding write frequency against the atomic-save cost.
type Tracker struct {
	delay time.Duration
	touch TouchFunc

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// NewTracker creates a tracker that calls touch after delay of
// trigger silence for each note.
func NewTracker(delay time.Duration, touch TouchFunc) *Tracker {
	if delay <= 0 {
		delay = 3 * time.Second
	}
	return &Tracker{
		delay:  delay,
		touch:  touch,
		timers: make(map[string]*time.Timer),
	}
}

// Touch registers a qualifying trigger for the note, restarting its
// idle timer.
func (t *Tracker) Touch(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if tm, ok := t.timers[id]; ok {
		tm.Reset(t.delay)
		return
	}
	t.timers[id] = time.AfterFunc(t.delay, func() { t.fire(id) })
}

func (t *Tracker) fire(id string) {
	t.mu.Lock()
	delete(t.timers, id)
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return
	}
	if err := t.touch(id); err != nil {
		slog.Warn("activity: touch failed", slog.String("id", id), slog.String("error", err.Error()))
	}
}

// Flush persists every pending touch immediately, cancelling the
// timers. Called at shutdown so debounced activity is not lost.
func (t *Tracker) Flush() {
	t.mu.Lock()
	ids := make([]string, 0, len(t.timers))
	for id, tm := range t.timers {
		tm.Stop()
		ids = append(ids, id)
	}
	t.timers = make(map[string]*time.Timer)
	t.mu.Unlock()

	for _, id := range ids {
		if err := t.touch(id); err != nil {
			slog.Warn("activity: flush touch failed", slog.String("id", id), slog.String("error", err.Error()))
		}
	}
}

// Close flushes pending touches and rejects further triggers.
func (t *Tracker) Close() {
	t.Flush()
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}

// Pending returns the number of notes with an armed idle timer.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}
