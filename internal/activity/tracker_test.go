package activity

import (
	"sync"
	"testing"
	"time"
)

type countingTouch struct {
	mu     sync.Mutex
	counts map[string]int
}

func newCountingTouch() *countingTouch {
	return &countingTouch{counts: make(map[string]int)}
}

func (c *countingTouch) touch(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[id]++
	return nil
}

func (c *countingTouch) count(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[id]
}

func TestDebounceCollapsesRapidTriggers(t *testing.T) {
	ct := newCountingTouch()
	tr := NewTracker(150*time.Millisecond, ct.touch)
	defer tr.Close()

	// Three triggers in quick succession, then idle.
	tr.Touch("n1")
	time.Sleep(20 * time.Millisecond)
	tr.Touch("n1")
	time.Sleep(20 * time.Millisecond)
	tr.Touch("n1")

	time.Sleep(400 * time.Millisecond)

	if got := ct.count("n1"); got != 1 {
		t.Errorf("touches = %d, want 1", got)
	}
}

func TestSeparateNotesDebounceIndependently(t *testing.T) {
	ct := newCountingTouch()
	tr := NewTracker(100*time.Millisecond, ct.touch)
	defer tr.Close()

	tr.Touch("a")
	tr.Touch("b")
	time.Sleep(300 * time.Millisecond)

	if ct.count("a") != 1 || ct.count("b") != 1 {
		t.Errorf("touches = a:%d b:%d, want 1 each", ct.count("a"), ct.count("b"))
	}
}

func TestFlushPersistsPending(t *testing.T) {
	ct := newCountingTouch()
	tr := NewTracker(10*time.Second, ct.touch)

	tr.Touch("slow")
	if tr.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", tr.Pending())
	}

	tr.Flush()
	if got := ct.count("slow"); got != 1 {
		t.Errorf("touches after flush = %d, want 1", got)
	}
	if tr.Pending() != 0 {
		t.Errorf("pending after flush = %d, want 0", tr.Pending())
	}
}

func TestCloseRejectsFurtherTriggers(t *testing.T) {
	ct := newCountingTouch()
	tr := NewTracker(50*time.Millisecond, ct.touch)
	tr.Close()

	tr.Touch("late")
	time.Sleep(150 * time.Millisecond)
	if got := ct.count("late"); got != 0 {
		t.Errorf("touches after close = %d, want 0", got)
	}
}

func TestQuietNoteIsNotTouched(t *testing.T) {
	ct := newCountingTouch()
	tr := NewTracker(50*time.Millisecond, ct.touch)
	defer tr.Close()

	time.Sleep(120 * time.Millisecond)
	if got := ct.count("never"); got != 0 {
		t.Errorf("touches = %d, want 0", got)
	}
}
