package sse

import (
	"strings"
	"testing"
	"time"
)

func recv(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return ""
	}
}

func TestPublishReachesSubscriber(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishNoteEvent("note.updated", "abc123")

	msg := recv(t, ch)
	if !strings.Contains(msg, "event: note.updated") {
		t.Errorf("msg = %q, want note.updated event line", msg)
	}
	if !strings.Contains(msg, `"id":"abc123"`) {
		t.Errorf("msg = %q, want note id in data", msg)
	}
}

func TestPublishWithoutIDOmitsIt(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishNoteEvent("index.reloaded", "")

	msg := recv(t, ch)
	if !strings.Contains(msg, "event: index.reloaded") {
		t.Errorf("msg = %q", msg)
	}
	if strings.Contains(msg, `"id"`) {
		t.Errorf("msg = %q, id must be absent", msg)
	}
}

func TestClientCount(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	if n := b.ClientCount(); n != 0 {
		t.Fatalf("count = %d, want 0", n)
	}
	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	if n := b.ClientCount(); n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
	b.Unsubscribe(ch1)
	b.Unsubscribe(ch2)
	if n := b.ClientCount(); n != 0 {
		t.Errorf("count = %d, want 0 after unsubscribe", n)
	}
}

func TestCloseClosesSubscribers(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel, got a message")
		}
	case <-time.After(2 * time.Second):
		t.Error("channel not closed after broker Close")
	}

	// Publishing after close is a silent no-op.
	b.PublishNoteEvent("note.updated", "x")
	if n := b.ClientCount(); n != 0 {
		t.Errorf("count = %d after close", n)
	}
}

func TestSubscribeAfterCloseReturnsClosedChannel(t *testing.T) {
	b := NewBroker()
	b.Close()

	ch := b.Subscribe()
	if _, ok := <-ch; ok {
		t.Error("subscribe after close must return a closed channel")
	}
}
