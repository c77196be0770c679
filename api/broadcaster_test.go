package api

import (
	"testing"
	"time"
)

func TestBroadcastFiltersBySessionAndType(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("sess-1", []EventType{EventTypeOutput})
	defer b.Unsubscribe(sub)

	b.BroadcastState("sess-1", map[string]interface{}{"ip": 1})
	b.BroadcastOutput("sess-2", "stdout", "ignored, wrong session")
	b.BroadcastOutput("sess-1", "stdout", "hello")

	select {
	case ev := <-sub.Channel:
		if ev.Type != EventTypeOutput {
			t.Fatalf("expected output event, got %s", ev.Type)
		}
		if ev.Data["text"] != "hello" {
			t.Fatalf("expected text %q, got %v", "hello", ev.Data["text"])
		}
	case <-time.After(time.Second):
		t.Fatal("expected an output event")
	}

	select {
	case ev := <-sub.Channel:
		t.Fatalf("expected no further events, got %+v", ev)
	default:
	}
}

func TestEventWriterBuffersAndClears(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	w := NewEventWriter(b, "sess-1", "stdout")
	if _, err := w.Write([]byte("abc")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := w.GetBufferAndClear(); got != "abc" {
		t.Fatalf("expected buffered %q, got %q", "abc", got)
	}
	if got := w.GetBufferAndClear(); got != "" {
		t.Fatalf("expected empty buffer after clear, got %q", got)
	}
}
