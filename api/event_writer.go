package api

import (
	"bytes"
	"io"
	"sync"
)

// EventWriter is an io.Writer meant for vm.VM.OutputWriter: every write is
// both buffered and broadcast as an EventTypeOutput event (adapted from the
// teacher's api/event_writer.go).
type EventWriter struct {
	broadcaster *Broadcaster
	sessionID   string
	stream      string
	buffer      *bytes.Buffer
	mutex       sync.Mutex
}

// NewEventWriter creates a writer that broadcasts on bus under sessionID,
// tagging every event with stream (e.g. "stdout").
func NewEventWriter(bus *Broadcaster, sessionID, stream string) *EventWriter {
	return &EventWriter{
		broadcaster: bus,
		sessionID:   sessionID,
		stream:      stream,
		buffer:      &bytes.Buffer{},
	}
}

func (w *EventWriter) Write(p []byte) (int, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	n, err := w.buffer.Write(p)
	if err == nil && n > 0 && w.broadcaster != nil {
		w.broadcaster.BroadcastOutput(w.sessionID, w.stream, string(p))
	}
	return n, err
}

// GetBufferAndClear returns and clears everything written so far.
func (w *EventWriter) GetBufferAndClear() string {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	out := w.buffer.String()
	w.buffer.Reset()
	return out
}

var _ io.Writer = (*EventWriter)(nil)
