package trace

import (
	"io"
	"sync"
	"time"
)

// RingTracer keeps the most recent events in a fixed-size circular buffer.
// It is dumped when a command fails so the last steps before the failure
// can be inspected.
type RingTracer struct {
	mu     sync.RWMutex
	events []Event
	head   int
	full   bool
	level  Level
	start  time.Time
}

// NewRingTracer creates a ring holding up to capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{events: make([]Event, capacity), level: level, start: time.Now()}
}

// Emit stores a copy of ev, overwriting the oldest entry when full.
func (t *RingTracer) Emit(ev *Event) {
	if !t.level.accepts(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	stored := *ev
	stored.Seq = NextSeq()
	t.events[t.head] = stored
	t.head = (t.head + 1) % len(t.events)
	if t.head == 0 {
		t.full = true
	}
}

// Snapshot returns the stored events oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.full {
		return append([]Event(nil), t.events[:t.head]...)
	}
	out := make([]Event, 0, len(t.events))
	out = append(out, t.events[t.head:]...)
	return append(out, t.events[:t.head]...)
}

// Dump writes the snapshot to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	format = resolveFormat(format, "")
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format, t.start)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
