package trace

import (
	"io"
	"sync"
	"time"
)

// StreamTracer writes every accepted event to an io.Writer as soon as it
// is emitted. Write errors are dropped: tracing must never fail a command.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
	start  time.Time
}

// NewStreamTracer creates a tracer writing to w. FormatAuto becomes text.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{
		w:      w,
		level:  level,
		format: resolveFormat(format, ""),
		start:  time.Now(),
	}
}

// Emit writes ev if the level accepts it.
func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.accepts(ev) {
		return
	}
	ev.Seq = NextSeq()
	data := FormatEvent(ev, t.format, t.start)

	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = t.w.Write(data) //nolint:errcheck
}

// Flush flushes the writer when it buffers.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes and closes the writer when it is a Closer other than the
// standard streams.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if isStdStream(t.w) {
		return nil
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
