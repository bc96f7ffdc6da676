package trace

// MultiTracer fans events out to several tracers.
type MultiTracer struct {
	tracers []Tracer
	level   Level
}

// NewMultiTracer combines tracers under one level.
func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{tracers: tracers, level: level}
}

// Emit forwards ev to every tracer. Each receives its own copy so Seq
// assignment does not race.
func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		cp := *ev
		tr.Emit(&cp)
	}
}

// Flush flushes all tracers and returns the first error.
func (t *MultiTracer) Flush() error {
	var first error
	for _, tr := range t.tracers {
		if err := tr.Flush(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close closes all tracers and returns the first error.
func (t *MultiTracer) Close() error {
	var first error
	for _, tr := range t.tracers {
		if err := tr.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Ring returns the first RingTracer among the fanned-out tracers.
func (t *MultiTracer) Ring() (*RingTracer, bool) {
	for _, tr := range t.tracers {
		if r, ok := tr.(*RingTracer); ok {
			return r, true
		}
	}
	return nil, false
}

func (t *MultiTracer) Level() Level  { return t.level }
func (t *MultiTracer) Enabled() bool { return t.level > LevelOff }
