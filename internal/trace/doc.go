// Package trace records what the halide-ir tool is doing as a stream of
// span and point events.
//
// Tracing is off by default. The CLI enables it with
//
//	halide-ir check --trace=- --trace-level=detail testdata/
//
// # Tracers
//
//   - Nop discards everything and costs nothing
//   - StreamTracer writes each event as it happens (text or NDJSON)
//   - RingTracer keeps the most recent events in memory
//   - MultiTracer fans out to several tracers
//
// # Levels and scopes
//
// Every event carries a Scope. The tracer Level decides which scopes pass:
// LevelPhase keeps driver and pass events, LevelDetail adds per-file
// events, LevelDebug adds per-node events.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "decode", 0)
//	defer span.End("")
package trace
