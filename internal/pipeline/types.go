package pipeline

import "time"

// Stage is one step of checking a file.
type Stage string

const (
	StageRead    Stage = "read"
	StageDecode  Stage = "decode"
	StageAnalyze Stage = "analyze"
)

// Stages lists the stages in execution order.
var Stages = []Stage{StageRead, StageDecode, StageAnalyze}

// Status is the progress state of a file within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one file, or for the whole run when File is
// empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. OnEvent may be called from
// several goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- ev
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(ev Event) { f(ev) }

// Timings holds per-stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

// Add accumulates dur into stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	t.stages[stage] += dur
}

// Has reports whether stage has a recorded duration.
func (t Timings) Has(stage Stage) bool {
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration of stage.
func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Sum returns the total over stages, or over every stage when none are
// given.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if len(stages) == 0 {
		stages = Stages
	}
	var total time.Duration
	for _, s := range stages {
		total += t.stages[s]
	}
	return total
}

// Merge adds every duration of other into t.
func (t *Timings) Merge(other Timings) {
	for s, d := range other.stages {
		t.Add(s, d)
	}
}
