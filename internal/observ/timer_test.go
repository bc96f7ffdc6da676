package observ

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerRecordsPhasesInOrder(t *testing.T) {
	tm := NewTimer()
	a := tm.Begin("read")
	tm.End(a, "3 files")
	if err := tm.Time("decode", func() error { return errors.New("bad") }); err == nil {
		t.Fatalf("Time must return fn's error")
	}
	tm.End(99, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("got %d phases, want 2", len(r.Phases))
	}
	if r.Phases[0].Name != "read" || r.Phases[0].Note != "3 files" {
		t.Fatalf("phase 0 = %+v", r.Phases[0])
	}
	if r.Phases[1].Note != "failed" {
		t.Fatalf("failed phase note = %q", r.Phases[1].Note)
	}
	if r.TotalMS < r.Phases[0].DurationMS {
		t.Fatalf("total %f below a single phase", r.TotalMS)
	}

	s := tm.Summary()
	for _, want := range []string{"timings:", "read", "// 3 files", "total"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestTimerConcurrentUse(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.End(tm.Begin("file"), "")
		}()
	}
	wg.Wait()
	if n := len(tm.Report().Phases); n != 16 {
		t.Fatalf("got %d phases, want 16", n)
	}
}

func TestEmptyReport(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("empty timer report = %+v", r)
	}
}

func TestRecordAppendsMeasuredPhase(t *testing.T) {
	tm := NewTimer()
	tm.Record("decode", 3*time.Millisecond, "all files")
	r := tm.Report()
	if len(r.Phases) != 1 || r.Phases[0].DurationMS != 3 || r.Phases[0].Note != "all files" {
		t.Fatalf("report = %+v", r)
	}
}
