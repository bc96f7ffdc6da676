package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/frmsvrt/Halide/internal/demo"
	"github.com/frmsvrt/Halide/internal/ir"
	"github.com/frmsvrt/Halide/internal/irwire"
	"github.com/frmsvrt/Halide/internal/observ"
	"github.com/frmsvrt/Halide/internal/trace"
)

func writeDemos(t *testing.T, dir string) []string {
	t.Helper()
	var paths []string
	for _, p := range demo.All() {
		root := p.Build()
		data, err := irwire.Marshal(root)
		root.Release()
		if err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(dir, p.Name+Extension)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}
	return paths
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) count(status Status) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Status == status && ev.File != "" {
			n++
		}
	}
	return n
}

func TestCheckDirectory(t *testing.T) {
	dir := t.TempDir()
	good := writeDemos(t, dir)
	bad := filepath.Join(dir, "corrupt"+Extension)
	if err := os.WriteFile(bad, []byte{0xc1}, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644); err != nil {
		t.Fatal(err)
	}

	before := ir.ReadStats().Live
	rec := &recorder{}
	timer := observ.NewTimer()
	ring := trace.NewRingTracer(64, trace.LevelDetail)
	ctx := trace.WithTracer(context.Background(), ring)

	res, err := Check(ctx, CheckRequest{Paths: []string{dir}, Jobs: 2, Progress: rec, Timer: timer})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != len(good)+1 {
		t.Fatalf("checked %d files, want %d", len(res.Files), len(good)+1)
	}
	for i := 1; i < len(res.Files); i++ {
		if res.Files[i-1].Path > res.Files[i].Path {
			t.Fatalf("results out of order: %s before %s", res.Files[i-1].Path, res.Files[i].Path)
		}
	}
	if res.Failed() != 1 {
		t.Fatalf("failed = %d, want 1", res.Failed())
	}
	for _, fr := range res.Files {
		if fr.Path == bad {
			if fr.Err == nil || fr.Timings.Has(StageAnalyze) {
				t.Fatalf("corrupt file result = %+v", fr)
			}
			continue
		}
		if fr.Err != nil {
			t.Fatalf("%s: %v", fr.Path, fr.Err)
		}
		if fr.Report.UniqueNodes == 0 {
			t.Fatalf("%s: empty report", fr.Path)
		}
	}
	if after := ir.ReadStats().Live; after != before {
		t.Fatalf("check leaked %d nodes", after-before)
	}

	if got := rec.count(StatusQueued); got != len(res.Files) {
		t.Errorf("queued events = %d, want %d", got, len(res.Files))
	}
	if got := rec.count(StatusError); got != 1 {
		t.Errorf("error events = %d, want 1", got)
	}

	var names []string
	for _, p := range timer.Report().Phases {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"list", "read", "decode", "analyze"}, names); diff != "" {
		t.Errorf("timer phases (-want +got):\n%s", diff)
	}

	failed := 0
	for _, ev := range ring.Snapshot() {
		if ev.Failed {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("trace recorded %d failed spans, want 1", failed)
	}
}

func TestCheckMissingPath(t *testing.T) {
	_, err := Check(context.Background(), CheckRequest{Paths: []string{filepath.Join(t.TempDir(), "nope")}})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}

func TestCheckCancelled(t *testing.T) {
	dir := t.TempDir()
	writeDemos(t, dir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Check(ctx, CheckRequest{Paths: []string{dir}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b.hir", "a.hir", "sub/c.hir", "sub/readme.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	explicit := filepath.Join(sub, "readme.md")

	got, err := ListFiles([]string{dir, filepath.Join(dir, "a.hir"), explicit})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.hir"),
		filepath.Join(dir, "b.hir"),
		filepath.Join(sub, "c.hir"),
		explicit,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("files (-want +got):\n%s", diff)
	}
}

func TestTimings(t *testing.T) {
	var a, b Timings
	a.Add(StageRead, 2)
	b.Add(StageRead, 3)
	b.Add(StageDecode, 5)
	a.Merge(b)
	if a.Duration(StageRead) != 5 || a.Sum() != 10 || a.Sum(StageDecode) != 5 {
		t.Fatalf("timings = %+v", a)
	}
	if a.Has(StageAnalyze) {
		t.Fatalf("analyze was never recorded")
	}
}
