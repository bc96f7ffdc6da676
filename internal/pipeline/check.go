// Package pipeline checks batches of serialized IR files in parallel.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/frmsvrt/Halide/internal/ir"
	"github.com/frmsvrt/Halide/internal/irstats"
	"github.com/frmsvrt/Halide/internal/irwire"
	"github.com/frmsvrt/Halide/internal/observ"
	"github.com/frmsvrt/Halide/internal/trace"
)

// Extension is the file suffix of serialized IR.
const Extension = ".hir"

// CheckRequest describes one batch.
type CheckRequest struct {
	// Paths are files or directories; directories are searched recursively
	// for Extension files.
	Paths []string
	// Jobs bounds the number of files processed at once. 0 means
	// GOMAXPROCS.
	Jobs int
	// Progress receives per-file events. May be nil.
	Progress ProgressSink
	// Timer, when set, records one phase per stage of the whole batch.
	Timer *observ.Timer
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path    string
	Report  irstats.Report
	Err     error
	Timings Timings
}

// CheckResult is the outcome of a batch. Files keeps the listing order.
type CheckResult struct {
	Files   []FileResult
	Timings Timings
}

// Failed returns the number of files that did not check.
func (r CheckResult) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// ListFiles expands paths into a sorted, de-duplicated list of IR files.
// Explicitly named files are kept whatever their extension.
func ListFiles(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, Extension) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// Check reads, decodes and analyzes every file of the request. A file that
// fails is reported in its FileResult and does not stop the others; only
// listing errors and cancellation fail the whole call.
func Check(ctx context.Context, req CheckRequest) (CheckResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "check", trace.CurrentSpan(ctx))
	defer span.End("")

	var files []string
	err := timed(req.Timer, "list", func() (err error) {
		files, err = ListFiles(req.Paths)
		return err
	})
	if err != nil {
		span.Fail(err)
		return CheckResult{}, fmt.Errorf("list files: %w", err)
	}
	span.WithExtra("files", strconv.Itoa(len(files)))
	for _, f := range files {
		emit(req.Progress, Event{File: f, Status: StatusQueued})
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = checkFile(gctx, tracer, span.ID(), path, req.Progress)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.Fail(err)
		return CheckResult{Files: results}, err
	}

	res := CheckResult{Files: results}
	for _, fr := range results {
		res.Timings.Merge(fr.Timings)
	}
	if req.Timer != nil {
		// stage totals are summed over files, not wall-clock intervals
		for _, st := range Stages {
			req.Timer.Record(string(st), res.Timings.Duration(st), "all files")
		}
	}
	if n := res.Failed(); n > 0 {
		span.WithExtra("failed", strconv.Itoa(n))
	}
	emit(req.Progress, Event{Stage: StageAnalyze, Status: StatusDone, Elapsed: res.Timings.Sum()})
	return res, nil
}

func checkFile(ctx context.Context, tracer trace.Tracer, parent uint64, path string, sink ProgressSink) FileResult {
	fr := FileResult{Path: path}
	span := trace.Begin(tracer, trace.ScopeFile, "file:"+filepath.Base(path), parent)
	defer func() {
		if fr.Err != nil {
			span.Fail(fr.Err)
		}
		span.End("")
	}()

	var (
		data []byte
		root ir.Stmt
	)
	defer root.Release()

	stages := []struct {
		stage Stage
		run   func() error
	}{
		{StageRead, func() (err error) {
			data, err = os.ReadFile(path)
			return err
		}},
		{StageDecode, func() (err error) {
			root, err = irwire.Unmarshal(data)
			return err
		}},
		{StageAnalyze, func() error {
			fr.Report = irstats.Collect(root)
			span.WithExtra("nodes", strconv.Itoa(fr.Report.UniqueNodes))
			return nil
		}},
	}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			fr.Err = err
			return fr
		}
		emit(sink, Event{File: path, Stage: st.stage, Status: StatusWorking})
		start := time.Now()
		err := runStage(st.run)
		elapsed := time.Since(start)
		fr.Timings.Add(st.stage, elapsed)
		if err != nil {
			fr.Err = fmt.Errorf("%s: %w", st.stage, err)
			emit(sink, Event{File: path, Stage: st.stage, Status: StatusError, Err: fr.Err, Elapsed: elapsed})
			return fr
		}
		emit(sink, Event{File: path, Stage: st.stage, Status: StatusDone, Elapsed: elapsed})
	}
	return fr
}

// runStage turns a contract violation escaping a stage into an error so one
// bad file cannot take down the batch.
func runStage(run func() error) error {
	var err error
	if cerr := ir.Catch(func() { err = run() }); cerr != nil {
		return cerr
	}
	return err
}

// ErrNoFiles is returned by callers that require at least one input.
var ErrNoFiles = errors.New("no IR files found")

func timed(t *observ.Timer, name string, fn func() error) error {
	if t == nil {
		return fn()
	}
	return t.Time(name, fn)
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
