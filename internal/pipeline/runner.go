package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"golang.org/x/sync/semaphore"

	"github.com/backmassage/photosift/internal/config"
	"github.com/backmassage/photosift/internal/errs"
	"github.com/backmassage/photosift/internal/logging"
	"github.com/backmassage/photosift/internal/naming"
	"github.com/backmassage/photosift/internal/planner"
	"github.com/backmassage/photosift/internal/probe"
	"github.com/backmassage/photosift/internal/transfer"
)

// Prober reads the metadata of one image. probe.Probe is the default.
type Prober func(ctx context.Context, path string) (*probe.Metadata, error)

// Copier copies src to dst and returns the bytes written. transfer.Copy is
// the default.
type Copier func(src, dst string) (int64, error)

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets how many files are probed and copied concurrently.
// Values below 1 are treated as 1. Commit order is always discovery order.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n < 1 {
			n = 1
		}
		r.workers = n
	}
}

// WithDryRun classifies and names files without creating directories or
// copying anything.
func WithDryRun(on bool) Option {
	return func(r *Runner) { r.dryRun = on }
}

// WithVerbose enables per-file debug lines.
func WithVerbose(on bool) Option {
	return func(r *Runner) { r.verbose = on }
}

// WithProber replaces the metadata reader.
func WithProber(p Prober) Option {
	return func(r *Runner) { r.probe = p }
}

// WithCopier replaces the file copier.
func WithCopier(c Copier) Option {
	return func(r *Runner) { r.copy = c }
}

// Runner drives triage runs. One run is active at a time; a Runner may be
// started again once the previous run reached a terminal state. All
// methods are goroutine-safe.
type Runner struct {
	log     *logging.Logger
	workers int
	dryRun  bool
	verbose bool
	probe   Prober
	copy    Copier
	bus     evbus.Bus

	mu       sync.Mutex
	state    State
	progress Progress
	outcome  Outcome
	err      error
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewRunner returns an idle Runner.
func NewRunner(log *logging.Logger, opts ...Option) *Runner {
	r := &Runner{
		log:     log,
		workers: 1,
		probe:   probe.Probe,
		copy:    transfer.Copy,
		bus:     evbus.New(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Subscribe registers fn for every event of every subsequent run. fn is
// called synchronously from the commit loop, in order; it must not call
// Subscribe.
func (r *Runner) Subscribe(fn func(Event)) error {
	return r.bus.Subscribe(progressTopic, fn)
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Progress returns a snapshot of the current counters.
func (r *Runner) Progress() Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress
}

// Start validates the paths and begins a run in the background. Validation
// failures are errs.KindValidation errors and leave the Runner idle. Start
// fails while another run is in progress.
func (r *Runner) Start(sourceDir, destDir string) error {
	source, dest, err := resolveRunPaths(sourceDir, destDir)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateDiscovering || r.state == StateProcessing {
		return errs.New(errs.KindValidation, "start", "", "a run is already in progress")
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.state = StateDiscovering
	r.progress = Progress{}
	r.outcome = Outcome{}
	r.err = nil
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.run(ctx, source, dest, r.done)
	return nil
}

// Cancel asks the active run to stop. Files already in flight finish and
// are counted; no further file is dispatched. Cancel is a no-op when no
// run is active, including after a run completed.
func (r *Runner) Cancel() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the current run is terminal and returns its outcome.
// The error is non-nil only for a Failed run.
func (r *Runner) Wait() (Outcome, error) {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done == nil {
		return Outcome{}, errs.New(errs.KindRun, "wait", "", "runner was never started")
	}
	<-done

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcome, r.err
}

// resolveRunPaths checks the start arguments and returns absolute paths.
func resolveRunPaths(sourceDir, destDir string) (string, string, error) {
	if sourceDir == "" {
		return "", "", errs.New(errs.KindValidation, "start", "", "source directory is required")
	}
	if destDir == "" {
		return "", "", errs.New(errs.KindValidation, "start", "", "destination directory is required")
	}

	fi, err := os.Stat(sourceDir)
	if err != nil {
		return "", "", errs.Wrap(errs.KindValidation, "stat source", sourceDir, err)
	}
	if !fi.IsDir() {
		return "", "", errs.New(errs.KindValidation, "stat source", sourceDir, "not a directory")
	}

	source, err := canonical(sourceDir)
	if err != nil {
		return "", "", errs.Wrap(errs.KindValidation, "resolve source", sourceDir, err)
	}
	dest, err := canonical(destDir)
	if err != nil {
		return "", "", errs.Wrap(errs.KindValidation, "resolve destination", destDir, err)
	}
	if err := config.DestInsideSource(source, dest); err != nil {
		return "", "", errs.Wrap(errs.KindValidation, "start", destDir, err)
	}
	return source, dest, nil
}

// canonical returns the absolute path with symlinks resolved for the part
// of it that already exists.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	var rest []string
	for p := abs; ; p = filepath.Dir(p) {
		if resolved, err := filepath.EvalSymlinks(p); err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		parent := filepath.Dir(p)
		if parent == p {
			return abs, nil
		}
		rest = append([]string{filepath.Base(p)}, rest...)
	}
}

// run is the background half of Start.
func (r *Runner) run(ctx context.Context, source, dest string, done chan struct{}) {
	defer close(done)
	started := time.Now()

	files, err := r.prepare(source, dest)
	if err != nil {
		r.finish(StateFailed, err, started)
		return
	}

	r.mu.Lock()
	r.state = StateProcessing
	r.progress.Discovered = len(files)
	snap := r.progress
	r.mu.Unlock()

	r.log.Debug(r.verbose, "Discovered %d images in %s", len(files), source)
	r.publish(Event{Kind: EventStarted, Progress: snap, State: StateProcessing})

	namer := naming.NewNamer(dest)
	committed, err := r.process(ctx, files, namer)
	switch {
	case err != nil:
		r.finish(StateFailed, err, started)
	case committed < len(files):
		r.finish(StateCancelled, nil, started)
	default:
		r.finish(StateCompleted, nil, started)
	}
}

// prepare creates the destination root and discovers the source files.
func (r *Runner) prepare(source, dest string) ([]string, error) {
	if !r.dryRun {
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return nil, errs.Wrap(errs.KindRun, "create destination", dest, err)
		}
	}
	return Discover(source)
}

// finish records the terminal state and publishes EventFinished.
func (r *Runner) finish(state State, err error, started time.Time) {
	r.mu.Lock()
	out := outcomeOf(r.progress)
	out.BytesCopied = r.outcome.BytesCopied
	out.Cancelled = state == StateCancelled
	out.Elapsed = time.Since(started)
	r.state = state
	r.outcome = out
	r.err = err
	r.progress.CurrentFile = ""
	snap := r.progress
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	msg := out.Summary()
	if err != nil {
		msg = err.Error()
	}
	r.publish(Event{Kind: EventFinished, Progress: snap, State: state, Err: err, Message: msg, Outcome: &out})
}

// fileResult is what a worker hands back to the commit loop.
type fileResult struct {
	meta  *probe.Metadata
	plan  *planner.FilePlan
	bytes int64
	err   error
}

// task pairs a dispatched file with the slot its result arrives on.
type task struct {
	path   string
	result chan fileResult
}

// process fans files out to at most r.workers goroutines and commits their
// results strictly in discovery order. It returns how many files were
// committed, and a non-nil error when the run can no longer continue.
func (r *Runner) process(ctx context.Context, files []string, namer *naming.Namer) (int, error) {
	// In-flight work is not interrupted by Cancel.
	work := context.WithoutCancel(ctx)
	dispatch, stop := context.WithCancel(ctx)
	defer stop()

	sem := semaphore.NewWeighted(int64(r.workers))
	pending := make(chan task, r.workers)

	go func() {
		defer close(pending)
		for _, path := range files {
			if err := sem.Acquire(dispatch, 1); err != nil {
				return
			}
			if dispatch.Err() != nil {
				sem.Release(1)
				return
			}
			t := task{path: path, result: make(chan fileResult, 1)}
			pending <- t
			go func() {
				t.result <- r.processFile(work, t.path, namer)
			}()
		}
	}()

	// A slot is released only once its file is committed, so at most
	// r.workers files sit between dispatch and commit.
	committed := 0
	var fatal error
	for t := range pending {
		r.markStarted(t.path)
		res := <-t.result
		if err := r.commit(t.path, res, namer.Root()); err != nil && fatal == nil {
			fatal = err
			stop()
		}
		committed++
		sem.Release(1)
	}
	return committed, fatal
}

// processFile runs probe → plan → name → copy for one file.
func (r *Runner) processFile(ctx context.Context, path string, namer *naming.Namer) fileResult {
	meta, err := r.probe(ctx, path)
	if err != nil {
		return fileResult{err: errs.Wrap(errs.KindDecode, "probe", path, err)}
	}

	plan := planner.BuildPlan(meta)
	res := fileResult{meta: meta, plan: plan}
	if plan.Action == planner.ActionSkip {
		return res
	}

	if r.dryRun {
		plan.OutputPath, res.err = namer.Plan(plan.Orientation, plan.Bucket())
		return res
	}

	plan.OutputPath, err = namer.Synthesize(plan.Orientation, plan.Bucket())
	if err != nil {
		res.err = err
		return res
	}
	res.bytes, err = r.copy(path, plan.OutputPath)
	if err != nil {
		res.err = errs.Wrap(errs.KindIO, "copy", path, err)
	}
	return res
}

func (r *Runner) markStarted(path string) {
	r.mu.Lock()
	r.progress.CurrentFile = path
	snap := r.progress
	r.mu.Unlock()
	r.publish(Event{Kind: EventFileStarted, Path: path, Progress: snap, State: StateProcessing})
}

// commit folds one result into the counters and reports it. A copy failure
// is followed by a check of the destination root; losing the root is the
// only per-file outcome that ends the run.
func (r *Runner) commit(path string, res fileResult, destRoot string) error {
	r.mu.Lock()
	r.progress.Processed++
	switch {
	case res.err != nil:
		r.progress.Failed++
	case res.plan.Action == planner.ActionSkip:
		r.progress.Skipped++
	default:
		r.progress.Copied++
		r.outcome.BytesCopied += res.bytes
	}
	snap := r.progress
	r.mu.Unlock()

	name := filepath.Base(path)
	if res.err != nil {
		msg := errorLine(name, res.err)
		r.publish(Event{Kind: EventFileError, Path: path, Progress: snap, State: StateProcessing,
			Meta: res.meta, Plan: res.plan, Err: res.err, Message: msg})
		r.log.Warn("%s", msg)
		r.log.Debug(r.verbose, "  %v", res.err)

		if errs.IsKind(res.err, errs.KindIO) && !r.dryRun {
			if fi, err := os.Stat(destRoot); err != nil || !fi.IsDir() {
				return errs.New(errs.KindRun, "check destination", destRoot, "destination root is no longer accessible")
			}
		}
		return nil
	}

	r.publish(Event{Kind: EventFileDone, Path: path, Progress: snap, State: StateProcessing,
		Meta: res.meta, Plan: res.plan, Message: doneLine(name, res)})
	r.log.Debug(r.verbose, "%s: %s %s, orientation %s", name, res.meta.Resolution(),
		res.plan.Action, res.plan.Orientation)
	return nil
}

func (r *Runner) publish(e Event) {
	r.bus.Publish(progressTopic, e)
}

func errorLine(name string, err error) string {
	switch {
	case errs.IsKind(err, errs.KindDecode):
		return "Cannot read image (possibly corrupt): " + name
	case errs.IsKind(err, errs.KindIO):
		return "Copy failed (" + transfer.Reason(err) + "): " + name
	default:
		return "Failed: " + name
	}
}

func doneLine(name string, res fileResult) string {
	if res.plan.Action == planner.ActionSkip {
		return "Skip (" + res.plan.SkipReason + "): " + name
	}
	return name + " -> " + res.plan.OutputPath
}
