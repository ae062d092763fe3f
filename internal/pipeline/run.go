package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/backmassage/photosift/internal/config"
	"github.com/backmassage/photosift/internal/display"
	"github.com/backmassage/photosift/internal/logging"
	"github.com/backmassage/photosift/internal/term"
)

// Run is the top-level batch entry point for the CLI. It starts a Runner
// for cfg, forwards ctx cancellation to Runner.Cancel, renders progress and
// logs the batch header and summary. Start validation errors and Failed
// runs are returned; a cancelled run is reported through Outcome.Cancelled.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (Outcome, error) {
	return runWith(ctx, cfg, log, newConsoleReporter(cfg, log, os.Stdout, term.IsTerminal(os.Stdout)))
}

func runWith(ctx context.Context, cfg *config.Config, log *logging.Logger, rep *consoleReporter, opts ...Option) (Outcome, error) {
	opts = append([]Option{
		WithWorkers(cfg.Workers),
		WithDryRun(cfg.DryRun),
		WithVerbose(cfg.Verbose),
	}, opts...)
	r := NewRunner(log, opts...)
	if err := r.Subscribe(rep.handle); err != nil {
		return Outcome{}, err
	}

	if err := r.Start(cfg.SourceDir, cfg.DestDir); err != nil {
		log.Error("Cannot start: %v", err)
		return Outcome{}, err
	}
	stop := context.AfterFunc(ctx, r.Cancel)
	defer stop()

	out, err := r.Wait()
	if err != nil {
		log.Error("Run failed: %v", err)
	}
	logSummary(cfg, log, out)
	return out, err
}

// consoleReporter turns runner events into an inline progress line (TTY
// only) and log lines.
type consoleReporter struct {
	cfg   *config.Config
	log   *logging.Logger
	out   io.Writer
	isTTY bool
}

func newConsoleReporter(cfg *config.Config, log *logging.Logger, out io.Writer, tty bool) *consoleReporter {
	return &consoleReporter{cfg: cfg, log: log, out: out, isTTY: tty}
}

func (c *consoleReporter) handle(e Event) {
	switch e.Kind {
	case EventStarted:
		logBatchHeader(c.cfg, c.log, e.Progress.Discovered)
	case EventFileStarted:
		if c.isTTY {
			p := e.Progress
			display.PrintProgress(c.out, display.ProgressLine(c.verb(), p.Processed+1, p.Discovered, p.Copied, filepath.Base(e.Path)))
		}
	case EventFileError:
		c.clear()
	case EventFileDone:
		if e.Plan == nil {
			return
		}
		if e.Plan.OutputPath == "" {
			if c.cfg.Verbose {
				c.clear()
				c.log.Skip("%s", e.Message)
			}
			return
		}
		c.clear()
		if c.cfg.DryRun {
			c.log.Success("[DRY] Would copy %s -> %s", filepath.Base(e.Path), e.Plan.OutputPath)
		} else {
			c.log.Success("Copied %s -> %s", filepath.Base(e.Path), e.Plan.OutputPath)
		}
	case EventFinished:
		c.clear()
	}
}

func (c *consoleReporter) verb() string {
	if c.cfg.DryRun {
		return "Planning"
	}
	return "Sorting"
}

func (c *consoleReporter) clear() {
	if c.isTTY {
		display.ClearProgress(c.out)
	}
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, total int) {
	log.Info("Found %s images in %s", display.FormatCount(total), cfg.SourceDir)
	log.Info("Destination: %s", cfg.DestDir)
	if cfg.Workers > 1 {
		log.Info("Workers: %d (commit order follows discovery order)", cfg.Workers)
	} else {
		log.Info("Workers: 1 (sequential)")
	}
	if cfg.DryRun {
		log.Warn("Dry run: nothing will be created or copied")
	}
}

func logSummary(cfg *config.Config, log *logging.Logger, out Outcome) {
	log.Info("==============================")
	log.Info("Done: %d copied, %d skipped, %d failed", out.Copied, out.Skipped, out.Failed)
	log.Info("Summary report:")
	log.Info("  Total images processed: %d of %d", out.Processed, out.Discovered)
	if cfg.DryRun {
		log.Info("  Bytes copied: n/a (dry run)")
	} else {
		log.Info("  Bytes copied: %s", display.FormatBytes(out.BytesCopied))
	}
	log.Info("  Elapsed: %s", out.Elapsed.Round(time.Millisecond))

	if out.Cancelled {
		log.Warn("%s", out.Summary())
		return
	}
	log.Success("%s", out.Summary())
}

// ExitCode maps a run result to the process exit status: 0 completed,
// 130 cancelled, 1 for anything that failed to start or finish.
func ExitCode(out Outcome, err error) int {
	switch {
	case err != nil:
		return 1
	case out.Cancelled:
		return 130
	default:
		return 0
	}
}

// String renders o for debug output.
func (o Outcome) String() string {
	return fmt.Sprintf("discovered=%d processed=%d copied=%d skipped=%d failed=%d cancelled=%v",
		o.Discovered, o.Processed, o.Copied, o.Skipped, o.Failed, o.Cancelled)
}
