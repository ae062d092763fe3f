package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/photosift/internal/config"
	"github.com/backmassage/photosift/internal/display"
	"github.com/backmassage/photosift/internal/logging"
	"github.com/backmassage/photosift/internal/planner"
	"github.com/backmassage/photosift/internal/probe"
	"github.com/backmassage/photosift/internal/term"
)

// fileRow holds the probed per-file data for the analysis table.
type fileRow struct {
	Name        string
	Resolution  string
	Orientation string
	Bucket      string
	Verdict     string
	Copy        bool
}

// analysis accumulates rows and per-bucket counts.
type analysis struct {
	rows       []fileRow
	buckets    map[planner.Bucket]int
	skipped    int
	unreadable int
}

// Analyze discovers images, probes each one, and prints a table of
// resolution, orientation, bucket and verdict plus per-bucket counts.
// Nothing is created or copied.
func Analyze(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	return analyze(ctx, cfg, log, os.Stdout, term.IsTerminal(os.Stdout), probe.Probe)
}

func analyze(ctx context.Context, cfg *config.Config, log *logging.Logger, w io.Writer, tty bool, probeFn Prober) error {
	files, err := Discover(cfg.SourceDir)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		return err
	}
	if len(files) == 0 {
		log.Warn("No images found in %s", cfg.SourceDir)
		return nil
	}

	total := len(files)
	log.Info("Analyzing %d images in %s …", total, cfg.SourceDir)
	fmt.Fprintln(w)

	a := &analysis{buckets: make(map[planner.Bucket]int)}
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			if tty {
				display.ClearProgress(w)
			}
			log.Warn("Interrupted")
			return err
		}

		name := filepath.Base(path)
		if tty {
			display.PrintProgress(w, display.ProgressLine("Probing", i+1, total, 0, name))
		}

		meta, err := probeFn(ctx, path)
		if err != nil {
			a.unreadable++
			if tty {
				display.ClearProgress(w)
			}
			log.Warn("Skip (unreadable): %s", name)
			log.Debug(cfg.Verbose, "  %v", err)
			continue
		}
		a.add(name, planner.BuildPlan(meta), meta)
	}

	if tty {
		display.ClearProgress(w)
	}
	if len(a.rows) == 0 {
		log.Warn("No images could be read")
		return nil
	}

	printAnalysisTable(w, a.rows)
	printAnalysisSummary(log, a)
	return nil
}

func (a *analysis) add(name string, plan *planner.FilePlan, meta *probe.Metadata) {
	row := fileRow{
		Name:        name,
		Resolution:  meta.Resolution(),
		Orientation: meta.Orientation.String(),
		Bucket:      string(plan.Bucket()),
		Copy:        plan.Action == planner.ActionCopy,
	}
	if row.Bucket == "" {
		row.Bucket = "-"
	}
	if row.Copy {
		row.Verdict = "copy"
		a.buckets[plan.Bucket()]++
	} else {
		row.Verdict = "skip: " + plan.SkipReason
		a.skipped++
	}
	a.rows = append(a.rows, row)
}

func printAnalysisTable(w io.Writer, rows []fileRow) {
	nameW := len("File")
	resW := len("Resolution")
	orW := len("Orientation")
	bW := len("Bucket")

	for _, r := range rows {
		nameW = max(nameW, len(r.Name))
		resW = max(resW, len(r.Resolution))
		orW = max(orW, len(r.Orientation))
		bW = max(bW, len(r.Bucket))
	}
	nameW = min(nameW, 50)

	header := fmt.Sprintf("  %-*s  %-*s  %-*s  %-*s  %s",
		nameW, "File",
		resW, "Resolution",
		orW, "Orientation",
		bW, "Bucket",
		"Verdict",
	)
	separator := "  " + strings.Repeat("─", len(header)-2)

	fmt.Fprintln(w, header)
	fmt.Fprintln(w, separator)

	for _, r := range rows {
		// Pad the plain text first, then wrap in ANSI color so escape bytes
		// do not count toward the column width.
		fmt.Fprintf(w, "  %-*s  %-*s  %-*s  %s  %s\n",
			nameW, display.Truncate(r.Name, nameW),
			resW, r.Resolution,
			orW, r.Orientation,
			colorPad(r.Bucket, bW, r.Copy),
			verdictCell(r),
		)
	}
	fmt.Fprintln(w)
}

func printAnalysisSummary(log *logging.Logger, a *analysis) {
	copyable := len(a.rows) - a.skipped
	log.Info("Analyzed %d images: %d would be copied, %d skipped, %d unreadable",
		len(a.rows)+a.unreadable, copyable, a.skipped, a.unreadable)
	for _, b := range planner.Buckets() {
		if n := a.buckets[b]; n > 0 {
			log.Info("  %-6s %d", b, n)
		}
	}
	if copyable == 0 {
		log.Warn("  No image meets %dx%d with an EXIF orientation", planner.MinWidth, planner.MinHeight)
	}
}

func verdictCell(r fileRow) string {
	if r.Copy {
		return term.Paint(term.Green, r.Verdict)
	}
	return term.Paint(term.Dim, r.Verdict)
}

// colorPad pads a plain string to width, then wraps in ANSI color.
func colorPad(s string, width int, highlight bool) string {
	padded := fmt.Sprintf("%-*s", width, s)
	if highlight {
		return term.Paint(term.Cyan, padded)
	}
	return padded
}
