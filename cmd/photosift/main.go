// Command photosift is the entrypoint for the photosift image triage CLI.
// It parses flags, validates config and paths, and either runs the system
// check (--check), the analysis survey (--analyze) or the sort pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/backmassage/photosift/internal/check"
	"github.com/backmassage/photosift/internal/config"
	"github.com/backmassage/photosift/internal/display"
	"github.com/backmassage/photosift/internal/logging"
	"github.com/backmassage/photosift/internal/pipeline"
)

// version and commit are set at build time via -ldflags (e.g. Makefile).
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 1. Load config from defaults, config file, environment and CLI flags.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "photosift: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "photosift: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "photosift: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner(os.Stdout)

	// 2. If user asked for system check, run it and exit successfully.
	if cfg.CheckOnly {
		check.RunCheck(&cfg, log)
		return 0
	}

	// 3. Resolve and validate paths: source must exist, destination is
	// created if needed (not on a dry run or analysis), and must not be
	// inside the source.
	sourceAbs, err := absPath(cfg.SourceDir)
	if err != nil {
		log.Error("Source not found: %s", cfg.SourceDir)
		return 1
	}
	if !cfg.DryRun && !cfg.Analyze {
		if err := os.MkdirAll(cfg.DestDir, 0o755); err != nil {
			log.Error("Cannot create destination directory: %s", cfg.DestDir)
			return 1
		}
	}
	destAbs, err := absPath(cfg.DestDir)
	if err != nil && !os.IsNotExist(err) {
		log.Error("Cannot resolve destination path: %s", cfg.DestDir)
		return 1
	}
	if destAbs != "" {
		if err := cfg.ValidatePaths(sourceAbs, destAbs); err != nil {
			log.Error("%v", err)
			log.Error("Choose a destination outside: %s", cfg.SourceDir)
			return 1
		}
	}

	log.Info("=== photosift v%s (%s) ===", version, commit)
	log.Info("In:  %s", cfg.SourceDir)
	log.Info("Out: %s", cfg.DestDir)
	if cfg.ConfigFile != "" {
		log.Info("Config: %s", cfg.ConfigFile)
	}
	if cfg.DryRun {
		log.Warn("DRY RUN")
	}
	log.Info("")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Analysis mode probes and reports only.
	if cfg.Analyze {
		if err := pipeline.Analyze(ctx, &cfg, log); err != nil {
			if ctx.Err() != nil {
				return 130
			}
			return 1
		}
		return 0
	}

	// 5. Decoders, EXIF reader and destination must work; fail fast otherwise.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	// 6. Sort. SIGINT/SIGTERM cancel the run cooperatively.
	out, err := pipeline.Run(ctx, &cfg, log)
	log.Debug(cfg.Verbose, "Outcome: %s", out)
	return pipeline.ExitCode(out, err)
}

// absPath returns the absolute path with symlinks resolved, for comparing
// source vs destination hierarchy.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
