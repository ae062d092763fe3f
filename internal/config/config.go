// Package config holds runtime configuration: defaults, CLI flag parsing,
// optional config file and environment overrides, and validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// MaxWorkers caps --workers. Copying is disk bound; more goroutines than
// this only add seek contention.
const MaxWorkers = 64

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then layered with a config file, the environment and CLI flags by
// [ParseFlags] before being passed (by pointer) to packages that need it.
type Config struct {
	// Paths (set from positional args or the config file).
	SourceDir string
	DestDir   string

	// Behavior.
	Workers int  // Default: 1 (strictly sequential processing).
	DryRun  bool // Classify and name, but do not create directories or copy.
	Analyze bool // Print a per-file classification table and exit.

	// Display and logging.
	Verbose    bool
	ColorMode  ColorMode // Default: "auto".
	LogFile    string    // Optional log file path.
	CheckOnly  bool      // Run --check diagnostics and exit.
	ConfigFile string    // Optional TOML or YAML file, see LoadFile.
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [ParseFlags] applies file, environment and CLI overrides.
func DefaultConfig() Config {
	return Config{
		Workers:   1,
		DryRun:    false,
		Analyze:   false,
		Verbose:   false,
		ColorMode: ColorAuto,
		CheckOnly: false,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum and numeric fields. When not in CheckOnly mode, it
// also requires that both source and destination paths are non-empty.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Workers < 1 || c.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d (got %d)", MaxWorkers, c.Workers)
	}

	if c.CheckOnly {
		return nil
	}
	if c.SourceDir == "" || c.DestDir == "" {
		return errors.New("need exactly source_dir and dest_dir")
	}
	return nil
}

// ValidatePaths ensures the resolved destination directory is not inside (or
// equal to) the resolved source directory, so a later run never discovers
// its own copies. Both arguments must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(sourceAbs, destAbs string) error {
	return DestInsideSource(sourceAbs, destAbs)
}

// DestInsideSource returns an error when destAbs equals sourceAbs or lies
// beneath it.
func DestInsideSource(sourceAbs, destAbs string) error {
	sep := string(filepath.Separator)
	// A root source ("/", `C:\`) already ends in the separator.
	prefix := strings.TrimSuffix(sourceAbs, sep) + sep
	if destAbs == sourceAbs || strings.HasPrefix(destAbs+sep, prefix) {
		return errors.New("destination directory must not be inside source directory")
	}
	return nil
}
