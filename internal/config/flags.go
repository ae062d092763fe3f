package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into behavior, display, and utility.
// Negated flags (e.g. --no-color) are applied after Parse so earlier layers hold unless set.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrHelp is returned by ParseArgs when --help or --version was handled.
// The caller should exit 0.
var ErrHelp = errors.New("help requested")

// ParseFlags parses os.Args into cfg. On --help or --version it prints and exits.
// On error it returns non-nil (e.g. unknown flag, missing positional args).
func ParseFlags(cfg *Config, version string) error {
	err := ParseArgs(cfg, version, os.Args[1:], os.Stdout)
	if errors.Is(err, ErrHelp) {
		os.Exit(0)
	}
	return err
}

// ParseArgs layers the config file named by --config, the environment and
// then the flags in args over cfg. Version and help text go to out.
func ParseArgs(cfg *Config, version string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("photosift", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printUsage(out, version) }

	if path := findConfigArg(args); path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return err
		}
	}
	if err := ApplyEnv(cfg); err != nil {
		return err
	}

	// Negated/override flags: we capture bools then apply to cfg after Parse,
	// so that earlier layers hold unless the user passes the flag.
	var negated negatedFlags

	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, cfg, &negated)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(out, version)
			return ErrHelp
		}
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(out, version)
		return ErrHelp
	}
	if negated.showVersion {
		fmt.Fprintln(out, "photosift v"+version)
		return ErrHelp
	}

	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either override a mode (noColor -> ColorNever) or trigger exit (showHelp, showVersion).
type negatedFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineBehaviorFlags registers workers, dry-run, analyze and config.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Files processed concurrently")
	fs.IntVar(&cfg.Workers, "w", cfg.Workers, "Same as --workers")
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "Classify only; do not copy")
	fs.BoolVar(&cfg.DryRun, "d", cfg.DryRun, "Same as --dry-run")
	fs.BoolVar(&cfg.Analyze, "analyze", false, "Print a classification table and exit")
	fs.BoolVar(&cfg.Analyze, "a", false, "Same as --analyze")
	// Consumed by findConfigArg before Parse; registered so Parse accepts it.
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "TOML or YAML config file")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated and override flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// findConfigArg returns the value of -config/--config in args, or "".
// Flag parsing stops at the first positional argument, so does this.
func findConfigArg(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" || !strings.HasPrefix(a, "-") {
			return ""
		}
		name := strings.TrimLeft(a, "-")
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// parsePositionalArgs sets SourceDir and DestDir from the positional args.
// Both may come from the config file instead, in which case none are given.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	switch len(args) {
	case 0:
		return nil
	case 2:
		cfg.SourceDir = NormalizeDirArg(args[0])
		cfg.DestDir = NormalizeDirArg(args[1])
		return nil
	default:
		return fmt.Errorf("need exactly source_dir and dest_dir")
	}
}

// printUsage writes the help text to out. Column-aligned for readability.
func printUsage(out io.Writer, version string) {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "photosift v" + version + " - sort 4K+ photos by orientation and aspect ratio"},
		{"", ""},
		{"  photosift [OPTIONS] <source_dir> <dest_dir>", ""},
		{"", ""},
		{"Behavior", ""},
		{"  -w, --workers <n>", "Files processed concurrently (default: 1)"},
		{"  -d, --dry-run", "Classify only; do not copy"},
		{"  -a, --analyze", "Print a classification table and exit"},
		{"  --config <file>", "Load settings from a .toml or .yaml file"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (decoders, EXIF, disk)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
		{"", ""},
		{"Environment", ""},
		{"  " + EnvWorkers, "Same as --workers"},
		{"  " + EnvLogFile, "Same as --log"},
		{"  " + EnvColor, "auto | always | never"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(out)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(out, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(out, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(out, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapter so ColorMode can be set from the config file and environment.

type colorModeValue struct{ p *ColorMode }

func (c *colorModeValue) String() string { return string(*c.p) }
func (c *colorModeValue) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		*c.p = ColorAuto
	case "always":
		*c.p = ColorAlways
	case "never":
		*c.p = ColorNever
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}
