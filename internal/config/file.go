package config

// This file layers an optional config file and environment variables over
// the defaults. Precedence, lowest first: defaults, file, environment, flags.

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvWorkers = "PHOTOSIFT_WORKERS"
	EnvLogFile = "PHOTOSIFT_LOG"
	EnvColor   = "PHOTOSIFT_COLOR"
)

// fileConfig mirrors the settable subset of Config. Pointer fields tell an
// absent key apart from a zero value.
type fileConfig struct {
	Source  *string `toml:"source" yaml:"source"`
	Dest    *string `toml:"dest" yaml:"dest"`
	Workers *int    `toml:"workers" yaml:"workers"`
	DryRun  *bool   `toml:"dry_run" yaml:"dry_run"`
	Verbose *bool   `toml:"verbose" yaml:"verbose"`
	Color   *string `toml:"color" yaml:"color"`
	LogFile *string `toml:"log_file" yaml:"log_file"`
}

// LoadFile reads a TOML (.toml) or YAML (.yaml, .yml) file into cfg. Keys
// missing from the file leave cfg untouched.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("parse TOML config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("parse YAML config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (use .toml, .yaml or .yml)", filepath.Ext(path))
	}

	if fc.Source != nil {
		cfg.SourceDir = NormalizeDirArg(*fc.Source)
	}
	if fc.Dest != nil {
		cfg.DestDir = NormalizeDirArg(*fc.Dest)
	}
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.DryRun != nil {
		cfg.DryRun = *fc.DryRun
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	if fc.Color != nil {
		if err := (&colorModeValue{&cfg.ColorMode}).Set(*fc.Color); err != nil {
			return err
		}
	}
	if fc.LogFile != nil {
		cfg.LogFile = *fc.LogFile
	}
	cfg.ConfigFile = path
	return nil
}

// ApplyEnv loads a .env file from the working directory when one exists
// (already-set variables win) and applies PHOTOSIFT_* overrides to cfg.
func ApplyEnv(cfg *Config) error {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be a whole number (got %q)", EnvWorkers, v)
		}
		cfg.Workers = n
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv(EnvColor); v != "" {
		if err := (&colorModeValue{&cfg.ColorMode}).Set(v); err != nil {
			return fmt.Errorf("%s: %w", EnvColor, err)
		}
	}
	return nil
}
