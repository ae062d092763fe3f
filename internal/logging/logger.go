// Package logging provides the leveled console logger used across photosift.
// Lines look like "2006-01-02 15:04:05 [LEVEL] text"; the level tag is
// colored when the terminal allows it. A plain copy of every line can be
// appended to a log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/writer"

	"github.com/backmassage/photosift/internal/config"
	"github.com/backmassage/photosift/internal/term"
)

// tagKey carries the printed level tag for levels logrus does not have
// (SUCCESS, SKIP).
const tagKey = "tag"

// Logger provides leveled, optionally colored logging with optional file sink.
type Logger struct {
	mu      sync.Mutex
	console *logrus.Logger
	file    *logrus.Logger
	fh      *os.File
}

// NewLogger initializes colors from cfg and optionally opens cfg.LogFile.
// Call Close() when done if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	return NewLoggerTo(cfg, os.Stdout, os.Stderr)
}

// NewLoggerTo is NewLogger with explicit console writers. ERROR lines go to
// errOut, everything else to out.
func NewLoggerTo(cfg *config.Config, out, errOut io.Writer) (*Logger, error) {
	color := term.Configure(cfg.ColorMode)

	console := logrus.New()
	console.SetOutput(io.Discard)
	console.SetLevel(logrus.DebugLevel)
	console.SetFormatter(&lineFormatter{color: color})
	console.AddHook(&writer.Hook{
		Writer:    errOut,
		LogLevels: []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel},
	})
	console.AddHook(&writer.Hook{
		Writer:    out,
		LogLevels: []logrus.Level{logrus.WarnLevel, logrus.InfoLevel, logrus.DebugLevel},
	})

	l := &Logger{console: console}

	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		fl := logrus.New()
		fl.SetOutput(f)
		fl.SetLevel(logrus.DebugLevel)
		fl.SetFormatter(&lineFormatter{})
		l.file = fl
		l.fh = f
	}
	return l, nil
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fh != nil {
		err := l.fh.Close()
		l.fh = nil
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) emit(level logrus.Level, tag, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console.WithField(tagKey, tag).Log(level, text)
	if l.file != nil {
		l.file.WithField(tagKey, tag).Log(level, text)
	}
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.emit(logrus.InfoLevel, "INFO", fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.emit(logrus.InfoLevel, "SUCCESS", fmt.Sprintf(format, args...))
}

// Skip logs at SKIP level (magenta), for files left behind on purpose.
func (l *Logger) Skip(format string, args ...interface{}) {
	l.emit(logrus.InfoLevel, "SKIP", fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.emit(logrus.WarnLevel, "WARN", fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.emit(logrus.ErrorLevel, "ERROR", fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when verbose; no-op otherwise.
func (l *Logger) Debug(verbose bool, format string, args ...interface{}) {
	if !verbose {
		return
	}
	l.emit(logrus.DebugLevel, "DEBUG", fmt.Sprintf(format, args...))
}
