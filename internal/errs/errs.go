// Package errs defines the error taxonomy shared by the probe, transfer and
// pipeline packages. Every error carries a Kind so callers can tell a
// per-file failure (decode, io) from one that stops a run (validation, run).
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error by how the pipeline reacts to it.
type Kind string

const (
	KindValidation Kind = "validation" // Bad start arguments; no run begins.
	KindDecode     Kind = "decode"     // Unreadable or corrupt image; file skipped.
	KindIO         Kind = "io"         // Copy failure; file skipped.
	KindRun        Kind = "run"        // Whole run invalidated.
)

// Error is a typed error with the operation and path it occurred on.
type Error struct {
	Kind  Kind
	Op    string
	Path  string
	Cause error
}

func (e *Error) Error() string {
	msg := string(e.Kind) + ": " + e.Op
	if e.Path != "" {
		msg += " " + fmt.Sprintf("%q", e.Path)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns an error of kind with a plain message as cause.
func New(kind Kind, op, path, message string) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Cause: errors.New(message)}
}

// Wrap attaches kind, op and path to err. A nil err yields nil. An err that
// is already an *Error keeps its original kind.
func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	return &Error{Kind: kind, Op: op, Path: path, Cause: err}
}

// IsKind reports whether the first *Error in err's chain has the given kind.
func IsKind(err error, kind Kind) bool {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind == kind
	}
	return false
}
