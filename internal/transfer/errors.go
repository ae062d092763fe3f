package transfer

import (
	"errors"
	"io/fs"
	"syscall"

	"github.com/backmassage/photosift/internal/errs"
)

// Reasons returned by Reason.
const (
	ReasonDiskFull     = "disk full"
	ReasonPermission   = "permission denied"
	ReasonReadOnly     = "read-only filesystem"
	ReasonSourceGone   = "source missing"
	ReasonDestGone     = "destination missing"
	ReasonNotRegular   = "not a regular file"
	ReasonGenericIO    = "I/O error"
	reasonUnclassified = ""
)

// reasonRules are checked in order; the first match wins.
var reasonRules = []struct {
	match  func(err error) bool
	reason string
}{
	{isErrno(syscall.ENOSPC, syscall.EDQUOT), ReasonDiskFull},
	{isErrno(syscall.EROFS), ReasonReadOnly},
	{func(err error) bool { return errors.Is(err, fs.ErrPermission) }, ReasonPermission},
	{func(err error) bool { return errors.Is(err, fs.ErrNotExist) && opOf(err) == opOpenSource }, ReasonSourceGone},
	{func(err error) bool { return errors.Is(err, fs.ErrNotExist) }, ReasonDestGone},
	{func(err error) bool { return opOf(err) == opOpenSource && causeText(err) == ReasonNotRegular }, ReasonNotRegular},
}

// Reason returns a short description of a Copy failure, for status lines.
// A nil error yields "".
func Reason(err error) string {
	if err == nil {
		return reasonUnclassified
	}
	for _, r := range reasonRules {
		if r.match(err) {
			return r.reason
		}
	}
	return ReasonGenericIO
}

func isErrno(codes ...syscall.Errno) func(error) bool {
	return func(err error) bool {
		for _, c := range codes {
			if errors.Is(err, c) {
				return true
			}
		}
		return false
	}
}

func opOf(err error) string {
	var e *errs.Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

func causeText(err error) string {
	var e *errs.Error
	if errors.As(err, &e) && e.Cause != nil {
		return e.Cause.Error()
	}
	return ""
}
