package transfer

import (
	"io"
	"os"
	"path/filepath"

	"github.com/backmassage/photosift/internal/errs"
)

// Operation names recorded on errs.Error, also used by Reason.
const (
	opOpenSource = "open source"
	opCreateTemp = "create temp"
	opWrite      = "write"
	opRename     = "rename"
)

const tempPattern = ".photosift-*.part"

// Copy copies src to dst and returns the number of bytes written. dst's
// directory must already exist. All failures are errs.KindIO errors and
// leave no temporary file behind.
func Copy(src, dst string) (n int64, err error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, errs.Wrap(errs.KindIO, opOpenSource, src, err)
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return 0, errs.Wrap(errs.KindIO, opOpenSource, src, err)
	}
	if !fi.Mode().IsRegular() {
		return 0, errs.New(errs.KindIO, opOpenSource, src, "not a regular file")
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), tempPattern)
	if err != nil {
		return 0, errs.Wrap(errs.KindIO, opCreateTemp, dst, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if n, err = io.Copy(tmp, in); err != nil {
		return 0, errs.Wrap(errs.KindIO, opWrite, dst, err)
	}
	if err = tmp.Sync(); err != nil {
		return 0, errs.Wrap(errs.KindIO, opWrite, dst, err)
	}
	if err = tmp.Close(); err != nil {
		return 0, errs.Wrap(errs.KindIO, opWrite, dst, err)
	}
	if err = os.Chmod(tmpPath, fi.Mode().Perm()|0o200); err != nil {
		return 0, errs.Wrap(errs.KindIO, opWrite, dst, err)
	}
	// Best effort: some filesystems reject timestamps.
	_ = os.Chtimes(tmpPath, fi.ModTime(), fi.ModTime())

	if err = os.Rename(tmpPath, dst); err != nil {
		return 0, errs.Wrap(errs.KindIO, opRename, dst, err)
	}
	return n, nil
}
