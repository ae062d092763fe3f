package probe

import (
	"bufio"
	"context"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	// Decoders registered with image.DecodeConfig.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/backmassage/photosift/internal/errs"
)

// Supported image file extensions (lowercase, with leading dot).
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// readSeekerAt is satisfied by *os.File and *bytes.Reader.
type readSeekerAt interface {
	io.ReadSeeker
	io.ReaderAt
}

// IsSupported reports whether path has a supported extension, ignoring case.
func IsSupported(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// Extensions returns the supported extensions, sorted.
func Extensions() []string {
	out := make([]string, 0, len(imageExtensions))
	for ext := range imageExtensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Probe opens path and returns its dimensions and orientation. Any failure
// to open, read or parse the header is an errs.KindDecode error. A missing
// orientation is not an error; it yields OrientationUnknown.
func Probe(ctx context.Context, path string) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.KindDecode, "open", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, errs.Wrap(errs.KindDecode, "stat", path, err)
	}
	if fi.IsDir() {
		return nil, errs.New(errs.KindDecode, "open", path, "is a directory")
	}

	m, err := ProbeReader(f, path)
	if err != nil {
		return nil, err
	}
	m.Size = fi.Size()
	return m, nil
}

// ProbeReader does the work of Probe on an already-open file. path is only
// used for the result and error messages.
func ProbeReader(r io.ReadSeeker, path string) (*Metadata, error) {
	cfg, format, err := image.DecodeConfig(bufio.NewReader(r))
	if err != nil {
		return nil, errs.Wrap(errs.KindDecode, "decode header", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errs.New(errs.KindDecode, "decode header", path, "image reports non-positive dimensions")
	}

	m := &Metadata{
		Path:   path,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}

	switch format {
	case "jpeg", "png", "tiff":
	default:
		return m, nil
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, errs.Wrap(errs.KindDecode, "rewind", path, err)
	}
	m.Orientation = readOrientation(r, format)
	return m, nil
}

// readOrientation dispatches to the EXIF reader for format. r is positioned
// at the start of the file.
func readOrientation(r io.ReadSeeker, format string) Orientation {
	switch format {
	case "png":
		return readPNGOrientation(bufio.NewReader(r))
	case "tiff":
		if ra, ok := r.(readSeekerAt); ok {
			return readTIFFOrientation(ra)
		}
	}
	return ReadOrientation(r)
}
