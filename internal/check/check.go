// Package check provides system diagnostics (--check mode) and pre-pipeline
// validation (CheckDeps): image decoders, the EXIF reader, and a writable
// destination.
package check

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/backmassage/photosift/internal/config"
	"github.com/backmassage/photosift/internal/display"
	"github.com/backmassage/photosift/internal/probe"
)

// Sentinel errors returned by CheckDeps.
var (
	ErrDecoderBroken   = errors.New("image decoder self-test failed")
	ErrEXIFBroken      = errors.New("EXIF orientation self-test failed")
	ErrDestNotWritable = errors.New("destination directory is not writable")
)

// lowSpaceBytes is the free-space level below which RunCheck warns.
const lowSpaceBytes = 1 << 30

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: decoder and EXIF self-tests,
// host CPU and memory, and free space at the destination when one is
// configured. It is informational only and never stops on failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")

	checkDecoders(log)
	checkEXIF(log)
	checkHost(log)
	if cfg.DestDir != "" {
		checkDestination(cfg.DestDir, log)
	}
}

// checkDecoders runs a header probe over a tiny in-memory image of every
// supported format.
func checkDecoders(log Logger) {
	log.Info("Decoders (%v):", probe.Extensions())
	for _, s := range samples {
		if err := probeSample(s); err != nil {
			log.Error("  %s: %v", s.format, err)
			continue
		}
		log.Success("  %s: ok", s.format)
	}
}

// checkEXIF verifies that an orientation tag round-trips through the reader.
func checkEXIF(log Logger) {
	if err := exifSelfTest(); err != nil {
		log.Error("EXIF orientation: %v", err)
		return
	}
	log.Success("EXIF orientation: ok")
}

func checkHost(log Logger) {
	log.Info("Host: %s/%s, %s", runtime.GOOS, runtime.GOARCH, runtime.Version())
	if n, err := cpu.Counts(true); err == nil {
		phys, _ := cpu.Counts(false)
		log.Info("  CPUs: %d logical, %d physical (max --workers %d)", n, phys, config.MaxWorkers)
	} else {
		log.Warn("  CPUs: unknown (%v)", err)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		log.Info("  Memory: %s available of %s",
			display.FormatBytes(int64(vm.Available)), display.FormatBytes(int64(vm.Total)))
	}
}

func checkDestination(dest string, log Logger) {
	free, total, err := FreeSpace(dest)
	if err != nil {
		log.Warn("Destination %s: free space unknown (%v)", dest, err)
		return
	}
	msg := fmt.Sprintf("Destination %s: %s free of %s", dest,
		display.FormatBytes(int64(free)), display.FormatBytes(int64(total)))
	if free < lowSpaceBytes {
		log.Warn("%s (low)", msg)
		return
	}
	log.Success("%s", msg)
}

// CheckDeps is the pre-pipeline validation. It runs the decoder and EXIF
// self-tests and, unless this is a dry run, verifies that a file can be
// created in the destination directory. Returns a sentinel error (wrapped
// with detail) on failure.
func CheckDeps(cfg *config.Config) error {
	for _, s := range samples {
		if err := probeSample(s); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrDecoderBroken, s.format, err)
		}
	}
	if err := exifSelfTest(); err != nil {
		return fmt.Errorf("%w: %v", ErrEXIFBroken, err)
	}
	if cfg.DryRun {
		return nil
	}
	return checkWritable(cfg.DestDir)
}

// FreeSpace reports free and total bytes on the filesystem holding path.
// When path does not exist yet its nearest existing parent is used.
func FreeSpace(path string) (free, total uint64, err error) {
	p := existingParent(path)
	u, err := disk.Usage(p)
	if err != nil {
		return 0, 0, err
	}
	return u.Free, u.Total, nil
}

// --- internal helpers ---

func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".photosift-check-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDestNotWritable, err)
	}
	name := f.Name()
	f.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("%w: %v", ErrDestNotWritable, err)
	}
	return nil
}

func existingParent(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	for {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return p
		}
		p = parent
	}
}

// sample is one self-test image format.
type sample struct {
	format string
	encode func(*bytes.Buffer, image.Image) error
}

var samples = []sample{
	{"jpeg", func(b *bytes.Buffer, m image.Image) error { return jpeg.Encode(b, m, nil) }},
	{"png", func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) }},
	{"bmp", func(b *bytes.Buffer, m image.Image) error { return bmp.Encode(b, m) }},
	{"tiff", func(b *bytes.Buffer, m image.Image) error { return tiff.Encode(b, m, nil) }},
}

const sampleW, sampleH = 24, 16

func probeSample(s sample) error {
	var buf bytes.Buffer
	if err := s.encode(&buf, image.NewGray(image.Rect(0, 0, sampleW, sampleH))); err != nil {
		return err
	}
	m, err := probe.ProbeReader(bytes.NewReader(buf.Bytes()), "sample."+s.format)
	if err != nil {
		return err
	}
	if m.Format != s.format || m.Width != sampleW || m.Height != sampleH {
		return fmt.Errorf("probed %s %s, want %s %dx%d", m.Format, m.Resolution(), s.format, sampleW, sampleH)
	}
	return nil
}

// taggers insert an orientation tag into an encoded sample.
var taggers = []struct {
	sample sample
	tag    func([]byte, probe.Orientation) ([]byte, error)
}{
	{samples[0], probe.InsertOrientation},
	{samples[1], probe.InsertPNGOrientation},
}

func exifSelfTest() error {
	img := image.NewGray(image.Rect(0, 0, sampleW, sampleH))
	for _, tg := range taggers {
		var buf bytes.Buffer
		if err := tg.sample.encode(&buf, img); err != nil {
			return err
		}
		data, err := tg.tag(buf.Bytes(), probe.OrientationRotate90)
		if err != nil {
			return err
		}
		m, err := probe.ProbeReader(bytes.NewReader(data), "sample."+tg.sample.format)
		if err != nil {
			return err
		}
		if m.Orientation != probe.OrientationRotate90 {
			return fmt.Errorf("%s: read orientation %s, want %s", tg.sample.format, m.Orientation, probe.OrientationRotate90)
		}
	}
	return nil
}
