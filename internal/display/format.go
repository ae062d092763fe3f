// Package display formats sizes, counts and the live progress line for the
// terminal.
package display

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatBytes returns a human-readable IEC size (B, KiB, MiB, GiB, ...).
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.IBytes(uint64(-bytes))
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatResolution returns "WxH", or "unknown" for non-positive sizes.
func FormatResolution(width, height int) string {
	if width <= 0 || height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", width, height)
}

// FormatMegapixels returns the pixel count in megapixels with one decimal.
func FormatMegapixels(width, height int) string {
	if width <= 0 || height <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f MP", float64(width)*float64(height)/1e6)
}

// Percent returns done/total as an integer percentage; 0 when total is 0.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return done * 100 / total
}

// FormatCount renders n with thousands separators (e.g. "12,480").
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}
