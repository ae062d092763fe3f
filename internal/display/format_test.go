package display

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"small bytes", 512, "512 B"},
		{"exactly 1 KiB", 1024, "1.0 KiB"},
		{"1.5 KiB", 1536, "1.5 KiB"},
		{"1 MiB", 1024 * 1024, "1.0 MiB"},
		{"typical 4K jpeg", 7340032, "7.0 MiB"},
		{"large library", 734003200, "700 MiB"},
		{"negative", -1024 * 1024, "-1.0 MiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatResolution(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want string
	}{
		{"uhd", 3840, 2160, "3840x2160"},
		{"zero height", 3840, 0, "unknown"},
		{"negative", -1, 10, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatResolution(tt.w, tt.h); got != tt.want {
				t.Errorf("FormatResolution(%d, %d) = %q, want %q", tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestFormatMegapixels(t *testing.T) {
	if got := FormatMegapixels(3840, 2160); got != "8.3 MP" {
		t.Errorf("FormatMegapixels = %q, want %q", got, "8.3 MP")
	}
	if got := FormatMegapixels(0, 2160); got != "n/a" {
		t.Errorf("FormatMegapixels(0) = %q, want n/a", got)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		done, total, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{3, 3, 100},
		{5, 10, 50},
	}
	for _, tt := range tests {
		if got := Percent(tt.done, tt.total); got != tt.want {
			t.Errorf("Percent(%d, %d) = %d, want %d", tt.done, tt.total, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	if got := FormatCount(12480); got != "12,480" {
		t.Errorf("FormatCount = %q, want %q", got, "12,480")
	}
}

func TestProgressLine(t *testing.T) {
	line := ProgressLine("Sorting", 1, 4, 0, "IMG_0001.jpg")
	if !strings.HasPrefix(line, "  Sorting [1/4] 25% IMG_0001.jpg") {
		t.Errorf("ProgressLine = %q", line)
	}
	if n := utf8.RuneCountInString(line); n != lineWidth {
		t.Errorf("width = %d, want %d", n, lineWidth)
	}

	line = ProgressLine("Sorting", 2, 4, 1, strings.Repeat("x", 60)+".jpg")
	if !strings.Contains(line, "copied 1 ") || !strings.Contains(line, "…") {
		t.Errorf("ProgressLine = %q", line)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short.jpg", 20); got != "short.jpg" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("abcdefgh", 5); got != "abcd…" {
		t.Errorf("Truncate = %q, want %q", got, "abcd…")
	}
}

func TestPrintAndClearProgress(t *testing.T) {
	var buf bytes.Buffer
	PrintProgress(&buf, "x")
	ClearProgress(&buf)
	if !strings.HasPrefix(buf.String(), "\rx\r") {
		t.Errorf("output = %q", buf.String())
	}
}
