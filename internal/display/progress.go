package display

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	lineWidth = 80
	maxName   = 36
)

// ProgressLine renders a single inline status line, e.g.
// "  Sorting [12/340] 3% copied 4 IMG_0001.jpg", padded to overwrite
// whatever the previous call printed.
func ProgressLine(verb string, current, total, copied int, name string) string {
	status := fmt.Sprintf("  %s [%d/%d] %d%% ", verb, current, total, Percent(current, total))
	if copied > 0 {
		status += fmt.Sprintf("copied %d ", copied)
	}
	status += Truncate(name, maxName)

	if n := utf8.RuneCountInString(status); n < lineWidth {
		status += strings.Repeat(" ", lineWidth-n)
	}
	return status
}

// PrintProgress writes line with a leading carriage return so it replaces
// the previous one on a TTY.
func PrintProgress(w io.Writer, line string) {
	fmt.Fprintf(w, "\r%s", line)
}

// ClearProgress erases the inline progress line on a TTY.
func ClearProgress(w io.Writer) {
	fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", lineWidth))
}

// Truncate shortens s to at most max runes, marking the cut with "…".
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}
