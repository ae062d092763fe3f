package pipeline

import (
	"fmt"
	"time"
)

// State is the lifecycle state of a Runner.
type State int

const (
	StateIdle State = iota
	StateDiscovering
	StateProcessing
	StateCompleted
	StateCancelled
	StateFailed
)

var stateNames = [...]string{
	StateIdle:        "idle",
	StateDiscovering: "discovering",
	StateProcessing:  "processing",
	StateCompleted:   "completed",
	StateCancelled:   "cancelled",
	StateFailed:      "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// Progress is a snapshot of the live counters of a run.
//
// Processed counts every file that finished (copied, skipped or failed),
// so Processed == Copied + Skipped + Failed always holds.
type Progress struct {
	Discovered  int
	Processed   int
	Copied      int
	Skipped     int
	Failed      int
	CurrentFile string
}

// Outcome is the final result of a run. Cancellation is reported here and
// never as an error.
type Outcome struct {
	Discovered  int
	Processed   int
	Copied      int
	Skipped     int
	Failed      int
	Cancelled   bool
	BytesCopied int64
	Elapsed     time.Duration
}

// Summary returns the one-line completion or cancellation notice.
func (o Outcome) Summary() string {
	if o.Cancelled {
		return fmt.Sprintf("Processing cancelled by user. Processed %d of %d images, copied %d images.",
			o.Processed, o.Discovered, o.Copied)
	}
	return fmt.Sprintf("Processing complete! Processed %d images, copied %d images.", o.Processed, o.Copied)
}

func outcomeOf(p Progress) Outcome {
	return Outcome{
		Discovered: p.Discovered,
		Processed:  p.Processed,
		Copied:     p.Copied,
		Skipped:    p.Skipped,
		Failed:     p.Failed,
	}
}
