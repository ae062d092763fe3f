package pipeline

import (
	"github.com/backmassage/photosift/internal/planner"
	"github.com/backmassage/photosift/internal/probe"
)

// progressTopic is the bus topic every Runner event is published on.
const progressTopic = "photosift:progress"

// EventKind identifies a progress event.
type EventKind int

const (
	EventStarted     EventKind = iota // Discovery finished; Progress.Discovered is the total.
	EventFileStarted                  // Progress.CurrentFile is about to be committed.
	EventFileDone                     // File copied or skipped; Meta and Plan are set.
	EventFileError                    // Probe, naming or copy failed; Err and Message are set.
	EventFinished                     // Terminal; Outcome and Message are set.
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventFileStarted:
		return "file-started"
	case EventFileDone:
		return "file-done"
	case EventFileError:
		return "file-error"
	case EventFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Event is one entry of the progress feed. Progress is the snapshot taken
// right after the change the event describes.
type Event struct {
	Kind     EventKind
	Path     string
	Progress Progress
	State    State

	Meta *probe.Metadata
	Plan *planner.FilePlan

	Err     error
	Message string
	Outcome *Outcome
}
