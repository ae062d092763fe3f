package planner

import "github.com/backmassage/photosift/internal/probe"

// Action describes the per-file processing decision.
type Action int

const (
	ActionCopy Action = iota
	ActionSkip
)

func (a Action) String() string {
	switch a {
	case ActionCopy:
		return "copy"
	case ActionSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Skip reasons reported in FilePlan.SkipReason.
const (
	ReasonBelowResolution = "below 3840x2160"
	ReasonNoOrientation   = "no EXIF orientation"
)

// FilePlan holds the decision for a single image. It is produced by
// BuildPlan and consumed by the pipeline runner.
type FilePlan struct {
	Action     Action
	SkipReason string

	Verdict     Verdict
	Orientation probe.Orientation

	// InputPath is the source file; OutputPath is filled in by the runner
	// once a destination has been named.
	InputPath  string
	OutputPath string
}

// Bucket is shorthand for p.Verdict.Bucket.
func (p *FilePlan) Bucket() Bucket {
	return p.Verdict.Bucket
}
