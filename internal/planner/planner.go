package planner

import "github.com/backmassage/photosift/internal/probe"

// BuildPlan produces the FilePlan for one probed image.
//
// Flow:
//  1. Resolution gate (skip below 3840x2160)
//  2. Orientation gate (skip when the EXIF tag is missing or invalid)
//  3. Copy into the ratio bucket
func BuildPlan(m *probe.Metadata) *FilePlan {
	plan := &FilePlan{
		InputPath:   m.Path,
		Orientation: m.Orientation,
		Verdict:     Evaluate(m.Width, m.Height),
	}

	switch {
	case !plan.Verdict.Qualifies:
		plan.Action = ActionSkip
		plan.SkipReason = ReasonBelowResolution
	case !m.Orientation.Known():
		plan.Action = ActionSkip
		plan.SkipReason = ReasonNoOrientation
	default:
		plan.Action = ActionCopy
	}
	return plan
}
