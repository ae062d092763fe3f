package planner

import "fmt"

// Minimum dimensions for an image to be triaged (UHD 4K).
const (
	MinWidth  = 3840
	MinHeight = 2160
)

// Verdict is the classifier's answer for one pair of dimensions.
type Verdict struct {
	Qualifies bool
	Bucket    Bucket // empty when Qualifies is false
}

// Qualifies reports whether w x h meets the UHD gate. Both dimensions must
// reach the minimum; a large portrait image fails on width.
func Qualifies(w, h int) bool {
	return w >= MinWidth && h >= MinHeight
}

// Evaluate runs the resolution gate and, for qualifying dimensions, the
// ratio classification.
func Evaluate(w, h int) Verdict {
	if !Qualifies(w, h) {
		return Verdict{}
	}
	b, ok := Classify(w, h)
	if !ok {
		return Verdict{}
	}
	return Verdict{Qualifies: true, Bucket: b}
}

func (v Verdict) String() string {
	if !v.Qualifies {
		return fmt.Sprintf("below %dx%d", MinWidth, MinHeight)
	}
	return string(v.Bucket)
}
