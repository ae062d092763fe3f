// Package planner decides what happens to a probed image: whether it clears
// the UHD resolution gate, which aspect-ratio bucket it falls into, and
// whether it is copied or skipped. The result is a FilePlan that the
// pipeline runner consumes.
//
//   - Bucket, the ordered ratio table, Classify (bucket.go)
//   - Qualifies, Evaluate, Verdict (gate.go)
//   - FilePlan, Action, BuildPlan (types.go, planner.go)
package planner
