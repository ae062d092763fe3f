// Package pipeline orchestrates discovery, per-file triage and the run
// lifecycle.
//
// A Runner owns one run at a time:
//
//	Idle → Discovering → Processing → Completed | Cancelled | Failed
//
// Each discovered file goes probe → plan → name → copy. Per-file failures
// are counted and reported, never fatal. Progress has a single writer (the
// commit loop) and is observable through snapshots or a subscribed event
// feed. Run and Analyze are the CLI entry points built on top.
package pipeline
