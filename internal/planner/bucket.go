package planner

import (
	"runtime"
	"strings"
)

// Bucket is an aspect-ratio category label.
type Bucket string

const (
	Bucket16x9   Bucket = "16:9"
	Bucket4x3    Bucket = "4:3"
	Bucket3x2    Bucket = "3:2"
	Bucket1x1    Bucket = "1:1"
	Bucket21x9   Bucket = "21:9"
	BucketCustom Bucket = "Custom"
)

// ratioTolerance is the absolute difference allowed between w/h and a
// bucket's target ratio.
const ratioTolerance = 0.01

type ratioEntry struct {
	bucket Bucket
	target float64
}

// ratioTable is evaluated top to bottom; the first match wins.
var ratioTable = []ratioEntry{
	{Bucket16x9, 16.0 / 9.0},
	{Bucket4x3, 4.0 / 3.0},
	{Bucket3x2, 3.0 / 2.0},
	{Bucket1x1, 1.0},
	{Bucket21x9, 21.0 / 9.0},
}

// Classify returns the first bucket in table order whose target ratio is
// within ratioTolerance of w/h, or BucketCustom. ok is false when either
// dimension is not positive.
func Classify(w, h int) (b Bucket, ok bool) {
	if w <= 0 || h <= 0 {
		return "", false
	}
	ratio := float64(w) / float64(h)
	for _, e := range ratioTable {
		if abs(ratio-e.target) < ratioTolerance {
			return e.bucket, true
		}
	}
	return BucketCustom, true
}

// Buckets returns every bucket in table order followed by BucketCustom.
func Buckets() []Bucket {
	out := make([]Bucket, 0, len(ratioTable)+1)
	for _, e := range ratioTable {
		out = append(out, e.bucket)
	}
	return append(out, BucketCustom)
}

// DirName returns the directory segment for b on the running OS.
func (b Bucket) DirName() string {
	return b.dirName(runtime.GOOS)
}

// Colons are illegal in Windows path segments, so "16:9" becomes "16_9".
func (b Bucket) dirName(goos string) string {
	if goos == "windows" {
		return strings.ReplaceAll(string(b), ":", "_")
	}
	return string(b)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
