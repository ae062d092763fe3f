package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/backmassage/photosift/internal/errs"
	"github.com/backmassage/photosift/internal/probe"
)

// Discover walks sourceDir recursively, collects files with a supported
// image extension (case-insensitive) and returns the paths sorted
// lexicographically for a deterministic processing order. Any walk error
// fails discovery as a whole.
func Discover(sourceDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if probe.IsSupported(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.KindRun, "discover", sourceDir, err)
	}
	sort.Strings(files)
	return files, nil
}
