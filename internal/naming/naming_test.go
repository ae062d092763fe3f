package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/photosift/internal/errs"
	"github.com/backmassage/photosift/internal/planner"
	"github.com/backmassage/photosift/internal/probe"
)

var uuidName = regexp.MustCompile(`^img-[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\.jpg$`)

// sequence returns an id source that yields ids in order, then repeats the
// last one.
func sequence(ids ...string) func() string {
	var mu sync.Mutex
	i := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		id := ids[i]
		if i < len(ids)-1 {
			i++
		}
		return id
	}
}

func TestOutputPath(t *testing.T) {
	got := OutputPath("/dest", probe.OrientationNormal, planner.Bucket16x9, "abc")
	want := filepath.Join("/dest", "1", planner.Bucket16x9.DirName(), "img-abc.jpg")
	assert.Equal(t, want, got)

	got = OutputPath("/dest", probe.OrientationUnknown, planner.BucketCustom, "x")
	assert.Equal(t, filepath.Join("/dest", "Unknown", "Custom", "img-x.jpg"), got)

	if runtime.GOOS != "windows" {
		assert.Equal(t, "/dest/6/4:3/img-y.jpg", OutputPath("/dest", probe.OrientationRotate90, planner.Bucket4x3, "y"))
	}
}

func TestSynthesize_CreatesDirsAndUsesUUID(t *testing.T) {
	root := t.TempDir()
	n := NewNamer(root)

	path, err := n.Synthesize(probe.OrientationNormal, planner.Bucket16x9)
	require.NoError(t, err)

	dir := filepath.Join(root, "1", planner.Bucket16x9.DirName())
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Regexp(t, uuidName, filepath.Base(path))

	fi, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "Synthesize must not create the file itself")
}

func TestSynthesize_Unique(t *testing.T) {
	n := NewNamer(t.TempDir())
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		p, err := n.Synthesize(probe.OrientationRotate180, planner.Bucket3x2)
		require.NoError(t, err)
		require.False(t, seen[p], "duplicate path %s", p)
		seen[p] = true
	}
	assert.Equal(t, 200, n.Claimed())
}

func TestSynthesize_Concurrent(t *testing.T) {
	n := NewNamer(t.TempDir())
	const workers, each = 8, 25

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				p, err := n.Synthesize(probe.OrientationNormal, planner.Bucket16x9)
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				assert.False(t, seen[p], "duplicate path %s", p)
				seen[p] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, workers*each)
}

func TestPlan_RetriesClaimedID(t *testing.T) {
	root := t.TempDir()
	n := NewNamer(root)
	n.newID = sequence("same", "same", "other")

	first, err := n.Plan(probe.OrientationNormal, planner.Bucket1x1)
	require.NoError(t, err)
	second, err := n.Plan(probe.OrientationNormal, planner.Bucket1x1)
	require.NoError(t, err)

	assert.Equal(t, "img-same.jpg", filepath.Base(first))
	assert.Equal(t, "img-other.jpg", filepath.Base(second))

	_, err = os.Stat(filepath.Join(root, "1"))
	assert.True(t, os.IsNotExist(err), "Plan must not touch the filesystem")
}

func TestSynthesize_SkipsExistingFile(t *testing.T) {
	root := t.TempDir()
	existing := OutputPath(root, probe.OrientationNormal, planner.Bucket16x9, "taken")
	require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0o755))
	require.NoError(t, os.WriteFile(existing, []byte("earlier run"), 0o644))

	n := NewNamer(root)
	n.newID = sequence("taken", "fresh")

	p, err := n.Synthesize(probe.OrientationNormal, planner.Bucket16x9)
	require.NoError(t, err)
	assert.Equal(t, "img-fresh.jpg", filepath.Base(p))

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "earlier run", string(data))
}

func TestPlan_GivesUpAfterMaxAttempts(t *testing.T) {
	n := NewNamer(t.TempDir())
	n.newID = sequence("stuck")

	_, err := n.Plan(probe.OrientationNormal, planner.Bucket16x9)
	require.NoError(t, err)

	_, err = n.Plan(probe.OrientationNormal, planner.Bucket16x9)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindIO))
	assert.Contains(t, err.Error(), fmt.Sprintf("%d attempts", maxAttempts))
}

func TestSynthesize_MkdirFailure(t *testing.T) {
	root := t.TempDir()
	// A regular file where the orientation directory should go.
	require.NoError(t, os.WriteFile(filepath.Join(root, "1"), nil, 0o644))

	n := NewNamer(root)
	_, err := n.Synthesize(probe.OrientationNormal, planner.Bucket16x9)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindIO))
}

func TestClaimRegistry(t *testing.T) {
	cr := newClaimRegistry()
	cr.exists = func(path string) bool { return path == "/on/disk" }

	assert.True(t, cr.claim("/a"))
	assert.False(t, cr.claim("/a"))
	assert.False(t, cr.claim("/on/disk"))
	assert.True(t, cr.claim("/b"))
	assert.Equal(t, 2, cr.len())
}
