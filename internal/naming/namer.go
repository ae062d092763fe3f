package naming

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/backmassage/photosift/internal/errs"
	"github.com/backmassage/photosift/internal/planner"
	"github.com/backmassage/photosift/internal/probe"
)

// maxAttempts bounds how many ids Synthesize draws before giving up. With
// random UUIDs a second draw is already vanishingly rare.
const maxAttempts = 8

// Namer hands out unique destination paths under one root. It is safe for
// concurrent use by the pipeline's workers.
type Namer struct {
	root   string
	claims *claimRegistry
	newID  func() string
}

// NewNamer returns a Namer rooted at root.
func NewNamer(root string) *Namer {
	return &Namer{
		root:   root,
		claims: newClaimRegistry(),
		newID:  func() string { return uuid.New().String() },
	}
}

// Root returns the destination root.
func (n *Namer) Root() string {
	return n.root
}

// Claimed returns how many paths this Namer has handed out.
func (n *Namer) Claimed() int {
	return n.claims.len()
}

// Synthesize returns a fresh destination path for an image with the given
// orientation and bucket, creating its parent directories.
func (n *Namer) Synthesize(o probe.Orientation, b planner.Bucket) (string, error) {
	path, err := n.Plan(o, b)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.Wrap(errs.KindIO, "mkdir", dir, err)
	}
	return path, nil
}

// Plan is Synthesize without creating directories. Dry runs use it.
func (n *Namer) Plan(o probe.Orientation, b planner.Bucket) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		path := OutputPath(n.root, o, b, n.newID())
		if n.claims.claim(path) {
			return path, nil
		}
	}
	dir := filepath.Join(n.root, o.String(), b.DirName())
	return "", errs.New(errs.KindIO, "name", dir,
		fmt.Sprintf("no free name after %d attempts", maxAttempts))
}
