package naming

import (
	"errors"
	"io/fs"
	"os"
	"sync"
)

// claimRegistry tracks destination paths handed out during one run. A path
// is claimable when no earlier call claimed it and nothing exists at it on
// disk. All methods are goroutine-safe.
type claimRegistry struct {
	mu     sync.Mutex
	claims map[string]struct{}
	exists func(path string) bool
}

func newClaimRegistry() *claimRegistry {
	return &claimRegistry{
		claims: make(map[string]struct{}),
		exists: pathExists,
	}
}

// claim records path and reports true if it was free.
func (cr *claimRegistry) claim(path string) bool {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if _, taken := cr.claims[path]; taken {
		return false
	}
	if cr.exists(path) {
		return false
	}
	cr.claims[path] = struct{}{}
	return true
}

// len returns the number of paths claimed so far.
func (cr *claimRegistry) len() int {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return len(cr.claims)
}

// pathExists treats any Lstat result other than "not exist" as taken.
func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
