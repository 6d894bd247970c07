package jtlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// maxRecordsBeforeRotation is spec.md §4.5's implicit-rotation
// threshold: once the tree already holds this many accepted records,
// the next accepted record rotates the existing tree out first (see
// emit() and SPEC_FULL.md §13's resolution of the exact trigger point)
// before being appended to the now-empty one.
const maxRecordsBeforeRotation = 500

// maxRetainedRotations is spec.md §3's bound on the rotated-file
// registry.
const maxRetainedRotations = 5

// rotationRegistry is the bounded FIFO of at most maxRetainedRotations
// rotated-file paths (spec.md §3). It is built on
// github.com/hashicorp/golang-lru the way kryptco-kr's ssh_agent.go
// builds hostAuthCallbacksBySessionID on the same package: entries are
// only ever Add()ed, never Get()-refreshed, so LRU order degenerates
// to pure insertion-order FIFO, and the eviction callback performs the
// spec-required disk delete of the oldest retained file.
type rotationRegistry struct {
	cache *lru.Cache
	seq   uint64
}

func newRotationRegistry() *rotationRegistry {
	r := &rotationRegistry{}
	c, err := lru.NewWithEvict(maxRetainedRotations, func(_, value interface{}) {
		if p, ok := value.(string); ok {
			_ = os.Remove(p)
		}
	})
	if err != nil {
		// maxRetainedRotations is a positive compile-time constant;
		// lru.NewWithEvict only errors for size <= 0.
		panic(err)
	}
	r.cache = c
	return r
}

// push appends path as the newest retained rotation. If the registry
// already holds maxRetainedRotations entries, the oldest is evicted
// (and its file deleted from disk) before path is added.
func (r *rotationRegistry) push(path string) {
	r.seq++
	r.cache.Add(r.seq, path)
}

// rotatedPath computes the "H_M_S_NS_<primary>" rotated path spec.md
// §4.4 describes, rooted next to primary.
func rotatedPath(primary string) string {
	now := time.Now()
	dir, base := filepath.Split(primary)
	name := fmt.Sprintf("%d_%d_%d_%d_%s", now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), base)
	return filepath.Join(dir, name)
}
